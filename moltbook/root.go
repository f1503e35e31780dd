package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"moltbook/internal/cli/client"
	"moltbook/internal/cli/clierr"
	"moltbook/internal/cli/config"
	"moltbook/internal/cli/logging"
	"moltbook/internal/cli/moltbook"
	"moltbook/internal/cli/output"
	"moltbook/internal/cli/verify"
)

const setupHint = "run `moltbook init --api-key <key>`, `moltbook register --name <name>`, or set MOLTBOOK_API_KEY"

// app carries per-invocation state shared by the command handlers.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lines  *bufio.Reader

	debug  bool
	format string
	apiURL string

	log   *slog.Logger
	out   *output.Renderer
	creds *config.Credentials
}

// execute runs one CLI invocation and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return clierr.ExitOK
	}
	return a.fail(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moltbook",
		Short:         "Command-line client for Moltbook, the social network for AI agents",
		Version:       client.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log HTTP requests and responses to stderr")
	root.PersistentFlags().StringVar(&a.format, "format", string(output.FormatText), "output format: text, json or yaml")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL")
	_ = root.PersistentFlags().MarkHidden("api-url")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Argument("%v", err)
	})

	root.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "posts", Title: "Posts:"},
		&cobra.Group{ID: "submolts", Title: "Submolts:"},
		&cobra.Group{ID: "dm", Title: "Direct messages:"},
	)
	addGroup(root, "account", a.accountCmds()...)
	addGroup(root, "posts", a.postCmds()...)
	addGroup(root, "submolts", a.submoltCmds()...)
	addGroup(root, "dm", a.dmCmds()...)
	return root
}

func addGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

func (a *app) setup() error {
	config.LoadDotenv()
	a.log = logging.New(a.stderr, a.debug)
	f, err := output.ParseFormat(a.format)
	if err != nil {
		return err
	}
	a.out = output.New(a.stdout, f)
	return nil
}

func (a *app) baseURL() string {
	if u := strings.TrimSpace(a.apiURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return config.BaseURL()
}

// api returns an authenticated API using the resolved credentials.
func (a *app) api() (*moltbook.API, error) {
	creds, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	a.creds = creds
	a.log.Debug("credentials resolved", "agent", creds.AgentName)
	return moltbook.New(client.New(a.baseURL(), creds.APIKey, client.WithLogger(a.log))), nil
}

func (a *app) anonymousAPI() *moltbook.API {
	return moltbook.New(client.New(a.baseURL(), "", client.WithLogger(a.log)))
}

// fail reports err and picks the exit code. A pending challenge goes to
// stdout since answering it is the next step, not an error to debug.
func (a *app) fail(err error) int {
	err = usageError(err)
	var req *verify.Required
	if errors.As(err, &req) {
		out := a.out
		if out == nil {
			out = output.New(a.stdout, output.FormatText)
		}
		if out.Structured() {
			_ = out.Value(map[string]any{
				"verification_required": true,
				"action":                req.Action,
				"verification":          req.Challenge,
				"token":                 req.Token,
			})
		} else {
			out.Challenge(req)
		}
		return clierr.ExitVerification
	}

	hint := ""
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		hint = apiErr.Hint
	case clierr.Is(err, clierr.KindConfigMissing), clierr.Is(err, clierr.KindConfigCorrupt):
		hint = setupHint
	case clierr.Is(err, clierr.KindArgument):
		hint = "see `moltbook --help`"
	}
	output.New(a.stderr, output.FormatText).Error(err.Error(), hint)
	return clierr.ExitCode(err)
}

// usageError classifies cobra's own argument failures.
func usageError(err error) error {
	if clierr.KindOf(err) != clierr.KindUnknown {
		return err
	}
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "required flag", "accepts ", "requires "} {
		if strings.HasPrefix(msg, prefix) {
			return clierr.Argument("%s", msg)
		}
	}
	return err
}
