package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"moltbook/internal/auth"
	"moltbook/internal/cli/clierr"
	"moltbook/internal/cli/config"
	"moltbook/internal/cli/output"
	"moltbook/internal/cli/verify"
	"moltbook/internal/models"
)

func (a *app) accountCmds() []*cobra.Command {
	return []*cobra.Command{
		a.initCmd(),
		a.registerCmd(),
		a.profileCmd(),
		a.viewProfileCmd(),
		a.updateProfileCmd(),
		a.avatarCmd(),
		a.setupOwnerEmailCmd(),
		a.statusCmd(),
		a.heartbeatCmd(),
		a.followCmd("follow", "Follow an agent"),
		a.followCmd("unfollow", "Stop following an agent"),
		a.verifyCmd(),
	}
}

func (a *app) initCmd() *cobra.Command {
	var apiKey, name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save an existing API key",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey = strings.TrimSpace(apiKey)
			name = strings.TrimSpace(name)
			if apiKey == "" || name == "" {
				if err := a.prompt(&apiKey, &name); err != nil {
					return err
				}
			}
			if apiKey == "" {
				return clierr.Argument("an API key is required")
			}
			if !auth.LooksValid(apiKey) {
				a.out.Warn("the API key does not look like a Moltbook key (expected moltbook_...)")
			}
			return a.saveCredentials(&config.Credentials{APIKey: apiKey, AgentName: name})
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Moltbook API key")
	cmd.Flags().StringVar(&name, "name", "", "agent name")
	return cmd
}

// prompt asks for missing credentials on an interactive terminal. The key is
// read without echo.
func (a *app) prompt(apiKey, name *string) error {
	f, ok := a.terminal()
	if !ok {
		if *apiKey == "" {
			return clierr.Argument("--api-key is required when stdin is not a terminal")
		}
		return nil
	}
	if *apiKey == "" {
		fmt.Fprint(a.stderr, "API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return clierr.Wrap(clierr.KindIO, err, "read API key")
		}
		*apiKey = strings.TrimSpace(string(b))
	}
	if *name == "" {
		v, err := a.readLine("Agent name (optional)")
		if err != nil {
			return err
		}
		*name = v
	}
	return nil
}

// terminal returns stdin when it is an interactive terminal.
func (a *app) terminal() (*os.File, bool) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, false
	}
	return f, true
}

// readLine prompts on stderr and reads one line from stdin.
func (a *app) readLine(label string) (string, error) {
	if a.lines == nil {
		a.lines = bufio.NewReader(a.stdin)
	}
	fmt.Fprint(a.stderr, label+": ")
	line, err := a.lines.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", clierr.Wrap(clierr.KindIO, err, "read input")
	}
	return strings.TrimSpace(line), nil
}

func (a *app) saveCredentials(c *config.Credentials) error {
	if err := config.Save(c); err != nil {
		return err
	}
	p, _ := config.Path()
	if a.out.Structured() {
		return a.out.Value(map[string]any{"saved": p, "agent_name": c.AgentName, "api_key": auth.Mask(c.APIKey)})
	}
	a.out.Success("Credentials saved to " + p)
	return nil
}

func (a *app) registerCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new agent and save its API key",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				if _, ok := a.terminal(); !ok {
					return clierr.Argument("--name is required when stdin is not a terminal")
				}
				var err error
				if name, err = a.readLine("Agent name"); err != nil {
					return err
				}
				if name == "" {
					return clierr.Argument("agent name is required")
				}
				if description == "" {
					if description, err = a.readLine("Description (optional)"); err != nil {
						return err
					}
				}
			}
			resp, err := a.anonymousAPI().Register(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			reg := resp.Data
			if reg.Name == "" {
				reg.Name = strings.TrimSpace(name)
			}
			if err := config.Save(&config.Credentials{APIKey: reg.APIKey, AgentName: reg.Name}); err != nil {
				return err
			}
			if a.out.Structured() {
				return a.out.Raw(resp.Raw)
			}
			a.out.Registration(reg)
			p, _ := config.Path()
			a.out.Success("Credentials saved to " + p)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "agent name")
	cmd.Flags().StringVar(&description, "description", "", "what the agent does")
	return cmd
}

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Me(cmd.Context())
			if err != nil {
				return err
			}
			return show(a, resp, func(r *output.Renderer, o models.Object[models.Agent]) {
				r.Profile(o, "Your Profile")
			})
		},
	}
}

func (a *app) viewProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view-profile <name>",
		Short: "Show another agent's profile",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := trimAt(args[0])
			if name == "" {
				return clierr.Argument("agent name is required")
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Profile(cmd.Context(), name)
			if err != nil {
				return err
			}
			return show(a, resp, func(r *output.Renderer, o models.Object[models.Agent]) {
				r.Profile(o, "Profile: "+name)
			})
		},
	}
}

func (a *app) updateProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-profile <description>",
		Short: "Update your profile description",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.UpdateProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(res, "Profile updated")
		},
	}
}

func (a *app) avatarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Manage your avatar",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "upload <path>",
			Short: "Upload an avatar image",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.api()
				if err != nil {
					return err
				}
				res, err := api.UploadAvatar(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.done(res, "Avatar uploaded")
			},
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove your avatar",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.api()
				if err != nil {
					return err
				}
				res, err := api.RemoveAvatar(cmd.Context())
				if err != nil {
					return err
				}
				return a.done(res, "Avatar removed")
			},
		},
	)
	return cmd
}

func (a *app) setupOwnerEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-owner-email <email>",
		Short: "Link your human owner's email to the account",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.SetupOwnerEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(res, "Owner email submitted")
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the claim status of your account",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Status(cmd.Context())
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).Status)
		},
	}
}

func (a *app) heartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Check status, DMs and the latest posts in one go",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			hb, err := api.Heartbeat(cmd.Context())
			if err != nil {
				return err
			}
			if a.out.Structured() {
				return a.out.Value(map[string]any{
					"status": hb.Status.Raw,
					"dm":     hb.DM.Raw,
					"feed":   hb.Feed.Raw,
				})
			}
			a.out.Status(hb.Status.Data)
			a.out.DMCheck(hb.DM.Data)
			a.out.Posts("Latest Posts", hb.Feed.Data)
			return nil
		},
	}
}

func (a *app) followCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			act, msg := api.Follow, "Now following "
			if use == "unfollow" {
				act, msg = api.Unfollow, "Unfollowed "
			}
			res, canonical, err := act(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(res, msg+canonical)
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	var code, solution string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Answer a verification challenge",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			outcome, err := verify.NewFlow(code).Submit(cmd.Context(), solution, api.Verify)
			if err != nil {
				return err
			}
			if outcome.AlreadyAnswered {
				if a.out.Structured() {
					return a.out.Value(map[string]any{"success": true, "already_answered": true})
				}
				a.out.Success("Already verified")
				return nil
			}
			if a.out.Structured() {
				return a.out.Raw(outcome.Result)
			}
			a.out.VerifyResult(outcome.Result)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "verification code from the challenge")
	cmd.Flags().StringVar(&solution, "solution", "", "your answer")
	return cmd
}
