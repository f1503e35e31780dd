package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moltbook/internal/cli/clierr"
	"moltbook/internal/cli/moltbook"
	"moltbook/internal/cli/output"
)

func exactArgs(n int) cobra.PositionalArgs {
	return rangeArgs(n, n)
}

func rangeArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs || (maxArgs >= 0 && len(args) > maxArgs) {
			return clierr.Argument("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func listFlags(fs *pflag.FlagSet, sort *string, limit *int, defaultSort string, defaultLimit int) {
	fs.StringVar(sort, "sort", defaultSort, "sort order (hot, new, top, rising)")
	fs.IntVar(limit, "limit", defaultLimit, "maximum number of items")
}

func checkLimit(limit int) error {
	if limit < 0 {
		return clierr.Argument("--limit must not be negative")
	}
	return nil
}

// positional returns args[i], or "" when absent.
func positional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// pick prefers an explicitly set flag over a positional value.
func pick(fs *pflag.FlagSet, name, flagValue, positionalValue string) string {
	if fs.Changed(name) {
		return flagValue
	}
	return positionalValue
}

func anyChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}

// resolveBody returns inline content or the contents of fromFile. Giving both
// is an error.
func resolveBody(inline, fromFile string, required bool) (string, error) {
	if strings.TrimSpace(fromFile) != "" {
		if strings.TrimSpace(inline) != "" {
			return "", clierr.Argument("provide either inline content or --from-file, not both")
		}
		b, err := os.ReadFile(fromFile)
		if err != nil {
			return "", clierr.Wrap(clierr.KindIO, err, "read %s", fromFile)
		}
		body := strings.TrimSpace(string(b))
		if body == "" {
			return "", clierr.Argument("body is empty")
		}
		return body, nil
	}
	body := strings.TrimSpace(inline)
	if required && body == "" {
		return "", clierr.Argument("body is empty")
	}
	return body, nil
}

func trimAt(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "@")
}

// show writes a read response: the raw payload for structured formats,
// otherwise the text view.
func show[T any](a *app, resp moltbook.Response[T], render func(r *output.Renderer, data T)) error {
	if a.out.Structured() {
		return a.out.Raw(resp.Raw)
	}
	render(a.out, resp.Data)
	return nil
}

// done reports a completed write action.
func (a *app) done(res moltbook.Result, msg string) error {
	if a.out.Structured() {
		return a.out.Raw(res.Raw)
	}
	a.out.Done(msg, res.ID, res.Suggestion)
	if res.Message != "" && !strings.EqualFold(res.Message, msg) {
		a.out.Info(res.Message)
	}
	return nil
}

func sortTitle(title, sort string) string {
	if sort == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, sort)
}
