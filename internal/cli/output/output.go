package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"moltbook/internal/cli/clierr"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", clierr.Argument("invalid --format %q (want text, json or yaml)", s)
	}
}

type Renderer struct {
	w      io.Writer
	format Format
	width  int
	emoji  bool
	now    func() time.Time
	st     styles
}

type styles struct {
	title   lipgloss.Style
	accent  lipgloss.Style
	author  lipgloss.Style
	dim     lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	link    lipgloss.Style
	label   lipgloss.Style
}

func newStyles(lr *lipgloss.Renderer) styles {
	return styles{
		title:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		accent:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		author:  lr.NewStyle().Foreground(lipgloss.Color("11")),
		dim:     lr.NewStyle().Foreground(lipgloss.Color("8")),
		success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lr.NewStyle().Foreground(lipgloss.Color("11")),
		fail:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		link:    lr.NewStyle().Underline(true).Foreground(lipgloss.Color("12")),
		label:   lr.NewStyle().Bold(true),
	}
}

// New returns a renderer writing to w. Colour and emoji are used only when w
// is a terminal.
func New(w io.Writer, format Format) *Renderer {
	if format == "" {
		format = FormatText
	}
	return &Renderer{
		w:      w,
		format: format,
		width:  Width(w),
		emoji:  isTerminal(w),
		now:    time.Now,
		st:     newStyles(lipgloss.NewRenderer(w)),
	}
}

// Structured reports whether payloads should be passed through instead of
// rendered as text.
func (r *Renderer) Structured() bool { return r.format != FormatText }

// SetNow fixes the clock used for relative timestamps.
func (r *Renderer) SetNow(now func() time.Time) { r.now = now }

// SetWidth overrides the detected terminal width.
func (r *Renderer) SetWidth(w int) {
	if w > 0 {
		r.width = w
	}
}

// Width is the usable line width for w: COLUMNS, then the terminal size,
// then 80.
func Width(w io.Writer) int {
	if c, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && c > 0 {
		return max(c-2, 40)
	}
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return max(cols-2, 40)
		}
	}
	return 80
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Raw writes a response payload as indented JSON or YAML.
func (r *Renderer) Raw(raw json.RawMessage) error {
	var v any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return clierr.Wrap(clierr.KindAPI, err, "decode response")
		}
	}
	return r.Value(v)
}

// Value writes v in the structured format.
func (r *Renderer) Value(v any) error {
	switch r.format {
	case FormatYAML:
		b, err := yaml.Marshal(normalize(v))
		if err != nil {
			return clierr.Wrap(clierr.KindIO, err, "encode yaml")
		}
		_, err = r.w.Write(b)
		return err
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return clierr.Wrap(clierr.KindIO, err, "encode json")
		}
		_, err = fmt.Fprintln(r.w, string(b))
		return err
	}
}

// normalize round-trips v through JSON so YAML keys follow the json tags and
// nested raw payloads become values.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if json.Unmarshal(b, &out) != nil {
		return v
	}
	return out
}

func (r *Renderer) line(a ...any) { fmt.Fprintln(r.w, a...) }

func (r *Renderer) linef(format string, a ...any) { fmt.Fprintf(r.w, format+"\n", a...) }

func (r *Renderer) icon(emoji, text string) string {
	if r.emoji && emoji != "" {
		return emoji + " " + text
	}
	return text
}

func (r *Renderer) rule(ch string) string {
	return r.st.dim.Render(strings.Repeat(ch, r.width))
}

func (r *Renderer) heading(emoji, title string) {
	r.line()
	r.line(r.icon(emoji, r.st.title.Render(title)))
	r.line(r.rule("━"))
}

// field writes an aligned "label: value" line, skipping empty values.
func (r *Renderer) field(label, value string, style ...lipgloss.Style) {
	if value == "" {
		return
	}
	if len(style) > 0 {
		value = style[0].Render(value)
	}
	r.linef("  %-15s %s", label+":", value)
}

func (r *Renderer) Success(msg string) { r.line(r.icon("✅", r.st.success.Render(msg))) }

func (r *Renderer) Info(msg string) { r.line(r.icon("ℹ️", r.st.accent.Render(msg))) }

func (r *Renderer) Warn(msg string) { r.line(r.icon("⚠️", r.st.warn.Render(msg))) }

// Error writes an error line and an optional hint.
func (r *Renderer) Error(msg, hint string) {
	r.line(r.icon("❌", r.st.fail.Render("error: "+msg)))
	if hint != "" {
		r.line("  " + r.icon("💡", r.st.dim.Render("hint: "+hint)))
	}
}

// Done reports a completed write action.
func (r *Renderer) Done(msg, id, suggestion string) {
	r.Success(msg)
	if id != "" {
		r.line(r.st.dim.Render("ID: " + id))
	}
	if suggestion != "" {
		r.line(r.icon("💡", r.st.dim.Render(suggestion)))
	}
}
