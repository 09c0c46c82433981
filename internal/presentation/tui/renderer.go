package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/hpos-config/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Printer writes validation reports to a terminal or a plain stream.
type Printer struct {
	out     io.Writer
	render  func(string) (string, error)
	profile termenv.Profile
}

// NewPrinter picks glamour and colours when f is a terminal, plain Markdown otherwise.
func NewPrinter(f *os.File) *Printer {
	if term.IsTerminal(int(f.Fd())) {
		return &Printer{out: f, render: NewRenderer(), profile: termenv.ColorProfile()}
	}
	return NewPlainPrinter(f)
}

// NewPlainPrinter writes uncoloured Markdown to w.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{out: w, profile: termenv.Ascii}
}

// PrintReport writes the status line followed by the report details.
func (p *Printer) PrintReport(r *domain.Report, source string) error {
	if _, err := fmt.Fprintln(p.out, StatusLine(p.profile, r, source)); err != nil {
		return err
	}

	md := ReportMarkdown(r, source)
	if p.render != nil {
		rendered, err := p.render(md)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		md = rendered
	}
	_, err := io.WriteString(p.out, md)
	return err
}

// StatusLine is a one-line verdict, green for valid and red otherwise.
func StatusLine(p termenv.Profile, r *domain.Report, source string) string {
	if r.Valid {
		return p.String("✔ " + source + " is valid").Foreground(p.Color("#22c55e")).Bold().String()
	}
	return p.String("✘ " + source + " is invalid").Foreground(p.Color("#ef4444")).Bold().String()
}

// ReportMarkdown describes r as a Markdown document.
func ReportMarkdown(r *domain.Report, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", source)
	if r.Valid {
		b.WriteString("All required fields are present and well typed.\n\n")
	} else {
		fmt.Fprintf(&b, "**%s** at `%s`\n\n", orUnknown(r.Kind), orUnknown(r.Path))
		fmt.Fprintf(&b, "> %s\n\n", r.Message)
	}
	fmt.Fprintf(&b, "- Report: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Checked: %s\n", r.CheckedAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
