// Package output renders styled crudgen reports to a terminal.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jrazmi/crudgen/app/generators/orchestrator"
	"github.com/jrazmi/crudgen/app/generators/templateset"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	kindStyle    = lipgloss.NewStyle().Foreground(colorInfo).Width(18)
)

// Printer writes styled lines to w.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) line(icon lipgloss.Style, mark, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", icon.Render(mark), fmt.Sprintf(format, args...))
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle, "✓", format, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	p.line(warningStyle, "⚠", format, args...)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...any) {
	p.line(errorStyle, "✗", format, args...)
}

// Info prints an info message
func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle, "ℹ", format, args...)
}

// Muted prints a muted message
func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a section header
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, primaryStyle.Render(title))
	fmt.Fprintln(p.w, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// Conflicts prints every violation carried by err. Errors that are not
// descriptor conflicts print as a single line.
func (p *Printer) Conflicts(entity string, err error) {
	var conflict *orchestrator.DescriptorConflictError
	if !errors.As(err, &conflict) {
		p.Error("%s: %v", entity, err)
		return
	}

	p.Error("%s: %d violation(s)", conflict.Entity, len(conflict.Violations))
	for _, v := range conflict.Violations {
		fmt.Fprintf(p.w, "    %s %s\n", warningStyle.Render(v.Code), v.Message)
	}
}

// Summary prints the outcome of a generation run.
func (p *Printer) Summary(runs []orchestrator.Run, written int, dryRun bool, elapsed time.Duration) {
	var failed int
	for _, r := range runs {
		if r.Err != nil {
			failed++
		}
	}

	p.Section("Generation summary")
	verb := "written"
	if dryRun {
		verb = "planned"
	}
	p.Info("%d entit(ies), %d file(s) %s in %v", len(runs), written, verb, elapsed.Round(time.Millisecond))
	if failed > 0 {
		p.Error("%d entit(ies) failed", failed)
		return
	}
	p.Success("all entities generated")
}

// Entries prints one line per template entry with its path pattern.
func (p *Printer) Entries(entries []templateset.Entry) {
	for _, e := range entries {
		line := kindStyle.Render(string(e.Kind)) + " " + e.PathPattern
		if e.Condition != "" {
			line += " " + mutedStyle.Render("(when "+e.Condition+")")
		}
		fmt.Fprintln(p.w, line)
	}
}
