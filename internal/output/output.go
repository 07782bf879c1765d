// Package output provides consistent CLI output formatting with colors.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	symlinkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	ownerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out      io.Writer
	useColor bool
}

// New creates a new output Writer. Color is enabled automatically when the
// destination is a terminal.
func New(out io.Writer) *Writer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, useColor: useColor}
}

// SetColor overrides color autodetection.
func (w *Writer) SetColor(enabled bool) {
	w.useColor = enabled
}

// Println writes a plain line.
func (w *Writer) Println(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Printf writes formatted text.
func (w *Writer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Println(w.render(successStyle, msg))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Println(w.render(warnStyle, msg))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Println(w.render(errorStyle, msg))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Entry renders a tree entry name styled by its kind.
func (w *Writer) Entry(name string, isDir, isSymlink bool) string {
	switch {
	case isDir:
		return w.render(dirStyle, name)
	case isSymlink:
		return w.render(symlinkStyle, name)
	default:
		return name
	}
}

// Owner renders a user/group annotation.
func (w *Writer) Owner(user, group string) string {
	return w.render(ownerStyle, user+":"+group)
}

func (w *Writer) render(style lipgloss.Style, msg string) string {
	if !w.useColor {
		return msg
	}
	return style.Render(msg)
}
