package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type ConsoleStyle int

const (
	StyleNormal ConsoleStyle = iota
	StyleError
	StyleWarning
	StyleTitle
)

var styles = map[ConsoleStyle]lipgloss.Style{
	StyleError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	StyleWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	StyleTitle:   lipgloss.NewStyle().Bold(true).Underline(true),
}

type Console struct {
	useColors bool
	out       io.Writer
	errOut    io.Writer
}

func NewConsole() *Console {
	return &Console{
		useColors: isTerminal(os.Stderr),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
}

// NewPlainConsole writes uncolored output to the given writers.
func NewPlainConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (c *Console) formatMessage(style ConsoleStyle, message string) string {
	if !c.useColors {
		return message
	}

	s, ok := styles[style]
	if !ok {
		return message
	}
	return s.Render(message)
}

func (c *Console) PrintError(message string) {
	fmt.Fprintf(c.errOut, "%s\n", c.formatMessage(StyleError, "Error: "+message))
}

func (c *Console) PrintWarning(message string) {
	fmt.Fprintf(c.errOut, "%s\n", c.formatMessage(StyleWarning, "Warning: "+message))
}

// PrintSection writes a labeled block of text. Lines starting with
// "Warning:" are highlighted.
func (c *Console) PrintSection(label, text string) {
	fmt.Fprintf(c.out, "%s\n\n", c.formatMessage(StyleTitle, label))
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.HasPrefix(line, "Warning:") {
			line = c.formatMessage(StyleWarning, line)
		}
		fmt.Fprintln(c.out, line)
	}
}

func (c *Console) FormatErrorMessage(context, cause, suggestion string) string {
	var parts []string

	if context != "" {
		parts = append(parts, context)
	}

	if cause != "" {
		parts = append(parts, fmt.Sprintf("Cause: %s", cause))
	}

	if suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", suggestion))
	}

	return strings.Join(parts, "\n")
}
