package notify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	infoLabel    = color.New(color.FgCyan).Sprint("info")
	warningLabel = color.New(color.FgYellow).Sprint("warning")
	errorLabel   = color.New(color.FgRed).Sprint("error")
)

// Console renders notifications on a terminal. In interactive mode it
// offers each action as a yes/no prompt and runs the first one accepted;
// otherwise actions are printed as hints.
type Console struct {
	out         io.Writer
	in          io.Reader
	interactive bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithInput sets the reader used for action prompts.
func WithInput(r io.Reader) ConsoleOption {
	return func(c *Console) {
		c.in = r
	}
}

// Interactive enables action prompting.
func Interactive(on bool) ConsoleOption {
	return func(c *Console) {
		c.interactive = on
	}
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{out: out, in: os.Stdin}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify implements Service.
func (c *Console) Notify(n Notification) error {
	fmt.Fprintf(c.out, "%s: %s\n", severityLabel(n.Severity), n.Message)

	if len(n.Actions) == 0 {
		return nil
	}

	if !c.interactive {
		for _, action := range n.Actions {
			fmt.Fprintf(c.out, "  action available: %s\n", action.Label)
		}
		return nil
	}

	scanner := bufio.NewScanner(c.in)
	for _, action := range n.Actions {
		fmt.Fprintf(c.out, "? %s? (y/N) ", action.Label)
		if !scanner.Scan() {
			return scanner.Err()
		}
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if answer == "y" || answer == "yes" {
			if err := action.Run(); err != nil {
				return fmt.Errorf("running action %q: %w", action.Label, err)
			}
			return nil
		}
	}
	return nil
}

// Info implements Service.
func (c *Console) Info(message string) {
	fmt.Fprintf(c.out, "%s: %s\n", severityLabel(SeverityInfo), message)
}

func severityLabel(s Severity) string {
	switch s {
	case SeverityWarning:
		return warningLabel
	case SeverityError:
		return errorLabel
	default:
		return infoLabel
	}
}
