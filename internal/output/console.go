package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNoInput is returned when a confirmation is needed but input is disabled or closed.
var ErrNoInput = errors.New("confirmation required but no input is available")

// Console is the explicit I/O context handed to everything that talks to the user.
type Console struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Interactive enables the spinner; it is set when stderr is a terminal.
	Interactive bool
	// Color enables styled warnings.
	Color bool
	// NoInput makes every confirmation fail instead of prompting.
	NoInput bool

	reader *bufio.Reader
}

// NewConsole creates a console on the process' standard streams.
func NewConsole(noInput bool) *Console {
	tty := term.IsTerminal(int(os.Stderr.Fd()))
	return &Console{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: tty,
		Color:       tty && termenv.NewOutput(os.Stderr).EnvColorProfile() != termenv.Ascii,
		NoInput:     noInput,
	}
}

// Confirm asks a yes/no question until it gets "y" or "n".
func (c *Console) Confirm(prompt string) (bool, error) {
	if c.NoInput {
		return false, fmt.Errorf("%w (--no-input): %s", ErrNoInput, firstLine(prompt))
	}
	for {
		fmt.Fprintf(c.Err, "%s (y/n): ", prompt)
		line, err := c.lines().ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err != nil {
			fmt.Fprintln(c.Err)
			return false, ErrNoInput
		}
	}
}

// Prompt asks for a line of free text. An empty answer returns def.
func (c *Console) Prompt(prompt, def string) (string, error) {
	if c.NoInput {
		return def, nil
	}
	if def != "" {
		fmt.Fprintf(c.Err, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(c.Err, "%s: ", prompt)
	}

	line, err := c.lines().ReadString('\n')
	if err != nil && line == "" {
		return "", ErrNoInput
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

// ReadSecret reads a value without echoing it when In is a terminal.
func (c *Console) ReadSecret(prompt string) (string, error) {
	if c.NoInput {
		return "", fmt.Errorf("%w (--no-input): %s", ErrNoInput, prompt)
	}
	fmt.Fprintf(c.Err, "%s: ", prompt)

	if f, ok := c.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.Err)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := c.lines().ReadString('\n')
	if err != nil && line == "" {
		return "", ErrNoInput
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) lines() *bufio.Reader {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	return c.reader
}

// Infof prints a progress or result message to standard output.
func (c *Console) Infof(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

// Warnf prints a warning to standard error.
func (c *Console) Warnf(format string, args ...any) {
	prefix := "warning: "
	if c.Color {
		prefix = warnStyle.Render("warning:") + " "
	}
	fmt.Fprintf(c.Err, prefix+format+"\n", args...)
}

// Spin shows a spinner with msg until the returned stop function is called.
// It does nothing when the console is not interactive.
func (c *Console) Spin(msg string) (stop func()) {
	if !c.Interactive {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.Err))
	s.Suffix = " " + msg
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
