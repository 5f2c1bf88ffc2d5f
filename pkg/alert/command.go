package alert

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Command speaks alerts with an external program such as say or espeak.
// The message is passed as the last argument.
type Command struct {
	name string
	args []string
}

// NewCommand parses a command line like "espeak -s 150".
func NewCommand(cmdline string) (*Command, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, fmt.Errorf("alert: empty speech command")
	}
	return &Command{name: fields[0], args: fields[1:]}, nil
}

// Deliver runs the command and waits for it to finish so phrases never
// overlap.
func (c *Command) Deliver(ctx context.Context, a Alert) error {
	argv := c.Argv(a.Message())
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("alert: %s: %w: %s", c.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Argv returns the full argument vector for a message.
func (c *Command) Argv(message string) []string {
	return append(append([]string{c.name}, c.args...), message)
}

var _ Sink = (*Command)(nil)
