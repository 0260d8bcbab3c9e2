// Package control is the out-of-process command channel of a running
// tilewm instance.
//
// A client writes a one-line command into a file under the runtime
// directory and signals the running instance with SIGUSR1. The instance
// watches the same directory, executes the command and publishes its
// state into status files the client can read back.
package control

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned for a command line outside the grammar.
var ErrUnknownCommand = errors.New("unknown command")

// Channel groups commands that share a command file.
type Channel string

const (
	ChannelTiling    Channel = "tiling"
	ChannelWorkspace Channel = "workspace"
)

// Command names.
const (
	CmdEnable      = "enable"
	CmdDisable     = "disable"
	CmdToggle      = "toggle"
	CmdGridMode    = "grid-mode"
	CmdRecalculate = "recalculate"

	CmdSwitch = "switch"
	CmdNext   = "next"
	CmdPrev   = "prev"
)

// Arguments accepted by grid-mode.
const (
	ArgOn     = "on"
	ArgOff    = "off"
	ArgToggle = "toggle"
)

// Command is one parsed command line.
type Command struct {
	Channel Channel
	Name    string
	Arg     string
}

func (c Command) String() string {
	if c.Arg == "" {
		return c.Name
	}
	return c.Name + " " + c.Arg
}

// Tiling builds a tiling command.
func Tiling(name, arg string) Command {
	return Command{Channel: ChannelTiling, Name: name, Arg: arg}
}

// Workspace builds a workspace command.
func Workspace(name, arg string) Command {
	return Command{Channel: ChannelWorkspace, Name: name, Arg: arg}
}

// Validate checks the command against the grammar of its channel.
func (c Command) Validate() error {
	switch c.Channel {
	case ChannelTiling:
		switch c.Name {
		case CmdEnable, CmdDisable, CmdToggle, CmdRecalculate:
			if c.Arg == "" {
				return nil
			}
		case CmdGridMode:
			switch c.Arg {
			case ArgOn, ArgOff, ArgToggle:
				return nil
			}
			return fmt.Errorf("%w: grid-mode expects on, off or toggle, got %q", ErrUnknownCommand, c.Arg)
		}
	case ChannelWorkspace:
		switch c.Name {
		case CmdNext, CmdPrev:
			if c.Arg == "" {
				return nil
			}
		case CmdSwitch:
			if c.Arg != "" {
				return nil
			}
			return fmt.Errorf("%w: switch needs a workspace", ErrUnknownCommand)
		}
	default:
		return fmt.Errorf("%w: channel %q", ErrUnknownCommand, c.Channel)
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownCommand, c.Channel, c.String())
}

// Parse reads a command line for a channel. Surrounding whitespace and a
// trailing newline are ignored.
func Parse(ch Channel, line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	c := Command{Channel: ch, Name: fields[0]}
	if len(fields) > 1 {
		// Workspace names may contain spaces.
		c.Arg = strings.Join(fields[1:], " ")
	}
	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c, nil
}
