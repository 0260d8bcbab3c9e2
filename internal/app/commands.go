package app

import (
	"fmt"

	"github.com/Gaurav-Gosain/tilewm/internal/control"
)

// Apply executes a command received over the control channel.
func (s *Server) Apply(cmd control.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	switch cmd.Channel {
	case control.ChannelTiling:
		switch cmd.Name {
		case control.CmdEnable:
			return s.SetAutoTiling(true)
		case control.CmdDisable:
			return s.SetAutoTiling(false)
		case control.CmdToggle:
			return s.ToggleAutoTiling()
		case control.CmdRecalculate:
			return s.TileAllWindows()
		case control.CmdGridMode:
			switch cmd.Arg {
			case control.ArgOn:
				return s.SetGridMode(true)
			case control.ArgOff:
				return s.SetGridMode(false)
			default:
				return s.ToggleGridMode()
			}
		}
	case control.ChannelWorkspace:
		switch cmd.Name {
		case control.CmdSwitch:
			return s.SwitchWorkspace(cmd.Arg)
		case control.CmdNext:
			return s.NextWorkspace()
		case control.CmdPrev:
			return s.PrevWorkspace()
		}
	}
	return fmt.Errorf("%w: %s", control.ErrUnknownCommand, cmd)
}
