package main

import (
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/tilewm/internal/control"
	"github.com/spf13/cobra"
)

// newTilingCmds builds the commands that drive the tiling mode of a
// running daemon.
func newTilingCmds() []*cobra.Command {
	simple := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return sendCommand(control.Tiling(name, ""))
			},
		}
	}

	gridCmd := &cobra.Command{
		Use:   "grid-mode [on|off|toggle]",
		Short: "Switch between grid and smart tiling",
		Long: `Switch between grid and smart tiling

In grid mode every window snaps to the computed grid, even right after a
manual resize. Smart mode keeps the resized window and arranges the
others around it.`,
		Example: `  tilewm grid-mode on
  tilewm grid-mode toggle`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{control.ArgOn, control.ArgOff, control.ArgToggle},
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := control.ArgToggle
			if len(args) == 1 {
				arg = strings.ToLower(args[0])
			}
			return sendCommand(control.Tiling(control.CmdGridMode, arg))
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the tiling mode of the running daemon",
		Long: `Print the tiling mode of the running daemon

Prints one of: stacking, smart, grid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := control.NewClient()
			if err != nil {
				return err
			}
			status, err := client.Status()
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}

	return []*cobra.Command{
		simple(control.CmdEnable, "Enable automatic tiling"),
		simple(control.CmdDisable, "Disable automatic tiling"),
		simple(control.CmdToggle, "Toggle automatic tiling"),
		simple(control.CmdRecalculate, "Recalculate the layout of the current workspace"),
		gridCmd,
		statusCmd,
	}
}

func newWorkspaceCmd() *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Switch workspaces of the running daemon",
	}

	switchCmd := &cobra.Command{
		Use:   "switch <name>",
		Short: "Switch to a workspace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(control.Workspace(control.CmdSwitch, strings.Join(args, " ")))
		},
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Switch to the next workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(control.Workspace(control.CmdNext, ""))
		},
	}

	prevCmd := &cobra.Command{
		Use:   "prev",
		Short: "Switch to the previous workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(control.Workspace(control.CmdPrev, ""))
		},
	}

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Print the current workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := control.NewClient()
			if err != nil {
				return err
			}
			name, err := client.CurrentWorkspace()
			if err != nil {
				return err
			}
			fmt.Println(name)
			return nil
		},
	}

	workspaceCmd.AddCommand(switchCmd, nextCmd, prevCmd, currentCmd)
	return workspaceCmd
}

func sendCommand(c control.Command) error {
	client, err := control.NewClient()
	if err != nil {
		return err
	}
	return client.Send(c)
}
