package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/tilewm/internal/app"
	"github.com/Gaurav-Gosain/tilewm/internal/rules"
	"github.com/Gaurav-Gosain/tilewm/internal/scene"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newArrangeCmd() *cobra.Command {
	var (
		flags     tilingFlags
		scenePath string
		workspace string
		writePath string
	)
	cmd := &cobra.Command{
		Use:   "arrange",
		Short: "Arrange a scene once and print the layout",
		Long: `Arrange a scene once and print the layout

Runs a single tiling pass over the scene file and prints the resulting
window geometry. A [resize] table in the scene is treated as a resize
that just finished. Output is a table on a terminal and tab-separated
values otherwise.`,
		Example: `  # Print the smart layout
  tilewm arrange --scene desktop.toml

  # Compare with the plain grid
  tilewm arrange --scene desktop.toml --mode grid

  # Store the result
  tilewm arrange --scene desktop.toml --write tiled.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArrange(cmd.OutOrStdout(), flags, scenePath, workspace, writePath)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&scenePath, "scene", "", "Scene file describing outputs and windows")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace to arrange (defaults to the scene's)")
	cmd.Flags().StringVar(&writePath, "write", "", "Write the arranged scene to this file")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}

func runArrange(w io.Writer, flags tilingFlags, scenePath, workspace, writePath string) error {
	cfg, err := loadConfig(flags.overrides())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Logging.Level, "arrange")
	if err != nil {
		return err
	}

	f, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	if workspace != "" {
		f.Workspace = workspace
	}

	desktop := scene.NewRegistry(f, cfg.Decoration)
	resolver, err := rules.New(cfg.WindowRules, desktop)
	if err != nil {
		return err
	}
	srv := app.New(desktop, resolver, app.Options{Config: cfg, Logger: logger})
	if err := srv.LoadScene(f); err != nil {
		return err
	}

	st := srv.State()
	res := srv.LastResult()
	out := desktop.Snapshot(st.Workspace)
	out.Resize = f.Resize

	if writePath != "" {
		if err := out.Save(writePath); err != nil {
			return err
		}
	}

	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		printLayoutTable(w, out, resolver)
		fmt.Fprintf(w, "\nmode %s, workspace %s, %d placed, %d fill iteration(s)\n",
			st.Mode(), st.Workspace, res.Placed, res.FillIterations)
		if res.ResizeAdjusted && res.Resize != nil {
			fmt.Fprintf(w, "resize of %s adjusted to %s\n", res.Resize.ViewID, res.Resize.Geometry)
		}
		return nil
	}
	return printLayoutPlain(w, out)
}

func layoutRows(f *scene.File, resolver *rules.Resolver) [][]string {
	rows := make([][]string, 0, len(f.Views))
	for _, v := range f.Views {
		if v.Workspace != f.Workspace {
			continue
		}
		rows = append(rows, []string{
			v.ID,
			v.AppID,
			v.Output,
			strconv.Itoa(v.X),
			strconv.Itoa(v.Y),
			strconv.Itoa(v.Width),
			strconv.Itoa(v.Height),
			resolver.Describe(v.AppID, v.Title),
		})
	}
	return rows
}

func printLayoutTable(w io.Writer, f *scene.File, resolver *rules.Resolver) {
	rows := layoutRows(f, resolver)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("ID", "APP", "OUTPUT", "X", "Y", "WIDTH", "HEIGHT", "RULES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			baseStyle := lipgloss.NewStyle().Padding(0, 1)

			if row == table.HeaderRow {
				return baseStyle.Bold(true).Foreground(lipgloss.Color("12"))
			}

			switch col {
			case 0:
				return baseStyle.Foreground(lipgloss.Color("3")).Bold(true)
			case 3, 4, 5, 6:
				return baseStyle.Align(lipgloss.Right)
			case 7:
				return baseStyle.Foreground(lipgloss.Color("8"))
			default:
				return baseStyle
			}
		})

	fmt.Fprintln(w, t.Render())
}

func printLayoutPlain(w io.Writer, f *scene.File) error {
	for _, v := range f.Views {
		if v.Workspace != f.Workspace {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", v.ID, v.Output, v.X, v.Y, v.Width, v.Height); err != nil {
			return err
		}
	}
	return nil
}
