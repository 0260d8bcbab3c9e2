package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/tilewm/internal/config"
	"github.com/Gaurav-Gosain/tilewm/internal/rules"
	"github.com/Gaurav-Gosain/tilewm/internal/scene"
	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
)

const maxTitleWidth = 40

func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect window rules",
		Long:  `Inspect the window rules of the configuration`,
	}

	var scenePath string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List window rules",
		Long: `Display the configured window rules in a formatted table

With --scene, also show which rules apply to each window of the scene.`,
		Example: `  tilewm rules list
  tilewm rules list --scene desktop.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(scenePath)
		},
	}
	listCmd.Flags().StringVar(&scenePath, "scene", "", "Scene file whose windows to match")

	rulesCmd.AddCommand(listCmd)
	return rulesCmd
}

func propertyName(p tiling.Property, yes, no string) string {
	switch p {
	case tiling.PropTrue:
		return yes
	case tiling.PropFalse:
		return no
	default:
		return "-"
	}
}

func listRules(scenePath string) error {
	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	var (
		desktop *scene.Registry
		ids     rules.Identity
	)
	if scenePath != "" {
		f, err := scene.Load(scenePath)
		if err != nil {
			return err
		}
		desktop = scene.NewRegistry(f, cfg.Decoration)
		ids = desktop
	}
	resolver, err := rules.New(cfg.WindowRules, ids)
	if err != nil {
		return err
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("Window Rules"))
	fmt.Println()

	if len(resolver.Rules()) == 0 {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("No window rules configured. Every window is tiled."))
		fmt.Println()
	} else {
		rows := [][]string{}
		for _, r := range resolver.Rules() {
			title := r.Title
			if title == "" {
				title = "*"
			}
			fixed := "-"
			if r.FixedPosition {
				fixed = "yes"
			}
			rows = append(rows, []string{
				r.Identifier,
				title,
				fixed,
				propertyName(r.Tile, "yes", "no"),
				propertyName(r.TileDirection, "vertical", "horizontal"),
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
			Headers("Identifier", "Title", "Fixed", "Tile", "Direction").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		fmt.Println(t.Render())
		fmt.Println()
	}

	if desktop == nil {
		return nil
	}

	rows := [][]string{}
	for _, v := range desktop.Snapshot("").Views {
		title := ansi.Truncate(v.Title, maxTitleWidth, "…")
		rows = append(rows, []string{v.ID, v.AppID, title, resolver.Describe(v.AppID, v.Title)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("Window", "App", "Title", "Effect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render("Scene Windows"))
	fmt.Println(t.Render())
	fmt.Println()
	return nil
}
