package cmd

import (
	"strings"

	"svcreg/internal/app"
	"svcreg/internal/config"
	"svcreg/internal/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// planConfigPath is the configuration file used to build the registry for
// the dry run. Tuning sections are irrelevant here since nothing is
// initialized, but the file keeps plan and serve looking at the same setup.
var planConfigPath string

var planCmd = &cobra.Command{
	Use:   "plan [service]",
	Short: "Print the initialization order without initializing anything",
	Long: `Resolves the order in which services would be initialized and prints it
as a table. With a service argument, only the chain beneath that target is
shown; without one, every registered service is listed with its direct
dependencies and its position in the full initialization order.

This is a dry run: no Setup hook is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(planConfigPath)
	if err != nil {
		return err
	}

	application, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	reg := application.Registry

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "SERVICE", "DIRECT DEPENDENCIES"})

	if len(args) == 1 {
		order, err := reg.Plan(args[0])
		if err != nil {
			return err
		}
		appendPlanRows(t, reg, order)
	} else {
		// The union of per-target plans, in registration order. Each service
		// appears once, after everything it depends on.
		seen := make(map[string]bool)
		var order []string
		for _, name := range reg.Names() {
			chain, err := reg.Plan(name)
			if err != nil {
				return err
			}
			for _, step := range chain {
				if !seen[step] {
					seen[step] = true
					order = append(order, step)
				}
			}
		}
		appendPlanRows(t, reg, order)
	}

	t.Render()
	return nil
}

func appendPlanRows(t table.Writer, reg *registry.Registry, order []string) {
	for i, name := range order {
		deps := reg.DirectDependencies(name)
		depsCol := "-"
		if len(deps) > 0 {
			depsCol = strings.Join(deps, ", ")
		}
		t.AppendRow(table.Row{i + 1, name, depsCol})
	}
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planConfigPath, "config", "config.yaml", "Path to the YAML configuration file")
}
