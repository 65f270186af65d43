package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"pwf/internal/stats"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var save bool
	var history int

	cmd := &cobra.Command{
		Use:   "stats [PATH]",
		Short: "Report file counts and sizes per media category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, err := ctx.openArchive()
			if err != nil {
				return err
			}
			path := arch.Root()
			if len(args) == 1 {
				path = arch.Resolve(args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if history > 0 {
				store, err := stats.OpenStore(cfg.Stats.DatabasePath)
				if err != nil {
					return err
				}
				defer store.Close()

				reports, err := store.History(ctx.callContext(), path, history)
				if err != nil {
					return err
				}
				if len(reports) == 0 {
					fmt.Fprintf(out, "No snapshots recorded for %s\n", path)
					return nil
				}
				fmt.Fprintln(out, renderHistoryTable(reports))
				return nil
			}

			report, err := stats.Collect(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Folder: %s\n", path)
			fmt.Fprintln(out, renderStatsTable(report))

			if !save {
				return nil
			}
			store, err := stats.OpenStore(cfg.Stats.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(ctx.callContext(), report); err != nil {
				return err
			}
			fmt.Fprintf(out, "Snapshot saved to %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Record the result as a snapshot")
	cmd.Flags().IntVar(&history, "history", 0, "Show the last N recorded snapshots instead of measuring")
	return cmd
}

func renderStatsTable(report stats.Report) string {
	tw := newReportWriter(2, 3)
	tw.AppendHeader(table.Row{"Category", "Files", "Size"})
	for _, entry := range report.Entries {
		tw.AppendRow(table.Row{
			stats.Title(entry.Category), entry.Count, stats.HumanSize(entry.Bytes)})
	}
	return tw.Render()
}

func renderHistoryTable(reports []stats.Report) string {
	tw := newReportWriter(3, 4)
	tw.AppendHeader(table.Row{"Taken", "Category", "Files", "Size"})
	for _, report := range reports {
		taken := report.TakenAt.Local().Format(time.DateTime)
		for _, entry := range report.Entries {
			tw.AppendRow(table.Row{
				taken, stats.Title(entry.Category), entry.Count,
				stats.HumanSize(entry.Bytes)})
		}
	}
	return tw.Render()
}

// newReportWriter configures a rounded table with the given count and size
// columns right-aligned.
func newReportWriter(numericColumns ...int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	configs := make([]table.ColumnConfig, 0, len(numericColumns))
	for _, col := range numericColumns {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}
