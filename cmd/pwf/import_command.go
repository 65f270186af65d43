package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pwf/internal/archive"
	"pwf/internal/check"
	"pwf/internal/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var ignoreFlag string
	var year int
	var keepUnprotected bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Move a checked event folder into the original archive",
		Long: `Move a checked event folder from the inbox into the original archive.

The event is consistency-checked first, then moved below 1_original/YEAR/
and the year folder is protected again. Only the raw-derivatives check may
be ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ignore, err := check.ParseCategories(ignoreFlag)
			if err != nil {
				return err
			}
			opts := importer.Options{
				Ignore:          ignore,
				Year:            year,
				KeepUnprotected: keepUnprotected,
				DryRun:          dryRun,
			}
			return ctx.withLockedArchive(func(arch *archive.Archive, logger *slog.Logger) error {
				return importer.New(arch, logger).Import(args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&ignoreFlag, "ignore", "i", "", "Comma-separated check categories to skip (only raw-derivatives)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Archive year when it cannot be parsed from the event name")
	cmd.Flags().BoolVarP(&keepUnprotected, "keep-unprotected", "k", false, "Leave the destination year folder unlocked")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only print what would be done")
	return cmd
}
