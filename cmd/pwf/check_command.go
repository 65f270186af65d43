package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pwf/internal/archive"
	"pwf/internal/check"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var ignoreFlag string
	var onlyFlag string
	var fix bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "check [PATH]",
		Short: "Run consistency checks against an archive subtree",
		Long: `Run consistency checks against an archive subtree.

Checks are selected by the subtree's lifecycle stage. The ignore and only
lists accept comma-separated category names (names, duplicates, protection,
raw-derivatives, path-location, checksums, missing-files) or their short
aliases (name, dup, prot, raw, path, cs, miss).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			ignore, err := check.ParseCategories(ignoreFlag)
			if err != nil {
				return err
			}
			only, err := check.ParseCategories(onlyFlag)
			if err != nil {
				return err
			}
			opts := check.Options{Ignore: ignore, Only: only, Fix: fix, DryRun: dryRun}

			run := func(arch *archive.Archive, logger *slog.Logger) error {
				return check.New(arch, logger).Run(arch.Resolve(path), opts)
			}
			if fix && !dryRun {
				return ctx.withLockedArchive(run)
			}
			arch, err := ctx.openArchive()
			if err != nil {
				return err
			}
			return run(arch, ctx.ensureLogger())
		},
	}

	cmd.Flags().StringVarP(&ignoreFlag, "ignore", "i", "", "Comma-separated check categories to skip")
	cmd.Flags().StringVarP(&onlyFlag, "only", "o", "", "Comma-separated check categories to run exclusively")
	cmd.Flags().BoolVar(&fix, "fix", false, "Repair illegal names before checking")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only report what --fix would rename")
	return cmd
}
