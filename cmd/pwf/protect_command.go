package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pwf/internal/archive"
	"pwf/internal/check"
	"pwf/internal/protect"
)

func newProtectCommand(ctx *commandContext) *cobra.Command {
	var unprotect bool
	var allFiles bool
	var forced bool

	cmd := &cobra.Command{
		Use:   "protect PATH",
		Short: "Lock an archive subtree against modification",
		Long: `Lock an archive subtree against modification.

Protecting removes write permission from directories and files and records
each file in a checksum manifest beside the subtree. A consistency check
gates the operation unless --force is given. With --unprotect, directories
are made writable again; files only regain write permission with --all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLockedArchive(func(arch *archive.Archive, logger *slog.Logger) error {
				manager := protect.New(arch, check.New(arch, logger), logger)
				path := arch.Resolve(args[0])
				if unprotect {
					return manager.Unprotect(path, allFiles)
				}
				return manager.Protect(path, forced)
			})
		},
	}

	cmd.Flags().BoolVarP(&unprotect, "unprotect", "u", false, "Unlock instead of lock")
	cmd.Flags().BoolVarP(&allFiles, "all", "a", false, "With --unprotect, also unlock files")
	cmd.Flags().BoolVarP(&forced, "force", "f", false, "Protect without running checks first")
	return cmd
}
