package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pwf/internal/archive"
	"pwf/internal/link"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var recursive bool
	var forced bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "link SRC DST",
		Short: "Create relative symlinks between archive stages",
		Long: `Create relative symlinks from SRC into DST.

DST may be a directory or one of the stage tags (@lab, @album, @print).
Linking a raw or jpg folder into the lab is restricted to files with a
preview in the lab event's 1_preview folder; --all bypasses the filter.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := link.Options{
				All:       all,
				Recursive: recursive,
				Forced:    forced,
				DryRun:    dryRun,
			}
			return ctx.withLockedArchive(func(arch *archive.Archive, logger *slog.Logger) error {
				return link.NewLinker(arch, logger).Link(args[0], args[1], opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Link into the lab independent of previews")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recursively traverse SRC")
	cmd.Flags().BoolVarP(&forced, "force", "f", false, "Replace existing destination entries")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only print what would be linked")
	return cmd
}
