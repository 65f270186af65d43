package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pwf/internal/archive"
	"pwf/internal/previews"
)

func newPreviewsCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var filterFile string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "previews SRC [DST]",
		Short: "Render preview images of RAW and JPG files",
		Long: `Render preview images of RAW and JPG files.

JPG previews are scaled copies; RAW previews come from the thumbnail
embedded in the file. With no DST, previews land next to the source. DST
may be @lab to target the 1_preview folder of the matching lab event.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := ""
			if len(args) == 2 {
				dst = args[1]
			}
			opts := previews.Options{
				Recursive:  recursive,
				FilterFile: filterFile,
				DryRun:     dryRun,
			}
			return ctx.withLockedArchive(func(arch *archive.Archive, logger *slog.Logger) error {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				ex, err := previews.New(arch, cfg.Previews.SizeTag, cfg.Downsize.JPEGQuality, logger)
				if err != nil {
					return err
				}
				return ex.Run(args[0], dst, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Recursively traverse SRC")
	cmd.Flags().StringVarP(&filterFile, "filter-file", "f", "", "Only render previews of files listed in this file")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only print what would be rendered")
	return cmd
}
