package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"pwf/internal/archive"
	"pwf/internal/downsize"
)

func newDownsizeCommand(ctx *commandContext) *cobra.Command {
	var tagFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "downsize PATH",
		Short: "Scale images into a fixed bounding box",
		Long: `Scale images into a fixed bounding box for web presentation.

Size tags: UHD 3840x2160, QHD 2560x1440, FHD 1920x1080, HD 1280x720.
The box is aligned with the image orientation, so portrait shots come out
with the same resolution as landscape ones. Outputs land in a subfolder
named after the tag, next to their source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			raw := strings.TrimSpace(tagFlag)
			if raw == "" {
				raw = cfg.Downsize.DefaultTag
			}
			tag, _, err := downsize.ParseSizeTag(raw)
			if err != nil {
				return err
			}
			return ctx.withLockedArchive(func(arch *archive.Archive, logger *slog.Logger) error {
				engine := downsize.NewEngine(arch, cfg.Downsize.JPEGQuality, logger)
				return engine.Run(args[0], tag, dryRun)
			})
		},
	}

	cmd.Flags().StringVarP(&tagFlag, "tag", "t", "", "Output size tag ("+sizeTagList()+")")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only print what would be scaled")
	return cmd
}

func sizeTagList() string {
	tags := downsize.SizeTags()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, string(tag))
	}
	return strings.Join(names, ", ")
}
