package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pwf/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "root_dir:            %s\n", cfg.RootDir)
			fmt.Fprintf(out, "logging.level:       %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "logging.format:      %s\n", displayValue(cfg.Logging.Format, "auto"))
			fmt.Fprintf(out, "downsize.default_tag: %s\n", cfg.Downsize.DefaultTag)
			fmt.Fprintf(out, "downsize.jpeg_quality: %d\n", cfg.Downsize.JPEGQuality)
			fmt.Fprintf(out, "previews.size_tag:   %s\n", cfg.Previews.SizeTag)
			fmt.Fprintf(out, "stats.database_path: %s\n", cfg.Stats.DatabasePath)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultPath()
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set root_dir (or export PWF_ROOT) before running pwf.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func displayValue(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
