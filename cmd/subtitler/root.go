package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "subtitler",
		Short:         "Generate SRT/VTT subtitles for media files with WhisperX",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newTranscribeCommand(ctx))
	rootCmd.AddCommand(newMergeCommand(ctx))
	rootCmd.AddCommand(newTextCommand())
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}
