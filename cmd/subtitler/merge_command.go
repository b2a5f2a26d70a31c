package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subtitler/internal/services"
	"subtitler/internal/subtitles"
	"subtitler/internal/subtitles/cuefile"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var threshold int

	cmd := &cobra.Command{
		Use:   "merge <subtitle-file>",
		Short: "Fold short cues into sentence-complete cues",
		Long: "Merge reads an .srt or .vtt file and joins consecutive cues until a sentence ends\n" +
			"(a '.', '?' or '!' among the last three characters) or the merged text reaches\n" +
			"the character threshold. The file is rewritten in place unless --output is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := strings.TrimSpace(args[0])
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Subtitles.CharThreshold
			} else if threshold < 1 {
				return services.Wrap(services.ErrConfiguration, "cli", "merge",
					fmt.Sprintf("--threshold must be positive, got %d", threshold), nil)
			}

			list, err := cuefile.Read(source)
			if err != nil {
				return err
			}
			merged, err := subtitles.MergeCues(list, subtitles.MergeOptions{Threshold: threshold})
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = source
			}
			format, err := cuefile.FormatForPath(target)
			if err != nil {
				return err
			}
			if err := cuefile.Write(target, merged, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d cues into %d: %s\n", list.Len(), merged.Len(), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the merged file here instead of overwriting the input (.srt or .vtt)")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", subtitles.DefaultMergeThreshold, "Character count that closes a cue even without sentence punctuation")
	return cmd
}
