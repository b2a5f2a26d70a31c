package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtitler/internal/language"
	"subtitler/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show external tool availability and directory health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			toolRows := make([][]string, 0, 4)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := status.Path
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					detail = status.Detail
				}
				toolRows = append(toolRows, []string{status.Name, statusCell(kind, colorize), detail, status.Description})
			}
			fmt.Fprintln(out, tableView{
				title:   "External tools",
				headers: []string{"Tool", "Status", "Detail", "Purpose"},
				rows:    toolRows,
			}.render())

			checkRows := make([][]string, 0, 6)
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				checkRows = append(checkRows, []string{result.Name, statusCell(kind, colorize), result.Detail})
			}
			fmt.Fprintln(out, tableView{
				title:   "Checks",
				headers: []string{"Check", "Status", "Detail"},
				rows:    checkRows,
			}.render())

			settings := [][]string{
				{"Config", describeConfigSource(ctx)},
				{"Model", cfg.Transcription.Model},
				{"Language", language.DisplayName(cfg.Transcription.Language)},
				{"VAD", cfg.Transcription.VADMethod},
				{"CUDA", yesNo(cfg.Transcription.CUDAEnabled)},
				{"Cache", yesNo(cfg.Transcription.CacheEnabled)},
				{"Format", cfg.Subtitles.Format},
				{"Merge", yesNo(cfg.Subtitles.Merge)},
			}
			fmt.Fprintln(out, tableView{
				title:   "Transcription",
				headers: []string{"Setting", "Value"},
				rows:    settings,
			}.render())
			return nil
		},
	}
}

func describeConfigSource(ctx *commandContext) string {
	if ctx.configSeen {
		return ctx.configPath
	}
	return "defaults (no config file)"
}
