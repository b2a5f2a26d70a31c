package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"subtitler/internal/services"
	"subtitler/internal/subtitles/cuefile"
)

var clipboardWrite = clipboard.WriteAll

func newTextCommand() *cobra.Command {
	var copyText bool

	cmd := &cobra.Command{
		Use:         "text <subtitle-file>",
		Short:       "Print the plain transcript of a subtitle file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := cuefile.Read(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			transcript := list.Text()
			if copyText {
				if err := clipboardWrite(transcript); err != nil {
					return services.Wrap(services.ErrExternalTool, "cli", "copy transcript", "clipboard unavailable", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d cues to the clipboard\n", list.Len())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), transcript)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the transcript to the clipboard instead of printing it")
	return cmd
}
