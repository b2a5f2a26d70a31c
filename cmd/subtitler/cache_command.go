package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subtitler/internal/transcriptcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the transcript cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show transcript cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			const stampLayout = "2006-01-02 15:04"
			oldest, newest := "-", "-"
			if !stats.Oldest.IsZero() {
				oldest = stats.Oldest.Local().Format(stampLayout)
				newest = stats.Newest.Local().Format(stampLayout)
			}
			rows := [][]string{
				{"Database", stats.Path},
				{"Entries", strconv.Itoa(stats.Entries)},
				{"Segments", strconv.Itoa(stats.Segments)},
				{"Payload", humanBytes(stats.Bytes)},
				{"Oldest", oldest},
				{"Newest", newest},
			}
			fmt.Fprintln(cmd.OutOrStdout(), tableView{
				title:   "Transcript cache",
				headers: []string{"Field", "Value"},
				rows:    rows,
			}.render())
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcript(s)\n", removed)
			return nil
		},
	}
}

func openCache(ctx *commandContext) (*transcriptcache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return transcriptcache.Open(cfg.CachePath(), nil)
}
