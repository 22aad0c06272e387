package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheStatsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Show extraction cache occupancy",
	RunE:  runCacheStats,
}

var (
	cacheCleanup bool
	cacheClear   bool
)

func init() {
	cacheStatsCmd.Flags().BoolVar(&cacheCleanup, "cleanup", false, "Purge expired entries first")
	cacheStatsCmd.Flags().BoolVar(&cacheClear, "clear", false, "Clear the cache and reload AI settings")

	rootCmd.AddCommand(cacheStatsCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if cacheClear {
		if err := svc.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Cache cleared")
	}
	if cacheCleanup {
		fmt.Fprintf(out, "Evicted %d expired entries\n", svc.CleanupCache(ctx))
	}

	stats := svc.CacheStats(ctx)
	fmt.Fprintf(out, "Backend:  %s\n", stats.Backend)
	fmt.Fprintf(out, "Entries:  %d / %d\n", stats.Entries, stats.Capacity)
	fmt.Fprintf(out, "Max age:  %s\n", stats.MaxAge)
	return nil
}
