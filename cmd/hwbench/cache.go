package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jamesainslie/hwbench/pkg/hwbench/config"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage stored results",
	Long: `Commands for managing this machine's stored benchmark results.

Results are kept in a Badger database in the XDG data directory
(typically ~/.local/share/hwbench/results) so leaderboards can be shown
without re-running benchmarks.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear this machine's stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n := len(s.store.Names())
		if n == 0 {
			fmt.Println("No stored results.")
			return nil
		}
		if err := s.store.Clear(); err != nil {
			return fmt.Errorf("failed to clear results: %w", err)
		}
		fmt.Printf("Cleared %d results.\n", n)
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored result statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		dbPath := config.DefaultDBPath()
		var size int64
		var fileCount int
		err = filepath.Walk(dbPath, func(_ string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				size += info.Size()
				fileCount++
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to calculate database size: %w", err)
		}

		var newest time.Time
		for _, rec := range s.store.All() {
			if rec.UpdatedAt.After(newest) {
				newest = rec.UpdatedAt
			}
		}

		fmt.Printf("Database location: %s\n", dbPath)
		fmt.Printf("Database size: %s\n", types.FormatBytes(uint64(size)))
		fmt.Printf("Database files: %d\n", fileCount)
		fmt.Printf("Machine: %s\n", s.machine.ID)
		fmt.Printf("Stored results: %d\n", len(s.store.Names()))
		if !newest.IsZero() {
			fmt.Printf("Last updated: %s\n", newest.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show database location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultDBPath())
	},
}

var cachePruneMaxAge time.Duration

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale results of every machine",
	Long:  `Removes stored results, of any machine id, last updated before --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.db.Prune(time.Now().Add(-cachePruneMaxAge))
		if err != nil {
			return fmt.Errorf("failed to prune results: %w", err)
		}
		fmt.Printf("Removed %d results.\n", removed)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&cachePruneMaxAge, "older-than", config.DefaultResultMaxAge, "remove results older than this")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
