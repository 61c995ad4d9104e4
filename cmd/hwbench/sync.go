package main

import (
	"fmt"

	"github.com/jamesainslie/hwbench/pkg/hwbench/dataset"
	hwsync "github.com/jamesainslie/hwbench/pkg/hwbench/sync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange results with the benchmark server",
	Long: `Download the shared benchmark dataset or upload this machine's results.

The server is set by sync.server in the config file or HWBENCH_SYNC_SERVER.`,
}

var syncFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the shared dataset",
	Long: `Download results of comparable machines and store them as the dataset
used for ranking (--dataset, or ~/.config/hwbench/benchmark.json).`,
	RunE: runSyncFetch,
}

var syncSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Upload this machine's results",
	RunE:  runSyncSend,
}

var syncDryRun bool

func init() {
	syncFetchCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "print the request URL without downloading")
	syncSendCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "print the payload without uploading")

	syncCmd.AddCommand(syncFetchCmd)
	syncCmd.AddCommand(syncSendCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncFetch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	cfg := s.cfg

	client := hwsync.New(cfg.Sync.Server, version, cfg.Sync.Timeout)
	opts := hwsync.FetchOptions{
		MaxResults:  cfg.Rank.MaxResults,
		MachineType: s.machine.Type,
		CPU:         s.machine.CPUName,
		UserNote:    cfg.Sync.UserNote,
	}
	if syncDryRun {
		u, err := client.FetchURL(opts)
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	}

	dest := cfg.Rank.Dataset
	if dest == "" {
		dest = dataset.UserPath()
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	ds, err := client.Fetch(ctx, opts, dest)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset: %w", err)
	}
	printInfo("Fetched %d results for %d benchmarks to %s", ds.Len(), len(ds), dest)
	return nil
}

func runSyncSend(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ds := dataset.Collect(s.machine, s.values())
	if len(ds) == 0 {
		return fmt.Errorf("no results to send; run some benchmarks first")
	}
	payload, err := dataset.Encode(ds)
	if err != nil {
		return err
	}
	if syncDryRun {
		fmt.Print(string(payload))
		return nil
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	client := hwsync.New(s.cfg.Sync.Server, version, s.cfg.Sync.Timeout)
	if err := client.Send(ctx, payload); err != nil {
		return fmt.Errorf("failed to send results: %w", err)
	}
	printInfo("Sent %d results to %s", len(ds), s.cfg.Sync.Server)
	return nil
}
