package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/hwbench/pkg/hwbench/dataset"
	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this machine's results in the dataset format",
	Long: `Write this machine's stored results in the shared dataset format,
the same payload 'hwbench sync send' uploads. Failed results are left out.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := dataset.Export(s.machine, s.values())
	if err != nil {
		return err
	}

	if exportFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	printInfo("Exported results to %s", exportFile)
	return nil
}
