package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var flagFull bool

var extractCmd = &cobra.Command{
	Use:   "extract <analysis.json>...",
	Short: "Extract dependency graph data from analysis JSON files",
	Long:  "Reads one or more per-file analysis documents and merges their symbols and edges into the graph. Each file's previous symbols are replaced, so re-running after a change is safe.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&flagFull, "full", false, "clear the database and rebuild from scratch")
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()

	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if flagFull {
		if err := engine.Clear(); err != nil {
			return fmt.Errorf("clearing database: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", flagDB)
	}

	var files, failures, edges int
	for _, path := range args {
		count, err := engine.ExtractAnalysisFile(path, !flagFull)
		if err != nil {
			// One bad document must not sink the batch.
			fmt.Fprintf(os.Stderr, "Error extracting %s: %s\n", path, err)
			failures++
			continue
		}
		files++
		edges += count
	}

	fmt.Fprintf(os.Stderr, "Extracted %d file(s), %d edge(s) in %s\n",
		files, edges, time.Since(start).Round(time.Millisecond))
	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}
	return nil
}
