package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	autodocgen "github.com/baner3221/AutoDocGen"
)

var flagDB string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "autodocgen",
	Short:         "Symbol-level dependency graphs for C++ codebases",
	Long:          "Autodocgen ingests per-file analysis JSON produced by the AST parser, maintains a SQLite dependency graph, and renders filtered neighborhood diagrams.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "dependency_graph.db", "database path")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(filedepsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

// openEngine opens the engine at --db, running migrations as needed.
func openEngine() (*autodocgen.Engine, error) {
	engine, err := autodocgen.New(flagDB)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", flagDB, err)
	}
	return engine, nil
}
