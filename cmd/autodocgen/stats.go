package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	autodocgen "github.com/baner3221/AutoDocGen"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node and edge counts for the graph",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Statistics()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total nodes\t%d\n", stats.TotalNodes)
	fmt.Fprintf(tw, "Total edges\t%d\n", stats.TotalEdges)

	types := make([]string, 0, len(stats.NodesByType))
	for typ := range stats.NodesByType {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Fprintf(tw, "  %s\t%d\n", typ, stats.NodesByType[autodocgen.NodeType(typ)])
	}
	return tw.Flush()
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all nodes and edges from the graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		if err := engine.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", flagDB)
		return nil
	},
}
