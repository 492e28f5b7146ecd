package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	autodocgen "github.com/baner3221/AutoDocGen"
	"github.com/baner3221/AutoDocGen/internal/diagram"
)

var (
	flagDepth           int
	flagDirection       string
	flagGraphFormat     string
	flagIncludeContains bool
	flagOutput          string
)

var graphCmd = &cobra.Command{
	Use:   "graph <qualified-name>",
	Short: "Render the dependency neighborhood of a symbol",
	Long:  "Walks the stored graph outward from a symbol and prints a Mermaid or Graphviz DOT diagram of the neighborhood.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().IntVar(&flagDepth, "depth", 2, "traversal depth in hops")
	graphCmd.Flags().StringVar(&flagDirection, "direction", "both", "edge direction: out|in|both")
	graphCmd.Flags().StringVar(&flagGraphFormat, "format", "mermaid", "output format: mermaid|dot|svg")
	graphCmd.Flags().BoolVar(&flagIncludeContains, "include-contains", false, "include containment edges (noisy on large graphs)")
	graphCmd.Flags().StringVar(&flagOutput, "output", "", "write to file instead of stdout (required for svg)")
}

func runGraph(cmd *cobra.Command, args []string) error {
	direction, err := autodocgen.ParseDirection(flagDirection)
	if err != nil {
		return err
	}

	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Query().Subgraph(args[0], flagDepth, direction)
	if err != nil {
		return err
	}

	var out string
	switch flagGraphFormat {
	case "mermaid":
		out = diagram.Mermaid(result, flagIncludeContains)
	case "dot":
		out = diagram.Graphviz(result, flagIncludeContains)
	case "svg":
		if flagOutput == "" {
			return fmt.Errorf("--output is required with --format svg")
		}
		dot := diagram.Graphviz(result, flagIncludeContains)
		if err := diagram.RenderSVG(dot, flagOutput); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", flagOutput)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want mermaid, dot, or svg)", flagGraphFormat)
	}

	return writeOutput(out)
}

var filedepsCmd = &cobra.Command{
	Use:   "filedeps <file-path>",
	Short: "Render the outgoing dependencies of a source file",
	Long:  "Prints a Mermaid diagram of every outgoing edge from symbols defined in the given file. The path must match the file_path recorded during extraction.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiledeps,
}

func init() {
	filedepsCmd.Flags().StringVar(&flagOutput, "output", "", "write to file instead of stdout")
}

func runFiledeps(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	edges, err := engine.Query().FileDependencies(args[0])
	if err != nil {
		return err
	}
	return writeOutput(diagram.FileDiagram(filepath.Base(args[0]), edges))
}

func writeOutput(content string) error {
	if flagOutput != "" {
		if err := os.WriteFile(flagOutput, []byte(content+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagOutput, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", flagOutput)
		return nil
	}
	fmt.Println(content)
	return nil
}
