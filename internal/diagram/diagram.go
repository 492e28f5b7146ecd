// Package diagram renders dependency subgraphs as Mermaid flowcharts and
// Graphviz DOT. Rendering is a pure mapping over an already-queried
// subgraph. It never touches the database, so a diagram of a filtered
// neighborhood stays cheap even on very large graphs.
package diagram

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/baner3221/AutoDocGen/internal/store"
)

// nodeStyle describes how one node type is drawn.
type nodeStyle struct {
	Shape string
	Color string
}

// edgeStyle describes how one edge type is drawn.
type edgeStyle struct {
	Style string
	Color string
	Label string
}

var nodeStyles = map[store.NodeType]nodeStyle{
	store.NodeFile:      {Shape: "note", Color: "#E8E8E8"},
	store.NodeClass:     {Shape: "box", Color: "#A7C7E7"},
	store.NodeStruct:    {Shape: "box", Color: "#B4D7A8"},
	store.NodeFunction:  {Shape: "ellipse", Color: "#FFE4B5"},
	store.NodeNamespace: {Shape: "folder", Color: "#DDA0DD"},
	store.NodeEnum:      {Shape: "hexagon", Color: "#F0E68C"},
}

var edgeStyles = map[store.EdgeType]edgeStyle{
	store.EdgeInherits:     {Style: "solid", Color: "#2E7D32", Label: "extends"},
	store.EdgeUses:         {Style: "dashed", Color: "#1565C0", Label: "uses"},
	store.EdgeIncludes:     {Style: "dotted", Color: "#757575", Label: "includes"},
	store.EdgeCalls:        {Style: "solid", Color: "#F57C00", Label: "calls"},
	store.EdgeContains:     {Style: "solid", Color: "#9E9E9E", Label: "contains"},
	store.EdgeInstantiates: {Style: "dashed", Color: "#7B1FA2", Label: "creates"},
}

var mermaidIDReplacer = strings.NewReplacer("::", "_", "<", "_", ">", "_", " ", "_")

var fileIDReplacer = strings.NewReplacer("::", "_", "<", "_", ">", "_", " ", "_", "/", "_", "\\", "_")

func mermaidID(name string) string {
	return mermaidIDReplacer.Replace(name)
}

func dotID(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}

func displayName(qualifiedName string, maxLen int) string {
	parts := strings.Split(qualifiedName, "::")
	name := parts[len(parts)-1]
	if len(name) > maxLen {
		name = name[:maxLen-3] + "..."
	}
	return name
}

// Mermaid renders a subgraph as a Mermaid.js flowchart. Containment edges
// are noisy on real codebases and are skipped unless includeContains is set.
// The center node is highlighted via the center class.
func Mermaid(result *store.SubgraphResult, includeContains bool) string {
	lines := []string{"flowchart TD"}
	added := map[string]bool{}

	addNode := func(qualifiedName string, isCenter bool) {
		if added[qualifiedName] {
			return
		}
		added[qualifiedName] = true
		id := mermaidID(qualifiedName)
		name := displayName(qualifiedName, 30)
		if isCenter {
			lines = append(lines, fmt.Sprintf("    %s[%q]:::center", id, name))
		} else {
			lines = append(lines, fmt.Sprintf("    %s[%q]", id, name))
		}
	}

	addNode(result.Node.QualifiedName, true)
	for _, n := range result.RelatedNodes {
		addNode(n.QualifiedName, false)
	}

	for _, e := range result.Edges {
		if !includeContains && e.Type == store.EdgeContains {
			continue
		}
		source := mermaidID(e.SourceQualifiedName)
		target := mermaidID(e.TargetQualifiedName)
		switch e.Type {
		case store.EdgeInherits:
			lines = append(lines, fmt.Sprintf("    %s -->|%s| %s", source, edgeStyles[e.Type].Label, target))
		case store.EdgeUses:
			lines = append(lines, fmt.Sprintf("    %s -.->|%s| %s", source, edgeStyles[e.Type].Label, target))
		default:
			lines = append(lines, fmt.Sprintf("    %s --> %s", source, target))
		}
	}

	lines = append(lines, "", "    classDef center fill:#FFD700,stroke:#333,stroke-width:3px")
	return strings.Join(lines, "\n")
}

// Graphviz renders a subgraph in the DOT language with per-type shapes and
// colors. The center node is filled gold with a heavy border.
func Graphviz(result *store.SubgraphResult, includeContains bool) string {
	lines := []string{
		"digraph Dependencies {",
		"    rankdir=TB;",
		`    node [fontname="Arial", fontsize=10];`,
		`    edge [fontname="Arial", fontsize=8];`,
		"",
	}
	added := map[string]bool{}

	addNode := func(qualifiedName string, typ store.NodeType, isCenter bool) {
		if added[qualifiedName] {
			return
		}
		added[qualifiedName] = true
		id := dotID(qualifiedName)
		name := displayName(qualifiedName, 25)
		style, ok := nodeStyles[typ]
		if !ok {
			style = nodeStyle{Shape: "box", Color: "#FFFFFF"}
		}
		if isCenter {
			lines = append(lines, fmt.Sprintf(
				`    %s [label="%s", shape=%s, style=filled, fillcolor="#FFD700", penwidth=3];`,
				id, name, style.Shape))
		} else {
			lines = append(lines, fmt.Sprintf(
				`    %s [label="%s", shape=%s, style=filled, fillcolor="%s"];`,
				id, name, style.Shape, style.Color))
		}
	}

	addNode(result.Node.QualifiedName, result.Node.Type, true)
	for _, n := range result.RelatedNodes {
		addNode(n.QualifiedName, n.Type, false)
	}

	lines = append(lines, "")

	for _, e := range result.Edges {
		if !includeContains && e.Type == store.EdgeContains {
			continue
		}
		style := edgeStyles[e.Type]
		color := style.Color
		if color == "" {
			color = "#000000"
		}
		lineStyle := "solid"
		if style.Style == "dashed" {
			lineStyle = "dashed"
		}
		lines = append(lines, fmt.Sprintf(
			`    %s -> %s [color="%s", style=%s, label="%s"];`,
			dotID(e.SourceQualifiedName), dotID(e.TargetQualifiedName), color, lineStyle, style.Label))
	}

	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// FileDiagram renders a file's outgoing dependency edges as a left-to-right
// Mermaid flowchart. fileName is only used for the empty placeholder.
// Containment edges are always skipped here.
func FileDiagram(fileName string, edges []store.Edge) string {
	if len(edges) == 0 {
		return fmt.Sprintf("flowchart TD\n    note[No dependencies found for %s]", fileName)
	}

	lines := []string{"flowchart LR"}
	added := map[string]bool{}

	addNode := func(qualifiedName string) {
		if added[qualifiedName] {
			return
		}
		added[qualifiedName] = true
		parts := strings.Split(qualifiedName, "::")
		lines = append(lines, fmt.Sprintf("    %s[%q]", fileIDReplacer.Replace(qualifiedName), parts[len(parts)-1]))
	}

	for _, e := range edges {
		addNode(e.SourceQualifiedName)
		addNode(e.TargetQualifiedName)

		source := fileIDReplacer.Replace(e.SourceQualifiedName)
		target := fileIDReplacer.Replace(e.TargetQualifiedName)
		switch e.Type {
		case store.EdgeInherits:
			lines = append(lines, fmt.Sprintf("    %s -->|extends| %s", source, target))
		case store.EdgeUses:
			lines = append(lines, fmt.Sprintf("    %s -.-> %s", source, target))
		case store.EdgeContains:
			// skip
		default:
			lines = append(lines, fmt.Sprintf("    %s --> %s", source, target))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderSVG runs the Graphviz dot binary over a DOT definition and writes
// SVG to outputPath. Returns an error when dot is missing or fails.
func RenderSVG(dotContent, outputPath string) error {
	dotBin, err := exec.LookPath("dot")
	if err != nil {
		return fmt.Errorf("render svg: graphviz not installed: %w", err)
	}

	tmp, err := os.CreateTemp("", "autodocgen-*.dot")
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(dotContent); err != nil {
		tmp.Close()
		return fmt.Errorf("render svg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}

	cmd := exec.Command(dotBin, "-Tsvg", tmp.Name(), "-o", outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("render svg: dot failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
