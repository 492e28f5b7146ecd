// Package autodocgen builds and queries a symbol-level dependency graph for
// C++ codebases. It consumes per-file analyses produced by an external
// AST-parsing service, persists nodes and edges in an embedded SQLite
// database, and answers bounded-depth neighborhood queries over the graph.
//
// # Pipeline
//
// The engine operates per file:
//
//  1. Extract: For each analyzed source file, walk the file's includes,
//     namespaces, classes, free functions, and enums, and derive graph nodes
//     and typed edges (inherits, uses, includes, contains). Each file's
//     symbols are replaced atomically, so re-extracting a changed file never
//     leaves a partial view.
//
//  2. Query: Walk the stored graph outward from any symbol with a
//     breadth-first traversal bounded by depth and direction, or list a
//     file's direct outgoing dependencies.
//
// # Usage
//
// Create an Engine, feed it file analyses, and query:
//
//	e, err := autodocgen.New("graph.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	analysis, err := parser.LoadFile("widget.json")
//	_, err = e.ExtractFile(analysis.FilePath, analysis, true)
//
//	q := e.Query()
//	result, err := q.Subgraph("gfx::Renderer", 2, autodocgen.DirectionBoth)
//
// The [QueryBuilder] returned by [Engine.Query] provides the traversal
// operations; the diagram package renders a [SubgraphResult] as Mermaid or
// Graphviz DOT without touching the database.
package autodocgen
