package autodocgen

import (
	"fmt"

	"github.com/baner3221/AutoDocGen/internal/extract"
	"github.com/baner3221/AutoDocGen/internal/parser"
	"github.com/baner3221/AutoDocGen/internal/store"
)

// Engine orchestrates the dependency graph pipeline: it owns the SQLite
// store, turns file analyses into graph rows via the extractor, and hands
// out query builders over the persisted graph.
type Engine struct {
	store     *store.Store
	extractor *extract.Extractor
}

// New creates an Engine backed by a SQLite database at dbPath, running
// migrations if needed. Use ":memory:" for an ephemeral graph.
func New(dbPath string) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return &Engine{
		store:     s,
		extractor: extract.NewExtractor(s),
	}, nil
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store exposes the underlying store for advanced use.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Query returns a QueryBuilder over the engine's graph.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store}
}

// ExtractFile converts one file analysis into graph nodes and edges and
// commits them in a single transaction. When incremental is true the file's
// previous symbols and their edges are removed first, so the stored view
// always matches the latest analysis. Returns the number of edges extracted.
func (e *Engine) ExtractFile(filePath string, analysis *parser.FileAnalysis, incremental bool) (int, error) {
	return e.extractor.ExtractFile(filePath, analysis, incremental)
}

// ExtractAnalysisFile loads a JSON analysis document from disk and extracts
// it. The file path recorded in the graph is the one embedded in the
// document, not the JSON file's own path.
func (e *Engine) ExtractAnalysisFile(path string, incremental bool) (int, error) {
	analysis, err := parser.LoadFile(path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", path, err)
	}
	return e.extractor.ExtractFile(analysis.FilePath, analysis, incremental)
}

// Statistics reports node and edge totals for the stored graph.
func (e *Engine) Statistics() (*Statistics, error) {
	return e.store.Statistics()
}

// Clear removes all nodes and edges from the graph.
func (e *Engine) Clear() error {
	return e.store.Clear()
}
