package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// insertTestNode upserts a node owned by filePath and returns it with ID set.
func insertTestNode(t *testing.T, s *Store, qualifiedName string, nt NodeType, filePath string) *Node {
	t.Helper()
	n := &Node{
		Name:          lastComponent(qualifiedName),
		QualifiedName: qualifiedName,
		Type:          nt,
		LineNumber:    ptr(1),
	}
	if filePath != "" {
		n.FilePath = &filePath
	}
	id, err := s.UpsertNode(n)
	require.NoError(t, err)
	require.Positive(t, id)
	return n
}

func insertTestEdge(t *testing.T, s *Store, source, target string, et EdgeType) *Edge {
	t.Helper()
	e := &Edge{SourceQualifiedName: source, TargetQualifiedName: target, Type: et}
	id, err := s.UpsertEdge(e)
	require.NoError(t, err)
	require.Positive(t, id)
	return e
}

func lastComponent(qualifiedName string) string {
	parts := strings.Split(qualifiedName, "::")
	return parts[len(parts)-1]
}

// =============================================================================
// Schema & Lifecycle
// =============================================================================

func TestMigrate_TablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"dependency_nodes", "dependency_edges"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestMigrate_WALMode(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	var mode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

// =============================================================================
// Node upserts
// =============================================================================

func TestUpsertNode_InsertAndRetrieve(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	n := insertTestNode(t, s, "geo::Shape", NodeClass, "/src/shape.hpp")

	got, err := s.NodeByQualifiedName("geo::Shape")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "Shape", got.Name)
	assert.Equal(t, NodeClass, got.Type)
	require.NotNil(t, got.FilePath)
	assert.Equal(t, "/src/shape.hpp", *got.FilePath)
}

func TestUpsertNode_SameNameUpdatesInPlace(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	first := &Node{Name: "Shape", QualifiedName: "geo::Shape", Type: NodeClass, LineNumber: ptr(10)}
	id1, err := s.UpsertNode(first)
	require.NoError(t, err)

	second := &Node{Name: "Shape", QualifiedName: "geo::Shape", Type: NodeStruct, LineNumber: ptr(42)}
	id2, err := s.UpsertNode(second)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "upsert must reuse the existing row")

	got, err := s.NodeByQualifiedName("geo::Shape")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, NodeStruct, got.Type)
	require.NotNil(t, got.LineNumber)
	assert.Equal(t, 42, *got.LineNumber)

	stats, err := s.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalNodes)
}

func TestNodeByQualifiedName_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	got, err := s.NodeByQualifiedName("does::not::Exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNodeByQualifiedName_CorruptTypeTag(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.db.Exec(
		"INSERT INTO dependency_nodes (name, qualified_name, node_type) VALUES ('X', 'X', 'mystery')",
	)
	require.NoError(t, err)

	_, err = s.NodeByQualifiedName("X")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

// =============================================================================
// Edge upserts
// =============================================================================

func TestUpsertEdge_DuplicateTripleUpdatesContextOnly(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	e1 := &Edge{SourceQualifiedName: "A", TargetQualifiedName: "B", Type: EdgeUses, Context: ptr("member: x")}
	id1, err := s.UpsertEdge(e1)
	require.NoError(t, err)

	e2 := &Edge{SourceQualifiedName: "A", TargetQualifiedName: "B", Type: EdgeUses, Context: ptr("member: y")}
	id2, err := s.UpsertEdge(e2)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	deps, err := s.Dependencies("A")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.NotNil(t, deps[0].Context)
	assert.Equal(t, "member: y", *deps[0].Context)
}

func TestUpsertEdge_SameEndpointsDifferentTypeAreDistinct(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestEdge(t, s, "A", "B", EdgeUses)
	insertTestEdge(t, s, "A", "B", EdgeInherits)

	deps, err := s.Dependencies("A")
	require.NoError(t, err)
	assert.Len(t, deps, 2)
}

func TestDependenciesAndDependents(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestEdge(t, s, "A", "B", EdgeUses)
	insertTestEdge(t, s, "C", "B", EdgeInherits)

	deps, err := s.Dependencies("A")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "B", deps[0].TargetQualifiedName)

	dependents, err := s.Dependents("B")
	require.NoError(t, err)
	assert.Len(t, dependents, 2)

	none, err := s.Dependencies("B")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQueryEdges_CorruptTypeTag(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.db.Exec(
		"INSERT INTO dependency_edges (source_qualified_name, target_qualified_name, edge_type) VALUES ('A', 'B', 'teleports')",
	)
	require.NoError(t, err)

	_, err = s.Dependencies("A")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

// =============================================================================
// DeleteFileNodes
// =============================================================================

func TestDeleteFileNodes_CascadesEdges(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestNode(t, s, "a::A", NodeClass, "/src/a.hpp")
	insertTestNode(t, s, "a::B", NodeClass, "/src/a.hpp")
	insertTestNode(t, s, "c::C", NodeClass, "/src/c.hpp")

	insertTestEdge(t, s, "a::A", "a::B", EdgeUses)     // internal to a.hpp
	insertTestEdge(t, s, "a::A", "c::C", EdgeUses)     // outgoing from a.hpp
	insertTestEdge(t, s, "c::C", "a::B", EdgeInherits) // incoming to a.hpp
	insertTestEdge(t, s, "c::C", "other::D", EdgeUses) // untouched

	count, err := s.DeleteFileNodes("/src/a.hpp")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	gone, err := s.NodeByQualifiedName("a::A")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := s.NodeByQualifiedName("c::C")
	require.NoError(t, err)
	require.NotNil(t, kept)

	deps, err := s.Dependencies("c::C")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "other::D", deps[0].TargetQualifiedName)

	dependents, err := s.Dependents("a::B")
	require.NoError(t, err)
	assert.Empty(t, dependents)
}

func TestDeleteFileNodes_UnknownFileReturnsZero(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestNode(t, s, "a::A", NodeClass, "/src/a.hpp")
	insertTestEdge(t, s, "a::A", "B", EdgeUses)

	count, err := s.DeleteFileNodes("/src/never-seen.hpp")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	stats, err := s.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalNodes)
	assert.Equal(t, 1, stats.TotalEdges)
}

// =============================================================================
// FileDependencies
// =============================================================================

func TestFileDependencies_OutgoingOnly(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestNode(t, s, "a::A", NodeClass, "/src/a.hpp")
	insertTestNode(t, s, "c::C", NodeClass, "/src/c.hpp")

	insertTestEdge(t, s, "a::A", "c::C", EdgeUses)
	insertTestEdge(t, s, "c::C", "a::A", EdgeUses) // incoming, excluded

	edges, err := s.FileDependencies("/src/a.hpp")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "a::A", edges[0].SourceQualifiedName)

	none, err := s.FileDependencies("/src/empty.hpp")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// =============================================================================
// CommitExtraction
// =============================================================================

func TestCommitExtraction_IncrementalReplacesFileContribution(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	file := "/src/a.hpp"
	batch := &ExtractionBatch{}
	batch.AddNode(Node{Name: "A", QualifiedName: "a::A", Type: NodeClass, FilePath: &file})
	batch.AddEdge(Edge{SourceQualifiedName: "a::A", TargetQualifiedName: "B", Type: EdgeUses})
	require.NoError(t, s.CommitExtraction(file, batch, true))

	// Re-extract with different content: old edge must be gone.
	batch2 := &ExtractionBatch{}
	batch2.AddNode(Node{Name: "A", QualifiedName: "a::A", Type: NodeClass, FilePath: &file})
	batch2.AddEdge(Edge{SourceQualifiedName: "a::A", TargetQualifiedName: "C", Type: EdgeUses})
	require.NoError(t, s.CommitExtraction(file, batch2, true))

	deps, err := s.Dependencies("a::A")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "C", deps[0].TargetQualifiedName)
}

func TestCommitExtraction_RollbackKeepsPreviousContribution(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	file := "/src/a.hpp"
	batch := &ExtractionBatch{}
	batch.AddNode(Node{Name: "A", QualifiedName: "a::A", Type: NodeClass, FilePath: &file})
	batch.AddEdge(Edge{SourceQualifiedName: "a::A", TargetQualifiedName: "B", Type: EdgeUses})
	require.NoError(t, s.CommitExtraction(file, batch, true))

	// A batch that fails mid-commit must leave the first extraction intact.
	// A NULL qualified_name violates the NOT NULL constraint after the delete
	// step has already run inside the transaction.
	tx, err := s.db.Begin()
	require.NoError(t, err)
	_, err = deleteFileNodes(tx, file)
	require.NoError(t, err)
	_, err = tx.Exec("INSERT INTO dependency_nodes (name, qualified_name, node_type) VALUES ('X', NULL, 'class')")
	require.Error(t, err)
	require.NoError(t, tx.Rollback())

	got, err := s.NodeByQualifiedName("a::A")
	require.NoError(t, err)
	require.NotNil(t, got, "rollback must restore the deleted node")

	deps, err := s.Dependencies("a::A")
	require.NoError(t, err)
	assert.Len(t, deps, 1)
}

// =============================================================================
// Statistics & Clear
// =============================================================================

func TestStatistics_SumOfTypesEqualsTotal(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestNode(t, s, "/src/a.hpp", NodeFile, "/src/a.hpp")
	insertTestNode(t, s, "a::A", NodeClass, "/src/a.hpp")
	insertTestNode(t, s, "a::B", NodeStruct, "/src/a.hpp")
	insertTestNode(t, s, "a::f", NodeFunction, "/src/a.hpp")
	insertTestEdge(t, s, "a::A", "a::B", EdgeUses)

	stats, err := s.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalNodes)
	assert.Equal(t, 1, stats.TotalEdges)

	sum := 0
	for _, n := range stats.NodesByType {
		sum += n
	}
	assert.Equal(t, stats.TotalNodes, sum)
	assert.Equal(t, 1, stats.NodesByType[NodeClass])
}

func TestClear_RemovesEverything(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestNode(t, s, "a::A", NodeClass, "/src/a.hpp")
	insertTestEdge(t, s, "a::A", "B", EdgeUses)

	require.NoError(t, s.Clear())

	stats, err := s.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalNodes)
	assert.Equal(t, 0, stats.TotalEdges)
}

// =============================================================================
// Type tags
// =============================================================================

func TestParseNodeType_RejectsUnknown(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{"file", "class", "struct", "function", "namespace", "enum"} {
		_, err := ParseNodeType(valid)
		assert.NoError(t, err, valid)
	}
	_, err := ParseNodeType("module")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestParseEdgeType_RejectsUnknown(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{"inherits", "uses", "includes", "calls", "contains", "instantiates"} {
		_, err := ParseEdgeType(valid)
		assert.NoError(t, err, valid)
	}
	_, err := ParseEdgeType("depends")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
