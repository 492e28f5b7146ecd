package autodocgen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baner3221/AutoDocGen/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func addNode(t *testing.T, e *Engine, qualifiedName string, typ NodeType) {
	t.Helper()
	parts := strings.Split(qualifiedName, "::")
	_, err := e.Store().UpsertNode(&store.Node{
		Name:          parts[len(parts)-1],
		QualifiedName: qualifiedName,
		Type:          typ,
	})
	require.NoError(t, err)
}

func addEdge(t *testing.T, e *Engine, source, target string, typ EdgeType) {
	t.Helper()
	_, err := e.Store().UpsertEdge(&store.Edge{
		SourceQualifiedName: source,
		TargetQualifiedName: target,
		Type:                typ,
	})
	require.NoError(t, err)
}

// chainEngine builds A -uses-> B -uses-> C -uses-> D with all four nodes stored.
func chainEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	for _, name := range []string{"A", "B", "C", "D"} {
		addNode(t, e, name, NodeClass)
	}
	addEdge(t, e, "A", "B", EdgeUses)
	addEdge(t, e, "B", "C", EdgeUses)
	addEdge(t, e, "C", "D", EdgeUses)
	return e
}

func relatedNames(result *SubgraphResult) []string {
	names := make([]string, 0, len(result.RelatedNodes))
	for _, n := range result.RelatedNodes {
		names = append(names, n.QualifiedName)
	}
	return names
}

// =============================================================================
// Subgraph traversal
// =============================================================================

func TestSubgraph_DepthBoundsOutward(t *testing.T) {
	t.Parallel()
	e := chainEngine(t)
	q := e.Query()

	r1, err := q.Subgraph("A", 1, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, r1.Edges, 1)
	assert.Equal(t, []string{"B"}, relatedNames(r1))

	r2, err := q.Subgraph("A", 2, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, r2.Edges, 2)
	assert.Equal(t, []string{"B", "C"}, relatedNames(r2))

	r3, err := q.Subgraph("A", 3, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, r3.Edges, 3)
	assert.Equal(t, []string{"B", "C", "D"}, relatedNames(r3))
}

func TestSubgraph_DepthZeroIsJustTheCenter(t *testing.T) {
	t.Parallel()
	e := chainEngine(t)

	r, err := e.Query().Subgraph("A", 0, DirectionOut)
	require.NoError(t, err)
	assert.Empty(t, r.Edges)
	assert.Empty(t, r.RelatedNodes)
	assert.Equal(t, "A", r.Node.QualifiedName)
}

func TestSubgraph_Inward(t *testing.T) {
	t.Parallel()
	e := chainEngine(t)

	r, err := e.Query().Subgraph("D", 1, DirectionIn)
	require.NoError(t, err)
	require.Len(t, r.Edges, 1)
	assert.Equal(t, "C", r.Edges[0].SourceQualifiedName)
	assert.Equal(t, []string{"C"}, relatedNames(r))
}

func TestSubgraph_BothDirections(t *testing.T) {
	t.Parallel()
	e := chainEngine(t)

	r, err := e.Query().Subgraph("B", 1, DirectionBoth)
	require.NoError(t, err)
	assert.Len(t, r.Edges, 2)
	assert.Equal(t, []string{"A", "C"}, relatedNames(r))
}

func TestSubgraph_MultiPathEdgesDeduplicated(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	// Diamond: A uses B and C, both use D.
	for _, name := range []string{"A", "B", "C", "D"} {
		addNode(t, e, name, NodeClass)
	}
	addEdge(t, e, "A", "B", EdgeUses)
	addEdge(t, e, "A", "C", EdgeUses)
	addEdge(t, e, "B", "D", EdgeUses)
	addEdge(t, e, "C", "D", EdgeUses)

	r, err := e.Query().Subgraph("A", 3, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, r.Edges, 4)
	assert.Equal(t, []string{"B", "C", "D"}, relatedNames(r))
}

func TestSubgraph_CycleTerminates(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	addNode(t, e, "A", NodeClass)
	addNode(t, e, "B", NodeClass)
	addEdge(t, e, "A", "B", EdgeUses)
	addEdge(t, e, "B", "A", EdgeUses)

	r, err := e.Query().Subgraph("A", 10, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, r.Edges, 2)
	assert.Equal(t, []string{"B"}, relatedNames(r))
}

func TestSubgraph_MissingCenterGetsPlaceholder(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	r, err := e.Query().Subgraph("ns::Ghost", 2, DirectionOut)
	require.NoError(t, err)
	require.NotNil(t, r.Node)
	assert.Zero(t, r.Node.ID)
	assert.Equal(t, "Ghost", r.Node.Name)
	assert.Equal(t, "ns::Ghost", r.Node.QualifiedName)
	assert.Equal(t, NodeClass, r.Node.Type)
	assert.Empty(t, r.Edges)
}

func TestSubgraph_MissingCenterWithTouchingEdgesStaysEmpty(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	addNode(t, e, "Widget", NodeClass)
	// Drawable is referenced by an edge but was never defined in any file.
	addEdge(t, e, "Widget", "Drawable", EdgeInherits)

	r, err := e.Query().Subgraph("Drawable", 2, DirectionBoth)
	require.NoError(t, err)
	require.NotNil(t, r.Node)
	assert.Zero(t, r.Node.ID)
	assert.Equal(t, "Drawable", r.Node.QualifiedName)
	assert.Empty(t, r.Edges)
	assert.Empty(t, r.RelatedNodes)
}

func TestSubgraph_UnresolvedEndpointsKeptInEdgesOnly(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	addNode(t, e, "A", NodeClass)
	// B has no node row, only an edge mentions it.
	addEdge(t, e, "A", "B", EdgeUses)

	r, err := e.Query().Subgraph("A", 1, DirectionOut)
	require.NoError(t, err)
	assert.Len(t, r.Edges, 1)
	assert.Empty(t, r.RelatedNodes)
}

func TestSubgraph_NegativeDepthRejected(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	_, err := e.Query().Subgraph("A", -1, DirectionOut)
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{"out", "in", "both"} {
		d, err := ParseDirection(valid)
		require.NoError(t, err)
		assert.Equal(t, Direction(valid), d)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}
