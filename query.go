package autodocgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/baner3221/AutoDocGen/internal/store"
)

// QueryBuilder provides the graph traversal API over the Store.
type QueryBuilder struct {
	store *store.Store
}

// Direction selects which edges a Subgraph traversal follows.
type Direction string

const (
	// DirectionOut follows edges from source to target — what the center uses.
	DirectionOut Direction = "out"
	// DirectionIn follows edges from target to source — what uses the center.
	DirectionIn Direction = "in"
	// DirectionBoth follows edges either way.
	DirectionBoth Direction = "both"
)

// ParseDirection validates a direction string from user input.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOut, DirectionIn, DirectionBoth:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction %q (want out, in, or both)", s)
	}
}

// Subgraph walks the graph outward from the symbol with the given qualified
// name, collecting every edge reachable within maxDepth hops in the given
// direction. Edges are deduplicated by (source, target, type).
//
// A center that has no stored node is not an error: the result carries a
// placeholder node with an empty neighborhood so callers can still render
// something for a name that only appears on edge endpoints.
func (q *QueryBuilder) Subgraph(qualifiedName string, maxDepth int, direction Direction) (*SubgraphResult, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("subgraph of %q: maxDepth must be non-negative, got %d", qualifiedName, maxDepth)
	}

	center, err := q.store.NodeByQualifiedName(qualifiedName)
	if err != nil {
		return nil, fmt.Errorf("subgraph of %q: %w", qualifiedName, err)
	}
	if center == nil {
		// Unknown centers get an empty neighborhood, even when edges mention
		// the name. Traversal only starts from symbols the graph has defined.
		return &SubgraphResult{
			Node:         placeholderNode(qualifiedName),
			Edges:        []Edge{},
			RelatedNodes: []*Node{},
		}, nil
	}

	result := &SubgraphResult{Node: center, Edges: []Edge{}, RelatedNodes: []*Node{}}

	visited := map[string]bool{qualifiedName: true}
	seenEdges := map[string]bool{}
	frontier := []string{qualifiedName}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, name := range frontier {
			edges, err := q.neighborEdges(name, direction)
			if err != nil {
				return nil, fmt.Errorf("subgraph of %q: %w", qualifiedName, err)
			}
			for _, e := range edges {
				key := e.SourceQualifiedName + "\x00" + e.TargetQualifiedName + "\x00" + string(e.Type)
				if !seenEdges[key] {
					seenEdges[key] = true
					result.Edges = append(result.Edges, e)
				}
				for _, endpoint := range []string{e.SourceQualifiedName, e.TargetQualifiedName} {
					if !visited[endpoint] {
						visited[endpoint] = true
						next = append(next, endpoint)
					}
				}
			}
		}
		frontier = next
	}

	// Resolve every visited name to its node. Names that appear only on edge
	// endpoints (external or not-yet-extracted symbols) stay in the edge list
	// but contribute no related node.
	names := make([]string, 0, len(visited))
	for name := range visited {
		if name != qualifiedName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		n, err := q.store.NodeByQualifiedName(name)
		if err != nil {
			return nil, fmt.Errorf("subgraph of %q: %w", qualifiedName, err)
		}
		if n != nil {
			result.RelatedNodes = append(result.RelatedNodes, n)
		}
	}
	return result, nil
}

func (q *QueryBuilder) neighborEdges(name string, direction Direction) ([]Edge, error) {
	switch direction {
	case DirectionOut:
		return q.store.Dependencies(name)
	case DirectionIn:
		return q.store.Dependents(name)
	case DirectionBoth:
		out, err := q.store.Dependencies(name)
		if err != nil {
			return nil, err
		}
		in, err := q.store.Dependents(name)
		if err != nil {
			return nil, err
		}
		return append(out, in...), nil
	default:
		return nil, fmt.Errorf("unknown direction %q", direction)
	}
}

// placeholderNode stands in for a center symbol the graph does not know.
func placeholderNode(qualifiedName string) *Node {
	parts := strings.Split(qualifiedName, "::")
	return &Node{
		Name:          parts[len(parts)-1],
		QualifiedName: qualifiedName,
		Type:          NodeClass,
	}
}

// Dependencies returns the direct outgoing edges of a symbol.
func (q *QueryBuilder) Dependencies(qualifiedName string) ([]Edge, error) {
	return q.store.Dependencies(qualifiedName)
}

// Dependents returns the direct incoming edges of a symbol.
func (q *QueryBuilder) Dependents(qualifiedName string) ([]Edge, error) {
	return q.store.Dependents(qualifiedName)
}

// FileDependencies returns every outgoing edge from any symbol defined in
// the given file.
func (q *QueryBuilder) FileDependencies(filePath string) ([]Edge, error) {
	return q.store.FileDependencies(filePath)
}

// NodeByQualifiedName looks up a single node, returning nil when absent.
func (q *QueryBuilder) NodeByQualifiedName(qualifiedName string) (*Node, error) {
	return q.store.NodeByQualifiedName(qualifiedName)
}
