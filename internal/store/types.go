package store

import (
	"errors"
	"fmt"
)

// ErrCorruptRecord is wrapped by load paths when a persisted enum tag is not
// one of the known variants. Callers can errors.Is against it to distinguish
// data corruption from ordinary lookup failures.
var ErrCorruptRecord = errors.New("corrupt graph record")

// NodeType classifies a symbol node.
type NodeType string

const (
	NodeFile      NodeType = "file"
	NodeClass     NodeType = "class"
	NodeStruct    NodeType = "struct"
	NodeFunction  NodeType = "function"
	NodeNamespace NodeType = "namespace"
	NodeEnum      NodeType = "enum"
)

// ParseNodeType validates a persisted node_type tag.
func ParseNodeType(s string) (NodeType, error) {
	switch t := NodeType(s); t {
	case NodeFile, NodeClass, NodeStruct, NodeFunction, NodeNamespace, NodeEnum:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown node type %q", ErrCorruptRecord, s)
}

// EdgeType classifies a directed relationship between two qualified names.
type EdgeType string

const (
	EdgeInherits     EdgeType = "inherits"
	EdgeUses         EdgeType = "uses"
	EdgeIncludes     EdgeType = "includes"
	EdgeCalls        EdgeType = "calls"
	EdgeContains     EdgeType = "contains"
	EdgeInstantiates EdgeType = "instantiates"
)

// ParseEdgeType validates a persisted edge_type tag.
func ParseEdgeType(s string) (EdgeType, error) {
	switch t := EdgeType(s); t {
	case EdgeInherits, EdgeUses, EdgeIncludes, EdgeCalls, EdgeContains, EdgeInstantiates:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown edge type %q", ErrCorruptRecord, s)
}

// Node is one symbol in the dependency graph. QualifiedName is the primary
// key; FilePath and LineNumber are nil for symbols that are referenced by
// edges but never defined in any extracted file.
type Node struct {
	ID            int64
	Name          string
	QualifiedName string
	Type          NodeType
	FilePath      *string
	LineNumber    *int
}

// Edge is a directed, typed relationship between two qualified names. Edges
// reference symbols by name, not by node ID: extraction order is not
// guaranteed, so an edge may point at a name with no node row yet.
// Resolution happens at query time.
type Edge struct {
	ID                  int64
	SourceQualifiedName string
	TargetQualifiedName string
	Type                EdgeType
	Context             *string
}

// Statistics summarizes the stored graph.
type Statistics struct {
	TotalNodes  int
	TotalEdges  int
	NodesByType map[NodeType]int
}

// SubgraphResult is the outcome of a bounded neighborhood query: the center
// node, every distinct edge reached within the depth limit, and the resolved
// nodes for every visited qualified name other than the center. Names that
// never resolve to a node are absent from RelatedNodes but their edges stay.
type SubgraphResult struct {
	Node         *Node
	Edges        []Edge
	RelatedNodes []*Node
}
