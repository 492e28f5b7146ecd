package autodocgen

import "github.com/baner3221/AutoDocGen/internal/store"

// Public type aliases for internal store types used in the QueryBuilder API.
// These are Go type aliases (=) — identical to the internal types at compile
// time. External consumers use these names; no conversion is needed.

type Store = store.Store
type Node = store.Node
type Edge = store.Edge
type NodeType = store.NodeType
type EdgeType = store.EdgeType
type Statistics = store.Statistics
type SubgraphResult = store.SubgraphResult

// Node type tags.
const (
	NodeFile      = store.NodeFile
	NodeClass     = store.NodeClass
	NodeStruct    = store.NodeStruct
	NodeFunction  = store.NodeFunction
	NodeNamespace = store.NodeNamespace
	NodeEnum      = store.NodeEnum
)

// Edge type tags.
const (
	EdgeInherits     = store.EdgeInherits
	EdgeUses         = store.EdgeUses
	EdgeIncludes     = store.EdgeIncludes
	EdgeCalls        = store.EdgeCalls
	EdgeContains     = store.EdgeContains
	EdgeInstantiates = store.EdgeInstantiates
)
