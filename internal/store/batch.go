package store

import "fmt"

// ExtractionBatch buffers one file's nodes and edges in memory so the whole
// file can be committed in a single transaction. The extractor appends while
// walking the analysis; nothing touches the database until CommitExtraction.
type ExtractionBatch struct {
	Nodes []Node
	Edges []Edge
}

// AddNode buffers a node for the next commit.
func (b *ExtractionBatch) AddNode(n Node) {
	b.Nodes = append(b.Nodes, n)
}

// AddEdge buffers an edge for the next commit.
func (b *ExtractionBatch) AddEdge(e Edge) {
	b.Edges = append(b.Edges, e)
}

// CommitExtraction applies one file's extraction batch in a single
// transaction. When incremental is true it first deletes every node owned by
// filePath together with all edges touching those nodes, then upserts the
// batch. An error anywhere rolls the transaction back, leaving the file's
// previous graph contribution intact — there is no window where the file's
// symbols are absent.
func (s *Store) CommitExtraction(filePath string, batch *ExtractionBatch, incremental bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit extraction: begin: %w", err)
	}
	defer tx.Rollback()

	if incremental {
		if _, err := deleteFileNodes(tx, filePath); err != nil {
			return fmt.Errorf("commit extraction: delete %q: %w", filePath, err)
		}
	}

	for i := range batch.Nodes {
		if _, err := upsertNode(tx, &batch.Nodes[i]); err != nil {
			return fmt.Errorf("commit extraction: node %q: %w", batch.Nodes[i].QualifiedName, err)
		}
	}
	for i := range batch.Edges {
		if _, err := upsertEdge(tx, &batch.Edges[i]); err != nil {
			e := &batch.Edges[i]
			return fmt.Errorf("commit extraction: edge %s -[%s]-> %s: %w",
				e.SourceQualifiedName, e.Type, e.TargetQualifiedName, err)
		}
	}

	return tx.Commit()
}
