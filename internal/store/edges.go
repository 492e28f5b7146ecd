package store

import "fmt"

// UpsertEdge inserts or updates an edge keyed by (source, target, type) and
// returns its stable row ID. Re-upserting an existing triple only replaces
// the context annotation.
func (s *Store) UpsertEdge(e *Edge) (int64, error) {
	id, err := upsertEdge(s.db, e)
	if err != nil {
		return 0, fmt.Errorf("upsert edge %s -[%s]-> %s: %w",
			e.SourceQualifiedName, e.Type, e.TargetQualifiedName, err)
	}
	e.ID = id
	return id, nil
}

func upsertEdge(q execQuerier, e *Edge) (int64, error) {
	_, err := q.Exec(
		`INSERT INTO dependency_edges (source_qualified_name, target_qualified_name, edge_type, context)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_qualified_name, target_qualified_name, edge_type)
		 DO UPDATE SET context = excluded.context`,
		e.SourceQualifiedName, e.TargetQualifiedName, string(e.Type), e.Context,
	)
	if err != nil {
		return 0, err
	}
	var id int64
	err = q.QueryRow(
		`SELECT id FROM dependency_edges
		 WHERE source_qualified_name = ? AND target_qualified_name = ? AND edge_type = ?`,
		e.SourceQualifiedName, e.TargetQualifiedName, string(e.Type),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

const edgeCols = `id, source_qualified_name, target_qualified_name, edge_type, context`

func (s *Store) queryEdges(query string, args ...any) ([]Edge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var edges []Edge
	for rows.Next() {
		var e Edge
		var tag string
		if err := rows.Scan(&e.ID, &e.SourceQualifiedName, &e.TargetQualifiedName, &tag, &e.Context); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		et, err := ParseEdgeType(tag)
		if err != nil {
			return nil, err
		}
		e.Type = et
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Dependencies returns all edges with qualifiedName as source — what it uses.
func (s *Store) Dependencies(qualifiedName string) ([]Edge, error) {
	edges, err := s.queryEdges(
		"SELECT "+edgeCols+" FROM dependency_edges WHERE source_qualified_name = ?", qualifiedName,
	)
	if err != nil {
		return nil, fmt.Errorf("dependencies of %q: %w", qualifiedName, err)
	}
	return edges, nil
}

// Dependents returns all edges with qualifiedName as target — what uses it.
func (s *Store) Dependents(qualifiedName string) ([]Edge, error) {
	edges, err := s.queryEdges(
		"SELECT "+edgeCols+" FROM dependency_edges WHERE target_qualified_name = ?", qualifiedName,
	)
	if err != nil {
		return nil, fmt.Errorf("dependents of %q: %w", qualifiedName, err)
	}
	return edges, nil
}

// FileDependencies returns every outgoing edge from any node owned by
// filePath. A file with no nodes yields no edges.
func (s *Store) FileDependencies(filePath string) ([]Edge, error) {
	names, err := nodeNamesByFile(s.db, filePath)
	if err != nil {
		return nil, fmt.Errorf("file dependencies %q: %w", filePath, err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := placeholderList(len(names))
	edges, err := s.queryEdges(
		"SELECT "+edgeCols+" FROM dependency_edges WHERE source_qualified_name IN ("+placeholders+")",
		stringsToArgs(names)...,
	)
	if err != nil {
		return nil, fmt.Errorf("file dependencies %q: %w", filePath, err)
	}
	return edges, nil
}
