package store

import (
	"database/sql"
	"fmt"
)

// UpsertNode inserts or updates a node keyed by qualified_name and returns its
// stable row ID. Re-upserting the same qualified name updates name, type,
// file path, and line number in place; it never creates a second row.
func (s *Store) UpsertNode(n *Node) (int64, error) {
	id, err := upsertNode(s.db, n)
	if err != nil {
		return 0, fmt.Errorf("upsert node %q: %w", n.QualifiedName, err)
	}
	n.ID = id
	return id, nil
}

// execQuerier is the subset of *sql.DB and *sql.Tx the node/edge writers need.
type execQuerier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

func upsertNode(q execQuerier, n *Node) (int64, error) {
	_, err := q.Exec(
		`INSERT INTO dependency_nodes (name, qualified_name, node_type, file_path, line_number)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(qualified_name) DO UPDATE SET
		   name = excluded.name,
		   node_type = excluded.node_type,
		   file_path = excluded.file_path,
		   line_number = excluded.line_number`,
		n.Name, n.QualifiedName, string(n.Type), n.FilePath, n.LineNumber,
	)
	if err != nil {
		return 0, err
	}
	// LastInsertId is unreliable on the DO UPDATE path, so read the ID back.
	var id int64
	err = q.QueryRow(
		"SELECT id FROM dependency_nodes WHERE qualified_name = ?", n.QualifiedName,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// NodeByQualifiedName returns the node with the given qualified name, or
// (nil, nil) if no such node exists.
func (s *Store) NodeByQualifiedName(qualifiedName string) (*Node, error) {
	n := &Node{}
	var tag string
	err := s.db.QueryRow(
		`SELECT id, name, qualified_name, node_type, file_path, line_number
		 FROM dependency_nodes WHERE qualified_name = ?`, qualifiedName,
	).Scan(&n.ID, &n.Name, &n.QualifiedName, &tag, &n.FilePath, &n.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("node by qualified name: %w", err)
	}
	nt, err := ParseNodeType(tag)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", qualifiedName, err)
	}
	n.Type = nt
	return n, nil
}

// nodeNamesByFile returns the qualified names of every node owned by filePath.
func nodeNamesByFile(q execQuerier, filePath string) ([]string, error) {
	rows, err := q.Query(
		"SELECT qualified_name FROM dependency_nodes WHERE file_path = ?", filePath,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteFileNodes removes every node owned by filePath and every edge whose
// source or target is one of those nodes, in one transaction. Returns the
// number of nodes removed; a file with no nodes yields 0 and is not an error.
func (s *Store) DeleteFileNodes(filePath string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("delete file nodes: begin: %w", err)
	}
	defer tx.Rollback()

	count, err := deleteFileNodes(tx, filePath)
	if err != nil {
		return 0, fmt.Errorf("delete file nodes %q: %w", filePath, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete file nodes: commit: %w", err)
	}
	return count, nil
}

func deleteFileNodes(q execQuerier, filePath string) (int, error) {
	names, err := nodeNamesByFile(q, filePath)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	placeholders := placeholderList(len(names))
	args := stringsToArgs(names)

	_, err = q.Exec(
		"DELETE FROM dependency_edges WHERE source_qualified_name IN ("+placeholders+
			") OR target_qualified_name IN ("+placeholders+")",
		append(args, args...)...,
	)
	if err != nil {
		return 0, err
	}

	if _, err := q.Exec("DELETE FROM dependency_nodes WHERE file_path = ?", filePath); err != nil {
		return 0, err
	}
	return len(names), nil
}
