package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the dependency graph. It owns the
// two persisted tables and knows nothing about extraction or traversal.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the node and edge tables and their indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Edges reference symbols by qualified name on purpose: a method may use a
// class the extractor has not visited yet, so no foreign key ties
// dependency_edges to dependency_nodes. The source/target indexes keep
// per-file deletes and neighborhood queries sub-linear in total graph size.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS dependency_nodes (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  name            TEXT NOT NULL,
  qualified_name  TEXT NOT NULL UNIQUE,
  node_type       TEXT NOT NULL,
  file_path       TEXT,
  line_number     INTEGER
);

CREATE TABLE IF NOT EXISTS dependency_edges (
  id                    INTEGER PRIMARY KEY AUTOINCREMENT,
  source_qualified_name TEXT NOT NULL,
  target_qualified_name TEXT NOT NULL,
  edge_type             TEXT NOT NULL,
  context               TEXT,
  UNIQUE(source_qualified_name, target_qualified_name, edge_type)
);

CREATE INDEX IF NOT EXISTS idx_nodes_name ON dependency_nodes(name);
CREATE INDEX IF NOT EXISTS idx_nodes_file ON dependency_nodes(file_path);
CREATE INDEX IF NOT EXISTS idx_nodes_qualified ON dependency_nodes(qualified_name);
CREATE INDEX IF NOT EXISTS idx_edges_source ON dependency_edges(source_qualified_name);
CREATE INDEX IF NOT EXISTS idx_edges_target ON dependency_edges(target_qualified_name);
`

// Statistics returns node/edge counts and a per-type node breakdown.
func (s *Store) Statistics() (*Statistics, error) {
	stats := &Statistics{NodesByType: make(map[NodeType]int)}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM dependency_nodes").Scan(&stats.TotalNodes); err != nil {
		return nil, fmt.Errorf("count nodes: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM dependency_edges").Scan(&stats.TotalEdges); err != nil {
		return nil, fmt.Errorf("count edges: %w", err)
	}

	rows, err := s.db.Query("SELECT node_type, COUNT(*) FROM dependency_nodes GROUP BY node_type")
	if err != nil {
		return nil, fmt.Errorf("count nodes by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		var count int
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, fmt.Errorf("scan node type count: %w", err)
		}
		nt, err := ParseNodeType(tag)
		if err != nil {
			return nil, fmt.Errorf("statistics: %w", err)
		}
		stats.NodesByType[nt] = count
	}
	return stats, rows.Err()
}

// Clear removes every node and edge from the graph.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM dependency_edges"); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM dependency_nodes"); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}
	return nil
}
