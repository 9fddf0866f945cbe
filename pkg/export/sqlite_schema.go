// Package export provides data export functionality for netstats: SQLite
// databases for client-side querying, JSON records for visualisation
// front-ends, and static graph snapshots.
package export

import (
	"database/sql"
	"fmt"
)

// SchemaVersion tracks the exported database layout.
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	nodesSQL := `
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			degree INTEGER NOT NULL DEFAULT 0,
			weighted_degree REAL NOT NULL DEFAULT 0,
			eigenvector REAL NOT NULL DEFAULT 0,
			betweenness REAL NOT NULL DEFAULT 0,
			clustering REAL NOT NULL DEFAULT 0,
			cliques INTEGER NOT NULL DEFAULT 0,
			community INTEGER NOT NULL DEFAULT 0
		)
	`
	if _, err := db.Exec(nodesSQL); err != nil {
		return fmt.Errorf("create nodes table: %w", err)
	}

	edgesSQL := `
		CREATE TABLE IF NOT EXISTS edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			weight REAL NOT NULL DEFAULT 1,
			FOREIGN KEY (source) REFERENCES nodes(id),
			FOREIGN KEY (target) REFERENCES nodes(id)
		)
	`
	if _, err := db.Exec(edgesSQL); err != nil {
		return fmt.Errorf("create edges table: %w", err)
	}

	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_community ON nodes(community)`,
	}
	for _, stmt := range indexSQL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	metaSQL := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}
