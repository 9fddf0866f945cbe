package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/guinetik/netstats/pkg/analysis"
)

// SQLiteExporter writes an analysis result to a SQLite database for
// downstream querying (sql.js in a browser, sqlite3 on the shell).
type SQLiteExporter struct {
	Result *analysis.Result
	Edges  []analysis.Edge
}

// NewSQLiteExporter creates an exporter over the given result and the edge
// list it was computed from. Edges may be nil to export node records only.
func NewSQLiteExporter(result *analysis.Result, edges []analysis.Edge) *SQLiteExporter {
	return &SQLiteExporter{Result: result, Edges: edges}
}

// Export writes the database at path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	if e.Result == nil {
		return fmt.Errorf("nothing to export: result is nil")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := e.insertNodes(db); err != nil {
		return fmt.Errorf("insert nodes: %w", err)
	}
	if err := e.insertEdges(db); err != nil {
		return fmt.Errorf("insert edges: %w", err)
	}
	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	return nil
}

func (e *SQLiteExporter) insertNodes(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO nodes (id, degree, weighted_degree, eigenvector,
			betweenness, clustering, cliques, community)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range e.Result.Nodes {
		if _, err := stmt.Exec(rec.ID, rec.Degree, rec.WeightedDegree,
			rec.Eigenvector, rec.Betweenness, rec.Clustering,
			rec.Cliques, rec.Community); err != nil {
			return fmt.Errorf("node %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertEdges(db *sql.DB) error {
	if len(e.Edges) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO edges (source, target, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, edge := range e.Edges {
		if _, err := stmt.Exec(edge.Source, edge.Target, edge.Weight); err != nil {
			return fmt.Errorf("edge %s-%s: %w", edge.Source, edge.Target, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	features := make([]string, len(e.Result.Features))
	for i, f := range e.Result.Features {
		features[i] = string(f)
	}
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"node_count":     strconv.Itoa(len(e.Result.Nodes)),
		"edge_count":     strconv.Itoa(len(e.Edges)),
		"features":       strings.Join(features, ","),
		"zero_fill":      strconv.FormatBool(e.Result.ZeroFill),
	}
	for key, value := range meta {
		if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("meta %s: %w", key, err)
		}
	}
	return nil
}
