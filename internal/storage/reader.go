package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/railatlas/railatlas/internal/unit"
)

// SearchResult is one FTS hit.
type SearchResult struct {
	Identifier string
	Kind       unit.Kind
	FilePath   string
	Snippet    string
}

// LatestRunID returns the most recent run, or "" when the index is empty.
func LatestRunID(db *sql.DB) (string, error) {
	var runID string
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}

// ReadRun loads every unit of a run, with metadata and edges, in insertion
// order.
func ReadRun(db *sql.DB, runID string) ([]unit.CodeUnit, error) {
	rows, err := db.Query(`
		SELECT unit_id, identifier, kind, namespace, file_path, metadata, source_code
		FROM units WHERE run_id = ? ORDER BY unit_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []unit.CodeUnit
	var ids []int64
	for rows.Next() {
		var (
			id       int64
			u        unit.CodeUnit
			kind     string
			metadata string
		)
		if err := rows.Scan(&id, &u.Identifier, &kind, &u.Namespace, &u.FilePath, &metadata, &u.SourceCode); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		u.Kind = unit.Kind(kind)
		if err := json.Unmarshal([]byte(metadata), &u.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", u.Identifier, err)
		}
		units = append(units, u)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate units: %w", err)
	}

	for i, id := range ids {
		deps, err := readDependencies(db, id)
		if err != nil {
			return nil, err
		}
		units[i].Dependencies = deps
	}
	return units, nil
}

func readDependencies(db *sql.DB, unitID int64) ([]unit.Dependency, error) {
	rows, err := db.Query(`
		SELECT dep_type, target, via FROM unit_dependencies
		WHERE unit_id = ? ORDER BY position`, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	var deps []unit.Dependency
	for rows.Next() {
		var depType, target, via string
		if err := rows.Scan(&depType, &target, &via); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps = append(deps, unit.Dependency{
			Type:   unit.DepType(depType),
			Target: target,
			Via:    unit.Via(via),
		})
	}
	return deps, rows.Err()
}

// Search runs an FTS5 query over identifiers and source, returning the best
// matches by BM25 rank with a highlighted snippet.
func Search(db *sql.DB, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT u.identifier, u.kind, u.file_path,
		       snippet(units_fts, 2, '[', ']', '...', 12)
		FROM units_fts f
		JOIN units u ON u.unit_id = f.unit_id
		WHERE units_fts MATCH ?
		ORDER BY bm25(units_fts)
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var kind string
		if err := rows.Scan(&r.Identifier, &kind, &r.FilePath, &r.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		r.Kind = unit.Kind(kind)
		results = append(results, r)
	}
	return results, rows.Err()
}
