package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/railatlas/railatlas/internal/unit"
)

// WriteRun persists one extraction run atomically: the run row, every unit,
// its metadata as JSON, its dependency edges, and the FTS entries.
func WriteRun(db *sql.DB, runID string, units []unit.CodeUnit) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin write transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, created_at, unit_count) VALUES (?, ?, ?)`,
		runID, time.Now().UTC(), len(units),
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insertUnit, err := tx.Prepare(`
		INSERT INTO units (run_id, identifier, kind, namespace, file_path, metadata, source_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare unit insert: %w", err)
	}
	defer insertUnit.Close()

	insertDep, err := tx.Prepare(`
		INSERT INTO unit_dependencies (unit_id, position, dep_type, target, via)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare dependency insert: %w", err)
	}
	defer insertDep.Close()

	insertFTS, err := tx.Prepare(`
		INSERT INTO units_fts (unit_id, identifier, source_code) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare FTS insert: %w", err)
	}
	defer insertFTS.Close()

	for _, u := range units {
		metadata, err := json.Marshal(u.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", u.Identifier, err)
		}
		res, err := insertUnit.Exec(runID, u.Identifier, string(u.Kind), u.Namespace, u.FilePath, string(metadata), u.SourceCode)
		if err != nil {
			return fmt.Errorf("failed to insert unit %s: %w", u.Identifier, err)
		}
		unitID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read unit id for %s: %w", u.Identifier, err)
		}
		for pos, dep := range u.Dependencies {
			if _, err := insertDep.Exec(unitID, pos, string(dep.Type), dep.Target, string(dep.Via)); err != nil {
				return fmt.Errorf("failed to insert dependency %s -> %s: %w", u.Identifier, dep.Target, err)
			}
		}
		if _, err := insertFTS.Exec(unitID, u.Identifier, u.SourceCode); err != nil {
			return fmt.Errorf("failed to index unit %s: %w", u.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit write transaction: %w", err)
	}
	return nil
}

// DeleteRun removes one run and everything hanging off it.
func DeleteRun(db *sql.DB, runID string) error {
	if _, err := db.Exec(`
		DELETE FROM units_fts WHERE unit_id IN (SELECT unit_id FROM units WHERE run_id = ?)`,
		runID,
	); err != nil {
		return fmt.Errorf("failed to delete FTS entries: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
