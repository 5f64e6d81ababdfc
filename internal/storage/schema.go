// Package storage persists extraction runs to SQLite: the unit records,
// their metadata, their dependency edges, and an FTS5 index over identifiers
// and source for the search consumer.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	unit_count INTEGER NOT NULL DEFAULT 0
)`

const createUnitsTable = `
CREATE TABLE IF NOT EXISTS units (
	unit_id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	identifier TEXT NOT NULL,
	kind TEXT NOT NULL,
	namespace TEXT NOT NULL DEFAULT '',
	file_path TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	source_code TEXT NOT NULL DEFAULT '',
	UNIQUE(run_id, kind, identifier)
)`

const createDependenciesTable = `
CREATE TABLE IF NOT EXISTS unit_dependencies (
	unit_id INTEGER NOT NULL REFERENCES units(unit_id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	dep_type TEXT NOT NULL,
	target TEXT NOT NULL CHECK (target <> ''),
	via TEXT NOT NULL CHECK (via <> ''),
	PRIMARY KEY (unit_id, position)
)`

const createUnitsFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS units_fts USING fts5(
	unit_id UNINDEXED,
	identifier,
	source_code,
	tokenize = 'unicode61 remove_diacritics 0'
)`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_units_identifier ON units(identifier)`,
	`CREATE INDEX IF NOT EXISTS idx_units_kind ON units(kind)`,
	`CREATE INDEX IF NOT EXISTS idx_deps_target ON unit_dependencies(target)`,
}

// Open opens (creating if needed) the index database at path and ensures
// the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables and indexes. Regular tables are created in
// one transaction; the FTS5 virtual table is created outside it.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"units", createUnitsTable},
		{"unit_dependencies", createDependenciesTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	if _, err := db.Exec(createUnitsFTSTable); err != nil {
		return fmt.Errorf("failed to create FTS index: %w", err)
	}
	return nil
}
