package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "010_indexes.sql", "CREATE INDEX a ON t (c);")
	writeMigration(t, dir, "001_core.sql", "CREATE TABLE t (c INT);")
	writeMigration(t, dir, "002_follow_ups.sql", "CREATE TABLE f (c INT);")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	wantOrder := []int{1, 2, 10}
	for i, mig := range migrations {
		if mig.Version != wantOrder[i] {
			t.Errorf("migration[%d].Version = %d, want %d", i, mig.Version, wantOrder[i])
		}
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("first migration = %q, want 001_core.sql", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE t (c INT);" {
		t.Errorf("SQL content not loaded: %q", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsNonMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_core.sql", "CREATE TABLE t (c INT);")
	writeMigration(t, dir, "README.md", "notes")
	writeMigration(t, dir, "notes.sql", "-- no version prefix")
	writeMigration(t, dir, "abc_def.sql", "-- non-numeric prefix")
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migrations))
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, filepath.Join(t.TempDir(), "nope"))
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
