package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "002_second.sql", "CREATE TABLE b (id INT);")
	writeFile(t, dir, "001_first.sql", "CREATE TABLE a (id INT);")
	writeFile(t, dir, "010_tenth.sql", "CREATE TABLE c (id INT);")
	writeFile(t, dir, "README.md", "not a migration")
	writeFile(t, dir, "noversion.sql", "skipped")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}

	if len(migrations) != 3 {
		t.Fatalf("loaded %d migrations, want 3", len(migrations))
	}

	wantVersions := []int{1, 2, 10}
	for i, v := range wantVersions {
		if migrations[i].Version != v {
			t.Errorf("position %d: version %d, want %d", i, migrations[i].Version, v)
		}
	}
	if migrations[0].Name != "001_first.sql" {
		t.Errorf("name = %q", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE a (id INT);" {
		t.Errorf("sql = %q", migrations[0].SQL)
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/path")
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	m := NewMigrator(nil, t.TempDir())
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(migrations) != 0 {
		t.Fatalf("expected no migrations, got %d", len(migrations))
	}
}
