package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateAtBumpsPastNewestVersion(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20300101000000_future.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	path, err := createAt(dir, "Add Vehicle Notes!", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := filepath.Base(path); got != "20300101000001_add_vehicle_notes.sql" {
		t.Fatalf("unexpected file name %s", got)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestCreateAtRejectsEmptyName(t *testing.T) {
	if _, err := createAt(t.TempDir(), "!!!", time.Now()); err == nil {
		t.Fatalf("expected error for empty sanitized name")
	}
}

func TestValidateDirRejectsDownBeforeUp(t *testing.T) {
	dir := t.TempDir()
	body := strings.Join([]string{downMarker, "SELECT 1;", upMarker, "SELECT 2;"}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_swapped.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for swapped sections")
	}
}

func TestValidateDirRejectsUnbalancedStatements(t *testing.T) {
	dir := t.TempDir()
	body := upMarker + "\n-- +goose StatementBegin\nSELECT 1;\n" + downMarker + "\n"
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_open.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for unbalanced markers")
	}
}

func TestEmbeddedSourceMatchesDirectory(t *testing.T) {
	fsys, err := Source("")
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	embeddedEntries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	onDisk, err := listMigrations("migrations")
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(embeddedEntries) != len(onDisk) {
		t.Fatalf("embedded %d files, directory has %d", len(embeddedEntries), len(onDisk))
	}
	for i, e := range embeddedEntries {
		if e.Name() != onDisk[i] {
			t.Fatalf("entry %d: embedded %s, on disk %s", i, e.Name(), onDisk[i])
		}
	}
}

func TestSourceRejectsMissingDir(t *testing.T) {
	if _, err := Source(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
