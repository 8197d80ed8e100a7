package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/skylos-dev/skylos/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func findDef(results []model.FileResult, name string) (model.Definition, bool) {
	for _, r := range results {
		for _, d := range r.Definitions {
			if d.Name == name {
				return d, true
			}
		}
	}
	return model.Definition{}, false
}

func TestWalkEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	results, err := Walk(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected zero files in an empty directory, got %d", len(results))
	}
}

func TestWalkProcessesPythonFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.py", "def used():\n    pass\n\ndef unused():\n    pass\n\nused()\n")
	writeFile(t, dir, "notes.txt", "not python\n")

	results, err := Walk(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one .py file processed, got %d", len(results))
	}

	used, ok := findDef(results, "used")
	if !ok || used.Confidence != 100 {
		t.Fatalf("expected used() with confidence 100, got %+v", used)
	}
}

func TestWalkHandlesUnparsableFileGracefully(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.py", "def (((\n")

	results, err := Walk(context.Background(), dir, Options{Secrets: true})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result even for an unparsable file, got %d", len(results))
	}
}

func TestWalkGatesDangerAndQualityByOption(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "risky.py", "eval(x)\n")

	withoutDanger, err := Walk(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(withoutDanger[0].Danger) != 0 {
		t.Fatalf("expected no danger findings when Danger option is off, got %+v", withoutDanger[0].Danger)
	}

	withDanger, err := Walk(context.Background(), dir, Options{Danger: true})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(withDanger[0].Danger) != 1 {
		t.Fatalf("expected one danger finding when Danger option is on, got %+v", withDanger[0].Danger)
	}
}
