package explain

import (
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

func TestRunRequiresName(t *testing.T) {
	dir := t.TempDir()
	code := Run([]string{dir})
	if code == 0 {
		t.Error("expected non-zero exit when --name is missing")
	}
}

func TestRunRejectsNonexistentPath(t *testing.T) {
	code := Run([]string{"--name", "foo", "/nonexistent/path/for/skylos"})
	if code == 0 {
		t.Error("expected non-zero exit for a root path that does not exist")
	}
}

func TestRunFindsUnusedFunction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.py", "def unused_function():\n    pass\n")

	code := Run([]string{"--name", "unused_function", dir})
	if code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
}

func TestReasonsExplainsDunder(t *testing.T) {
	d := model.Definition{SimpleName: "__init__", Confidence: 0, DefType: model.DefMethod}
	got := reasons(d)
	if len(got) == 0 {
		t.Fatal("expected at least one reason")
	}
	found := false
	for _, r := range got {
		if r == "dunder name: always treated as used, confidence forced to 0" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dunder reason, got %v", got)
	}
}

func TestReasonsExplainsPrivateAndInit(t *testing.T) {
	d := model.Definition{SimpleName: "_private_function", Confidence: 50, DefType: model.DefFunction, InInit: true}
	got := reasons(d)
	hasPrivate, hasInit := false, false
	for _, r := range got {
		if r == "leading-underscore name: -30 confidence" {
			hasPrivate = true
		}
		if r == "function/class defined in an __init__ file: -20 confidence" {
			hasInit = true
		}
	}
	if !hasPrivate || !hasInit {
		t.Errorf("expected both private and init reasons, got %v", got)
	}
}
