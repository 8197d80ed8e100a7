package testkind

import (
	"testing"

	"github.com/skylos-dev/skylos/internal/lineindex"
	"github.com/skylos-dev/skylos/internal/pyparse"
)

func TestIsTestFileByDirectory(t *testing.T) {
	if !IsTestFile("project/tests/test_utils.py") {
		t.Errorf("expected a file under tests/ to be a test file")
	}
	if !IsTestFile("project/test/helpers.py") {
		t.Errorf("expected a file under test/ to be a test file")
	}
}

func TestIsTestFileBySuffix(t *testing.T) {
	if !IsTestFile("project/utils_test.py") {
		t.Errorf("expected utils_test.py to be a test file")
	}
}

func TestIsTestFileFalseForPlainFile(t *testing.T) {
	if IsTestFile("project/utils.py") {
		t.Errorf("expected utils.py to not be a test file")
	}
}

func TestClassifyMarksTestFunctionAndClass(t *testing.T) {
	src := "class TestWidget:\n    def test_create(self):\n        pass\n\ndef helper():\n    pass\n"
	source := []byte(src)
	mod, err := pyparse.Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := Classify("sample.py", mod, lineindex.New(source))
	if len(r.TestLines) != 2 {
		t.Fatalf("expected 2 test-decorated lines, got %d (%v)", len(r.TestLines), r.TestLines)
	}
}

func TestClassifyMarksFixtureDecorator(t *testing.T) {
	src := "@pytest.fixture\ndef client():\n    pass\n"
	source := []byte(src)
	mod, err := pyparse.Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := Classify("sample.py", mod, lineindex.New(source))
	if len(r.TestLines) != 1 {
		t.Fatalf("expected the fixture-decorated function to be marked, got %v", r.TestLines)
	}
}
