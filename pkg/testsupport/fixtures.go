package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/dom"
)

// MustParseBody parses markup as the body of a document and returns the body
// element.
func MustParseBody(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := dom.Parse("<!DOCTYPE html><html><head></head><body>" + markup + "</body></html>")
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	body := dom.Find(doc, dom.ByTag("body"))
	if body == nil {
		t.Fatalf("document has no body")
	}
	return body
}

// MustFindID returns the element with the given id below root.
func MustFindID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()

	node := dom.Find(root, dom.ByID(id))
	if node == nil {
		t.Fatalf("element #%s not found", id)
	}
	return node
}

// updateGoldens reports whether golden files should be rewritten.
func updateGoldens() bool {
	return os.Getenv("UPDATE_GOLDENS") != ""
}

// AssertGoldenString compares got against the golden file at path. With
// UPDATE_GOLDENS set the file is rewritten instead.
func AssertGoldenString(t *testing.T, path, got string) {
	t.Helper()

	if updateGoldens() {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v (run with UPDATE_GOLDENS=1 to create it)", err)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
