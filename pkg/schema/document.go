package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrOperationNotFound is returned when a document has no operation with the
// requested id.
var ErrOperationNotFound = errors.New("schema: operation not found")

// MessagesExtension is the property extension carrying field-local messages
// keyed by failure kind.
const MessagesExtension = "x-validation-messages"

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Document is a parsed and validated OpenAPI document.
type Document struct {
	location   string
	operations map[string]Operation
}

// LoadFile reads and parses the document at path.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(ctx, path, raw)
}

// LoadFS reads and parses the document name from fsys.
func LoadFS(ctx context.Context, fsys fs.FS, name string) (*Document, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(ctx, name, raw)
}

// Parse loads raw, validates it and collects its operations. Location only
// labels errors.
func Parse(ctx context.Context, location string, raw []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("schema: %s: document is empty", location)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: load document: %w", location, err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("schema: %s: validate: %w", location, err)
	}

	doc := &Document{location: location, operations: make(map[string]Operation)}
	if spec.Paths == nil {
		return doc, nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			doc.operations[id] = Operation{
				ID:      id,
				Method:  strings.ToUpper(method),
				Path:    path,
				Summary: op.Summary,
				Fields:  requestFields(op.RequestBody),
			}
		}
	}
	return doc, nil
}

// Location returns the label the document was parsed with.
func (d *Document) Location() string {
	return d.location
}

// OperationIDs lists the operation ids in sorted order.
func (d *Document) OperationIDs() []string {
	ids := make([]string, 0, len(d.operations))
	for id := range d.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Operation returns the operation with the given id.
func (d *Document) Operation(id string) (Operation, error) {
	op, ok := d.operations[id]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
	}
	return op, nil
}

func requestFields(body *openapi3.RequestBodyRef) []Field {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return objectFields("", mt.Schema)
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil {
			return objectFields("", mt.Schema)
		}
	}
	return nil
}
