// Package schemas checks structured model output against embedded JSON Schemas.
//
// Every schema is compiled on first use and shared by all callers.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Name identifies an embedded schema file.
type Name string

// Embedded schemas.
const (
	Pathway     Name = "pathway.schema.json"
	PathwayStep Name = "pathway_step.schema.json"
	ExamInfo    Name = "exam_info.schema.json"
)

// Names lists every embedded schema.
func Names() []Name {
	return []Name{Pathway, PathwayStep, ExamInfo}
}

//go:embed *.schema.json
var schemaFiles embed.FS

var (
	compiled    map[Name]*gojsonschema.Schema
	compileErr  error
	compileOnce sync.Once
)

// FieldError is one violation at a JSON path. The document root is "(root)".
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in one document.
type ValidationError struct {
	Schema Name
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("document does not match %s: %s", e.Schema, strings.Join(parts, "; "))
}

// Fields returns the distinct failing paths in report order.
func (e *ValidationError) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, fe := range e.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// Validate checks document against the named schema. It returns a *ValidationError
// when the document parses but violates the schema.
func Validate(name Name, document []byte) error {
	schemas, err := compileAll()
	if err != nil {
		return err
	}
	schema, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

func compileAll() (map[Name]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		out := make(map[Name]*gojsonschema.Schema, len(Names()))
		for _, name := range Names() {
			data, err := schemaFiles.ReadFile(string(name))
			if err != nil {
				compileErr = fmt.Errorf("schema %s not embedded: %w", name, err)
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				compileErr = fmt.Errorf("schema %s failed to compile: %w", name, err)
				return
			}
			out[name] = schema
		}
		compiled = out
	})
	return compiled, compileErr
}
