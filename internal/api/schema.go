package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed todo.schema.json
var todoSchemaJSON []byte

// todoSchemaURL is the resource name the schema is registered under.
const todoSchemaURL = "todo.schema.json"

// requiredTodoFields must be present and non-null in create and update bodies.
var requiredTodoFields = []string{"title", "description", "completed"}

// schemaError reports the first schema violation as "<field>: <reason>".
type schemaError struct {
	Field  string
	Reason string
}

func (e *schemaError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// compileTodoSchema compiles the embedded request schema.
func compileTodoSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(todoSchemaURL, bytes.NewReader(todoSchemaJSON)); err != nil {
		return nil, fmt.Errorf("adding todo schema: %w", err)
	}
	sch, err := c.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling todo schema: %w", err)
	}
	return sch, nil
}

// decodeDocument parses exactly one JSON value from raw.
// Numbers are kept as json.Number for the schema validator. Bodies that
// are not valid UTF-8 are rejected rather than decoded with replacement
// characters.
func decodeDocument(raw []byte) (any, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", errInvalidJSON)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", errInvalidJSON)
	}
	return doc, nil
}

// checkTodoDocument runs the boundary checks on a decoded body, in order:
// object shape, presence of every field, then the schema.
func checkTodoDocument(sch *jsonschema.Schema, doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: body must be a JSON object", errInvalidJSON)
	}
	for _, field := range requiredTodoFields {
		if v, present := obj[field]; !present || v == nil {
			return fmt.Errorf("%w: %s", errMissingFields, field)
		}
	}

	if err := sch.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return firstViolation(ve)
		}
		return fmt.Errorf("validating todo body: %w", err)
	}
	return nil
}

// firstViolation picks the leaf error with the lowest instance location so
// the reported field is deterministic.
func firstViolation(ve *jsonschema.ValidationError) *schemaError {
	leaves := collectLeaves(ve, nil)
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].InstanceLocation < leaves[j].InstanceLocation
	})
	leaf := leaves[0]
	return &schemaError{
		Field:  strings.TrimPrefix(leaf.InstanceLocation, "/"),
		Reason: leaf.Message,
	}
}

func collectLeaves(ve *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(acc, ve)
	}
	for _, c := range ve.Causes {
		acc = collectLeaves(c, acc)
	}
	return acc
}
