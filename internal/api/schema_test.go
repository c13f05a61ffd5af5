package api

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"object", `{"a":1}`, false},
		{"scalar", `5`, false},
		{"surrounding whitespace", "  {}\n", false},
		{"empty", ``, true},
		{"truncated", `{"a":`, true},
		{"two values", `{}{}`, true},
		{"trailing garbage", `{} x`, true},
		{"invalid UTF-8 in string", "{\"title\":\"\xff\xfe\"}", true},
		{"multi-byte UTF-8", `{"title":"café ☕"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDocument([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errInvalidJSON) {
				t.Errorf("err = %v, want errInvalidJSON", err)
			}
		})
	}
}

func TestCheckTodoDocument(t *testing.T) {
	sch, err := compileTodoSchema()
	if err != nil {
		t.Fatalf("compileTodoSchema: %v", err)
	}

	tests := []struct {
		name      string
		raw       string
		wantIs    error
		wantField string
	}{
		{name: "valid", raw: `{"title":"a","description":"b","completed":false}`},
		{name: "not an object", raw: `"hello"`, wantIs: errInvalidJSON},
		{name: "missing field", raw: `{"title":"a","description":"b"}`, wantIs: errMissingFields},
		{name: "null field", raw: `{"title":"a","description":null,"completed":true}`, wantIs: errMissingFields},
		{name: "title too long", raw: `{"title":"` + strings.Repeat("x", 101) + `","description":"b","completed":false}`, wantField: "title"},
		{name: "description empty", raw: `{"title":"a","description":"","completed":false}`, wantField: "description"},
		{name: "completed number", raw: `{"title":"a","description":"b","completed":1}`, wantField: "completed"},
		{name: "first field wins", raw: `{"title":"","description":"","completed":false}`, wantField: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := decodeDocument([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decodeDocument: %v", err)
			}
			err = checkTodoDocument(sch, doc)

			switch {
			case tt.wantIs != nil:
				if !errors.Is(err, tt.wantIs) {
					t.Errorf("err = %v, want %v", err, tt.wantIs)
				}
			case tt.wantField != "":
				var se *schemaError
				if !errors.As(err, &se) {
					t.Fatalf("err = %v, want *schemaError", err)
				}
				if se.Field != tt.wantField {
					t.Errorf("field = %q, want %q", se.Field, tt.wantField)
				}
				if se.Reason == "" {
					t.Error("empty reason")
				}
			default:
				if err != nil {
					t.Errorf("err = %v, want nil", err)
				}
			}
		})
	}
}
