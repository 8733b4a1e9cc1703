// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"github.com/samber/oops"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Issue describes one invalid field of a request body.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every problem found in a request body.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Field: field, Message: message}}}
}

// schemaRegistry compiles one JSON schema per body type on first use.
type schemaRegistry struct {
	mu      sync.Mutex
	schemas map[reflect.Type]*jschema.Schema
}

var bodySchemas = &schemaRegistry{schemas: make(map[reflect.Type]*jschema.Schema)}

func (s *schemaRegistry) get(t reflect.Type) (*jschema.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sch, ok := s.schemas[t]; ok {
		return sch, nil
	}
	sch, err := compileSchema(t)
	if err != nil {
		return nil, err
	}
	s.schemas[t] = sch
	return sch, nil
}

func reflectSchema(t reflect.Type) *jsonschema.Schema {
	r := jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	return r.ReflectFromType(t)
}

func compileSchema(t reflect.Type) (*jschema.Schema, error) {
	raw, err := json.Marshal(reflectSchema(t))
	if err != nil {
		return nil, oops.Code("SCHEMA_BUILD_FAILED").With("type", t.String()).Wrap(err)
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.Code("SCHEMA_BUILD_FAILED").With("type", t.String()).Wrap(err)
	}

	url := "mem://" + t.Name() + ".json"
	c := jschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(url, doc); err != nil {
		return nil, oops.Code("SCHEMA_BUILD_FAILED").With("type", t.String()).Wrap(err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, oops.Code("SCHEMA_BUILD_FAILED").With("type", t.String()).Wrap(err)
	}
	return sch, nil
}

// decodeBody reads a JSON body into dst after validating it against the
// schema of dst's type. Invalid input yields *ValidationError; anything else
// is an internal failure.
func decodeBody[T any](r *http.Request, dst *T) error {
	sch, err := bodySchemas.get(reflect.TypeFor[T]())
	if err != nil {
		return err
	}

	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return invalid("body", fmt.Sprintf("must not exceed %d bytes", maxBodyBytes))
		}
		return oops.Code("REQUEST_READ_FAILED").Wrap(err)
	}

	inst, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("body", "must be a valid JSON document")
	}
	if err := sch.Validate(inst); err != nil {
		var ve *jschema.ValidationError
		if errors.As(err, &ve) {
			return &ValidationError{Issues: issuesFrom(ve)}
		}
		return oops.Code("REQUEST_VALIDATE_FAILED").Wrap(err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return invalid("body", "has the wrong shape")
	}
	return nil
}

// issuesFrom flattens a schema validation error into one issue per leaf cause.
func issuesFrom(ve *jschema.ValidationError) []Issue {
	if len(ve.Causes) == 0 {
		return leafIssues(ve)
	}
	var issues []Issue
	for _, cause := range ve.Causes {
		issues = append(issues, issuesFrom(cause)...)
	}
	return issues
}

func leafIssues(ve *jschema.ValidationError) []Issue {
	field := strings.Join(ve.InstanceLocation, ".")
	if field == "" {
		field = "body"
	}

	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		issues := make([]Issue, 0, len(k.Missing))
		for _, name := range k.Missing {
			issues = append(issues, Issue{Field: joinField(ve.InstanceLocation, name), Message: "is required"})
		}
		return issues
	case *kind.MinLength:
		if k.Want == 1 {
			return []Issue{{Field: field, Message: "must not be empty"}}
		}
		return []Issue{{Field: field, Message: fmt.Sprintf("must be at least %d characters", k.Want)}}
	case *kind.MaxLength:
		return []Issue{{Field: field, Message: fmt.Sprintf("must be at most %d characters", k.Want)}}
	case *kind.Format:
		return []Issue{{Field: field, Message: "must be a valid " + k.Want}}
	case *kind.Type:
		return []Issue{{Field: field, Message: "must be of type " + strings.Join(k.Want, " or ")}}
	case *kind.Minimum:
		return []Issue{{Field: field, Message: "must be at least " + k.Want.RatString()}}
	default:
		return []Issue{{Field: field, Message: "is invalid"}}
	}
}

func joinField(loc []string, name string) string {
	if len(loc) == 0 {
		return name
	}
	return strings.Join(loc, ".") + "." + name
}
