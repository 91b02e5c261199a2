// Package manifest loads interceptor chain declarations from YAML.
//
// A manifest lists declarations. Each declaration is one interceptor chain
// and the operations it wraps:
//
//	declarations:
//	  - name: users
//	    interceptors:
//	      - name: auth
//	        category: request
//	        forwards: true
//	        parameters:
//	          - {name: Authorization, in: header, type: string}
//	        errorReturn: true
//	        errorType: AuthError
//	        match: "path=/users/*"
//	    operations:
//	      - name: getUser
//	        method: GET
//	        path: /users/{id}
//	        returns: User
//
// Types are written in the syntax accepted by ir.ParseType.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/broady/tyflow"
)

// File is one parsed manifest.
type File struct {
	Declarations []Declaration `yaml:"declarations" validate:"required,min=1,dive"`
}

// Declaration is an interceptor chain together with the operations it wraps.
type Declaration struct {
	Name         string        `yaml:"name" validate:"required"`
	Interceptors []Interceptor `yaml:"interceptors" validate:"dive"`
	Operations   []Operation   `yaml:"operations" validate:"required,min=1,dive"`

	// Source is the file the declaration was loaded from, if any.
	Source string `yaml:"-"`
}

// Interceptor declares one interceptor, outermost first.
type Interceptor struct {
	Name        string      `yaml:"name" validate:"required"`
	Category    string      `yaml:"category" validate:"required,oneof=request request_error response response_error"`
	Forwards    bool        `yaml:"forwards,omitempty"`
	Parameters  []Parameter `yaml:"parameters,omitempty" validate:"dive"`
	Returns     string      `yaml:"returns,omitempty" validate:"omitempty,typeexpr"`
	ErrorReturn bool        `yaml:"errorReturn,omitempty"`
	ErrorType   string      `yaml:"errorType,omitempty" validate:"required_if=ErrorReturn true,omitempty,typeexpr"`
	DataBinding bool        `yaml:"dataBinding,omitempty"`

	// When is a CEL expression over method, path and operation.
	When string `yaml:"when,omitempty"`

	// Match is a selector in URL form encoding, e.g. "method=GET&path=/users/*".
	Match string `yaml:"match,omitempty"`
}

// Operation declares one target operation.
type Operation struct {
	Name        string      `yaml:"name" validate:"required"`
	Method      string      `yaml:"method" validate:"required,httpmethod"`
	Path        string      `yaml:"path" validate:"required,startswith=/"`
	Parameters  []Parameter `yaml:"parameters,omitempty" validate:"dive"`
	Returns     string      `yaml:"returns,omitempty" validate:"omitempty,typeexpr"`
	ErrorReturn bool        `yaml:"errorReturn,omitempty"`
	ErrorType   string      `yaml:"errorType,omitempty" validate:"required_if=ErrorReturn true,omitempty,typeexpr"`
	DataBinding bool        `yaml:"dataBinding,omitempty"`
}

// Parameter declares one input.
type Parameter struct {
	Name     string `yaml:"name" validate:"required"`
	In       string `yaml:"in" validate:"required,oneof=path query header payload"`
	Type     string `yaml:"type" validate:"required,typeexpr"`
	Optional bool   `yaml:"optional,omitempty"`
}

// Parse decodes and validates a single-document manifest. Unknown fields are
// rejected. Problems are reported as a *tyflow.Error with code
// invalid_manifest whose details map each offending field to a message.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, tyflow.NewError(tyflow.CodeInvalidManifest, err.Error())
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, tyflow.NewError(tyflow.CodeInvalidManifest, "multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return nil, tyflow.NewError(tyflow.CodeInvalidManifest, err.Error())
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		var e *tyflow.Error
		if errors.As(err, &e) {
			return nil, e.WithDetail("file", path)
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	for i := range f.Declarations {
		f.Declarations[i].Source = path
	}
	return f, nil
}

// LoadAll loads every manifest in paths and concatenates their declarations
// in order. Declaration names must be unique across all files.
func LoadAll(paths ...string) ([]Declaration, error) {
	var out []Declaration
	seen := make(map[string]string)
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			return nil, err
		}
		for _, d := range f.Declarations {
			if prev, ok := seen[d.Name]; ok {
				return nil, tyflow.Errorf(tyflow.CodeInvalidManifest, "declaration %q in %s already declared in %s", d.Name, path, prev).
					WithDetails(map[string]any{"file": path, "declaration": d.Name})
			}
			seen[d.Name] = path
			out = append(out, d)
		}
	}
	return out, nil
}
