package analyze

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/broady/tyflow/ir"
	"github.com/broady/tyflow/sink"
)

// Report formats accepted by Emit.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Report is the result of an analysis run.
type Report struct {
	Declarations []DeclarationReport `json:"declarations"`
}

// DeclarationReport covers one interceptor chain.
type DeclarationReport struct {
	Name         string            `json:"name"`
	Source       string            `json:"source,omitempty"`
	Interceptors int               `json:"interceptors"`
	Operations   []OperationReport `json:"operations"`
}

// OperationReport is the synthesized public view of one operation.
type OperationReport struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`

	// Signature lists the operation's parameters followed by those added
	// by interceptors.
	Signature []ParameterReport `json:"signature"`

	Responses []ResponseReport `json:"responses"`

	// ReturnType is the union of all response types.
	ReturnType string `json:"returnType,omitempty"`

	BindingErrorPossible bool         `json:"bindingErrorPossible"`
	BindingErrorHandled  bool         `json:"bindingErrorHandled"`
	Warnings             []ir.Warning `json:"warnings,omitempty"`
}

// ParameterReport is one entry of an operation's signature. Source is
// "target" or "interceptor".
type ParameterReport struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Source   string `json:"source"`
}

// ResponseReport is one type that can reach the caller, with the origin of
// the value and whether it is an error.
type ResponseReport struct {
	Type       string            `json:"type"`
	Descriptor ir.TypeDescriptor `json:"descriptor"`
	Origin     string            `json:"origin"`
	Error      bool              `json:"error,omitempty"`
}

// Counts returns the number of declarations, operations and warnings.
func (r *Report) Counts() (declarations, operations, warnings int) {
	for _, d := range r.Declarations {
		operations += len(d.Operations)
		for _, op := range d.Operations {
			warnings += len(op.Warnings)
		}
	}
	return len(r.Declarations), operations, warnings
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a line-oriented summary:
//
//	declaration users (2 interceptors)
//	  operation getUser GET /users/{id}
//	    parameter id path string (target)
//	    response User target
//	    response NotFound target error
//	    binding handled
//	    warning parameter_conflict: id: ...
//
// Declarations are separated by a blank line.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, d := range r.Declarations {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "declaration %s (%d interceptors)\n", d.Name, d.Interceptors)
		for _, op := range d.Operations {
			fmt.Fprintf(bw, "  operation %s %s %s\n", op.Name, op.Method, op.Path)
			for _, p := range op.Signature {
				opt := ""
				if p.Optional {
					opt = " optional"
				}
				fmt.Fprintf(bw, "    parameter %s %s %s%s (%s)\n", p.Name, p.In, p.Type, opt, p.Source)
			}
			for _, rt := range op.Responses {
				line := []string{"response", rt.Type, rt.Origin}
				if rt.Error {
					line = append(line, "error")
				}
				fmt.Fprintf(bw, "    %s\n", strings.Join(line, " "))
			}
			if op.BindingErrorPossible {
				state := "unhandled"
				if op.BindingErrorHandled {
					state = "handled"
				}
				fmt.Fprintf(bw, "    binding %s\n", state)
			}
			for _, wn := range op.Warnings {
				fmt.Fprintf(bw, "    warning %s\n", wn)
			}
		}
	}
	return bw.Flush()
}

// Emit renders the report in format and writes it to s as report.json or
// report.txt.
func (r *Report) Emit(ctx context.Context, s sink.OutputSink, format string) error {
	var (
		buf  bytes.Buffer
		name string
		err  error
	)
	switch format {
	case FormatJSON:
		name, err = "report.json", r.WriteJSON(&buf)
	case FormatText:
		name, err = "report.txt", r.WriteText(&buf)
	default:
		return fmt.Errorf("unknown report format %q (expected %q or %q)", format, FormatJSON, FormatText)
	}
	if err != nil {
		return fmt.Errorf("render %s report: %w", format, err)
	}
	if err := s.WriteFile(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
