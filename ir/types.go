// Package ir defines the type vocabulary carried through interceptor flow analysis.
// Descriptors are language-agnostic: upstream collaborators translate whatever their
// declarations use into these shapes, and downstream renderers translate them back out.
package ir

// Identifier names a declared type with package context.
type Identifier struct {
	// Name is the bare type name, e.g. "User".
	Name string

	// Package is the qualifier, e.g. "api" or "github.com/example/api".
	// Empty for types declared alongside the operation.
	Package string
}

// IsZero returns true if the identifier is empty.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Package == ""
}

// String returns the qualified name, "pkg.Name" or "Name".
func (id Identifier) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// Warning codes produced during analysis.
const (
	// WarnUnresolvedApplicability: an interceptor's applicability could not be
	// decided statically and it was treated as not invokable.
	WarnUnresolvedApplicability = "unresolved_applicability"

	// WarnParameterConflict: two interceptors declare the same parameter name
	// with different types. The first declaration is kept.
	WarnParameterConflict = "parameter_conflict"

	// WarnUnsupportedParameterType: a parameter has no usable type and was dropped.
	WarnUnsupportedParameterType = "unsupported_parameter_type"

	// WarnUnhandledBindingError: a payload binding failure can reach the caller
	// without passing through any error interceptor.
	WarnUnhandledBindingError = "unhandled_binding_error"
)

// Warning represents a non-fatal issue encountered during analysis.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Subject names the interceptor, parameter or operation that triggered it.
	Subject string `json:"subject,omitempty"`
}

func (w Warning) String() string {
	if w.Subject == "" {
		return w.Code + ": " + w.Message
	}
	return w.Code + ": " + w.Subject + ": " + w.Message
}
