package tyflow

import (
	"github.com/broady/tyflow/ir"
)

// Location says where a parameter is carried on the wire.
type Location string

const (
	InPath    Location = "path"
	InQuery   Location = "query"
	InHeader  Location = "header"
	InPayload Location = "payload"
)

// Parameter is one input the synthesized operation signature must expose.
type Parameter struct {
	Name     string
	In       Location
	Type     ir.TypeDescriptor
	Optional bool
}

// Applicability decides whether an interceptor covers a target operation,
// typically by matching its method and path. Implementations must be pure
// and safe for concurrent use: one pipeline is resolved against many targets.
//
// An error means the answer cannot be determined statically. Resolvers then
// treat the interceptor as not invokable and record a warning.
type Applicability interface {
	Applies(t *Target) (bool, error)
}

// ApplicabilityFunc adapts a function to the Applicability interface.
type ApplicabilityFunc func(t *Target) (bool, error)

// Applies calls f(t).
func (f ApplicabilityFunc) Applies(t *Target) (bool, error) { return f(t) }

// Interceptor holds the static facts of one declared interceptor, as
// supplied by whatever parsed the declaration.
type Interceptor struct {
	// Name identifies the interceptor in diagnostics.
	Name string

	Category Category

	// Forwards is true when the interceptor always hands control to the
	// next component instead of producing its own terminal result.
	Forwards bool

	// Parameters are the inputs the interceptor reads, in declaration order.
	Parameters []Parameter

	// ReturnType is produced when the interceptor terminates the chain
	// itself. Nil when it never does.
	ReturnType ir.TypeDescriptor

	// ErrorReturn reports that the interceptor can fail with ErrorType.
	ErrorReturn bool
	ErrorType   ir.TypeDescriptor

	// DataBinding reports that the interceptor needs a decoded payload,
	// and decoding can fail before it runs.
	DataBinding bool

	// Applicability limits the targets the interceptor covers.
	// Nil covers every target.
	Applicability Applicability
}

// Invokable reports whether the interceptor covers target t.
func (ic *Interceptor) Invokable(t *Target) (bool, error) {
	if ic.Applicability == nil {
		return true, nil
	}
	return ic.Applicability.Applies(t)
}

func (ic Interceptor) clone() Interceptor {
	if ic.Parameters != nil {
		ic.Parameters = append([]Parameter(nil), ic.Parameters...)
	}
	return ic
}
