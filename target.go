package tyflow

import "github.com/broady/tyflow/ir"

// Target describes the operation an interceptor chain wraps.
type Target struct {
	// Name identifies the operation, e.g. "getUser".
	Name string

	// Method and Path are what applicability predicates match against.
	Method string
	Path   string

	// Parameters are the operation's own inputs. They are not part of the
	// resolved parameter set; callers prepend them when building a signature.
	Parameters []Parameter

	// ReturnType is the non-error result. Nil for operations without one.
	ReturnType ir.TypeDescriptor

	ErrorReturn bool
	ErrorType   ir.TypeDescriptor

	// DataBinding reports that the operation decodes an inbound payload.
	DataBinding bool
}

// EffectiveReturnType is the declared result of the operation before any
// interception: the return type joined with the error type when the
// operation can fail.
func (t *Target) EffectiveReturnType() ir.TypeDescriptor {
	if !t.ErrorReturn {
		return t.ReturnType
	}
	return ir.Join(t.ReturnType, t.ErrorType)
}
