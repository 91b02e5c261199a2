package tyflow

import (
	"fmt"
	"strings"

	"github.com/broady/tyflow/ir"
)

// ParameterSet is an ordered, name-keyed collection of parameters.
// Adding a parameter whose name is already present is silent when both
// declarations agree; otherwise the first declaration wins and a warning
// is recorded.
type ParameterSet struct {
	params []Parameter
	index  map[string]int

	// Warnings collects merge diagnostics.
	Warnings []ir.Warning
}

// NewParameterSet returns an empty set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{index: make(map[string]int)}
}

// Add merges p into the set. from names the declaration p came from and is
// used in diagnostics.
func (s *ParameterSet) Add(p Parameter, from string) {
	if p.Type == nil {
		s.Warnings = append(s.Warnings, ir.Warning{
			Code:    ir.WarnUnsupportedParameterType,
			Message: fmt.Sprintf("parameter %q declared by %s has no type", p.Name, from),
			Subject: p.Name,
		})
		return
	}
	if i, ok := s.index[p.Name]; ok {
		prev := s.params[i]
		if prev.In != p.In || !ir.Equal(prev.Type, p.Type) {
			s.Warnings = append(s.Warnings, ir.Warning{
				Code: ir.WarnParameterConflict,
				Message: fmt.Sprintf("%s declares %s %s, keeping %s %s",
					from, p.In, ir.Format(p.Type), prev.In, ir.Format(prev.Type)),
				Subject: p.Name,
			})
		}
		return
	}
	s.index[p.Name] = len(s.params)
	s.params = append(s.params, p)
}

// Parameters returns the parameters in insertion order.
func (s *ParameterSet) Parameters() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// Lookup returns the parameter with the given name.
func (s *ParameterSet) Lookup(name string) (Parameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return Parameter{}, false
	}
	return s.params[i], true
}

// Names returns parameter names in insertion order.
func (s *ParameterSet) Names() []string {
	var names []string
	for _, p := range s.params {
		names = append(names, p.Name)
	}
	return names
}

// Len returns the number of parameters.
func (s *ParameterSet) Len() int { return len(s.params) }

// Origin records where an emitted type came from. A type reachable both from
// the target and from an interceptor carries both bits.
type Origin uint8

const (
	OriginTarget Origin = 1 << iota
	OriginInterceptor
)

func (o Origin) String() string {
	var parts []string
	if o&OriginTarget != 0 {
		parts = append(parts, "target")
	}
	if o&OriginInterceptor != 0 {
		parts = append(parts, "interceptor")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ResponseType is one member of a ResponseTypeSet.
type ResponseType struct {
	Type   ir.TypeDescriptor
	Origin Origin

	// Error is set when the type reaches the caller as an unhandled error.
	Error bool
}

// ResponseTypeSet is the set of types that can reach the caller.
// Membership is structural: two descriptors that are ir.Equal are one member.
type ResponseTypeSet struct {
	types []ResponseType
	index map[string]int

	// BindingErrorPossible is set when some executed component requires
	// payload binding, which can fail.
	BindingErrorPossible bool

	// BindingErrorHandled is set when an error path reached an error
	// interceptor.
	BindingErrorHandled bool

	// Warnings collects diagnostics raised while resolving.
	Warnings []ir.Warning
}

func newResponseTypeSet() *ResponseTypeSet {
	return &ResponseTypeSet{index: make(map[string]int)}
}

func (s *ResponseTypeSet) add(t ir.TypeDescriptor, origin Origin, isErr bool) {
	if t == nil {
		return
	}
	k := ir.Key(t)
	if i, ok := s.index[k]; ok {
		s.types[i].Origin |= origin
		s.types[i].Error = s.types[i].Error || isErr
		return
	}
	s.index[k] = len(s.types)
	s.types = append(s.types, ResponseType{Type: t, Origin: origin, Error: isErr})
}

// Types returns the members in the order they were first reached.
func (s *ResponseTypeSet) Types() []ResponseType {
	return append([]ResponseType(nil), s.types...)
}

// Descriptors returns the member types in the order they were first reached.
func (s *ResponseTypeSet) Descriptors() []ir.TypeDescriptor {
	out := make([]ir.TypeDescriptor, len(s.types))
	for i, rt := range s.types {
		out[i] = rt.Type
	}
	return out
}

// Lookup returns the member structurally equal to t.
func (s *ResponseTypeSet) Lookup(t ir.TypeDescriptor) (ResponseType, bool) {
	if t == nil {
		return ResponseType{}, false
	}
	i, ok := s.index[ir.Key(t)]
	if !ok {
		return ResponseType{}, false
	}
	return s.types[i], true
}

// Contains reports whether a type structurally equal to t is a member.
func (s *ResponseTypeSet) Contains(t ir.TypeDescriptor) bool {
	_, ok := s.Lookup(t)
	return ok
}

// Len returns the number of members.
func (s *ResponseTypeSet) Len() int { return len(s.types) }

// Union joins all members into the operation's synthesized return type.
func (s *ResponseTypeSet) Union() ir.TypeDescriptor {
	return ir.Join(s.Descriptors()...)
}

// UnhandledBindingError reports that a binding failure can reach the caller
// without any error interceptor seeing it.
func (s *ResponseTypeSet) UnhandledBindingError() bool {
	return s.BindingErrorPossible && !s.BindingErrorHandled
}
