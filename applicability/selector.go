package applicability

import (
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/gorilla/schema"

	"github.com/broady/tyflow"
)

var selectorDecoder = schema.NewDecoder()

// Selector matches targets by method, path glob and operation name, given
// in URL form encoding:
//
//	method=GET&method=HEAD&path=/users/*
//
// Each key may repeat. A target matches when it matches every non-empty
// list. Methods compare case-insensitively; paths use path.Match globs.
type Selector struct {
	Methods    []string `schema:"method"`
	Paths      []string `schema:"path"`
	Operations []string `schema:"operation"`
}

// ParseSelector decodes a selector. Unknown keys and malformed path patterns
// are errors.
func ParseSelector(form string) (*Selector, error) {
	values, err := url.ParseQuery(form)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", form, err)
	}
	var s Selector
	if err := selectorDecoder.Decode(&s, values); err != nil {
		return nil, fmt.Errorf("selector %q: %w", form, err)
	}
	for _, p := range s.Paths {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("selector %q: path %q: %w", form, p, err)
		}
	}
	return &s, nil
}

// Applies reports whether t matches the selector.
func (s *Selector) Applies(t *tyflow.Target) (bool, error) {
	if len(s.Methods) > 0 && !slices.ContainsFunc(s.Methods, func(m string) bool {
		return strings.EqualFold(m, t.Method)
	}) {
		return false, nil
	}
	if len(s.Operations) > 0 && !slices.Contains(s.Operations, t.Name) {
		return false, nil
	}
	if len(s.Paths) == 0 {
		return true, nil
	}
	for _, p := range s.Paths {
		ok, err := path.Match(p, t.Path)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Selector) String() string {
	v := url.Values{}
	for _, m := range s.Methods {
		v.Add("method", m)
	}
	for _, p := range s.Paths {
		v.Add("path", p)
	}
	for _, o := range s.Operations {
		v.Add("operation", o)
	}
	return v.Encode()
}
