// Package applicability provides the predicates that decide which target
// operations an interceptor covers.
//
// Predicates are compiled once, when a manifest is loaded, and evaluated for
// every operation the interceptor's declaration wraps. Evaluation is pure and
// safe for concurrent use.
package applicability

import (
	"github.com/broady/tyflow"
)

// All returns the conjunction of preds. Nil predicates are ignored; with none
// left, All returns nil, which covers every target.
//
// A definite false from any predicate wins over an error from another, so an
// interceptor ruled out statically does not produce a warning.
func All(preds ...tyflow.Applicability) tyflow.Applicability {
	var out conjunction
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

type conjunction []tyflow.Applicability

func (c conjunction) Applies(t *tyflow.Target) (bool, error) {
	var firstErr error
	for _, p := range c {
		ok, err := p.Applies(t)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !ok {
			return false, nil
		}
	}
	if firstErr != nil {
		return false, firstErr
	}
	return true, nil
}

// Func adapts a total predicate, one that can always decide.
func Func(f func(t *tyflow.Target) bool) tyflow.Applicability {
	return tyflow.ApplicabilityFunc(func(t *tyflow.Target) (bool, error) {
		return f(t), nil
	})
}
