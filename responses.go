package tyflow

import "github.com/broady/tyflow/ir"

// ResolveResponses computes every type that can reach the caller of target t
// once the pipeline's interceptors have had their say.
//
// The walk starts on the request path. Each interceptor that runs may
// forward (the walk continues inward), terminate with its own return type
// (which then travels outward through the response path), or fail (the
// error travels to the nearest request_error interceptor, or else to the
// response-side error interceptors). Reaching the end of the request path
// runs the target, whose results travel outward from the response entry.
// Response interceptors either pass the type in flight along unchanged,
// replace it with their own return type, or both.
//
// Types that leave the outermost interceptor are collected structurally.
// Absent types prune their branch. A pipeline that violates the chain
// invariants yields a *MalformedChainError.
func ResolveResponses(p *Pipeline, t *Target) (*ResponseTypeSet, error) {
	w, err := newWalk(p, t)
	if err != nil {
		return nil, err
	}
	r := &responseWalk{
		walk: w,
		out:  newResponseTypeSet(),
		seen: make(map[visit]bool),
	}
	if err := r.request(w.requestEntry, 0); err != nil {
		return nil, err
	}
	r.out.Warnings = w.warnings
	return r.out, nil
}

// flight is a value travelling through the chain. A binding failure has no
// type: it can only be observed through the binding flags.
type flight struct {
	typ    ir.TypeDescriptor
	origin Origin
}

type walkState uint8

const (
	stateRequest walkState = iota
	stateTarget
	stateResponse
	stateError
)

// visit memoizes a walk step. Output is a set union, so a step that was
// already taken contributes nothing new.
type visit struct {
	state  walkState
	node   int
	typ    string
	origin Origin
}

type responseWalk struct {
	*walk
	out  *ResponseTypeSet
	seen map[visit]bool
}

func (r *responseWalk) once(v visit) bool {
	if r.seen[v] {
		return true
	}
	r.seen[v] = true
	return false
}

func (r *responseWalk) emit(f flight, isErr bool) {
	r.out.add(f.typ, f.origin, isErr)
}

// request visits the request path at i. Past the last interceptor the
// target runs.
func (r *responseWalk) request(i, depth int) error {
	if i == none {
		return r.targetReached(depth + 1)
	}
	if err := r.enter(i, depth); err != nil {
		return err
	}
	if r.once(visit{state: stateRequest, node: i}) {
		return nil
	}

	n := &r.nodes[i]
	switch n.Category {
	case CategoryRequest:
	case CategoryRequestError, CategoryResponse, CategoryResponseError:
		return r.request(n.nextRequest, depth+1)
	default:
		return unknownCategory(i, n.Category)
	}

	invokable := r.invokable(n)
	if n.Forwards || !invokable {
		if err := r.request(n.nextRequest, depth+1); err != nil {
			return err
		}
		if !invokable {
			return nil
		}
	}
	return r.settle(n, depth)
}

// settle follows the outcomes of a request-side interceptor that ran: its
// failure, if it can fail or needs binding, and its own return type.
func (r *responseWalk) settle(n *node, depth int) error {
	if n.ErrorReturn || n.DataBinding {
		if n.DataBinding {
			r.out.BindingErrorPossible = true
		}
		f := flight{origin: OriginInterceptor}
		if n.ErrorReturn {
			f.typ = n.ErrorType
		}
		handler := false
		if e := n.nextRequestError; e != none {
			if err := r.enter(e, depth+1); err != nil {
				return err
			}
			handler = r.invokable(&r.nodes[e])
		}
		var err error
		if handler {
			err = r.errorNode(n.nextRequestError, f, depth+1)
		} else {
			err = r.responseError(f, depth+1)
		}
		if err != nil {
			return err
		}
	}
	if n.ReturnType != nil {
		return r.response(n.nextResponse, flight{typ: n.ReturnType, origin: OriginInterceptor}, depth+1)
	}
	return nil
}

// targetReached runs the target. Its results enter the response path at the
// pipeline's response entry.
func (r *responseWalk) targetReached(depth int) error {
	if r.once(visit{state: stateTarget, node: none}) {
		return nil
	}
	t := r.target
	if t.ErrorReturn || t.DataBinding {
		if t.DataBinding {
			r.out.BindingErrorPossible = true
		}
		f := flight{origin: OriginTarget}
		if t.ErrorReturn {
			f.typ = t.ErrorType
		}
		if err := r.responseError(f, depth+1); err != nil {
			return err
		}
	}
	if t.ReturnType != nil {
		return r.response(r.responseEntry, flight{typ: t.ReturnType, origin: OriginTarget}, depth+1)
	}
	return nil
}

// response carries f outward from position i. Leaving the chain emits it.
func (r *responseWalk) response(i int, f flight, depth int) error {
	if i == none {
		r.emit(f, false)
		return nil
	}
	if err := r.enter(i, depth); err != nil {
		return err
	}
	if r.once(visit{state: stateResponse, node: i, typ: ir.Key(f.typ), origin: f.origin}) {
		return nil
	}

	n := &r.nodes[i]
	switch n.Category {
	case CategoryResponse:
	case CategoryRequest, CategoryRequestError, CategoryResponseError:
		return r.response(n.nextResponse, f, depth+1)
	default:
		return unknownCategory(i, n.Category)
	}

	if !r.invokable(n) {
		return r.response(n.nextResponse, f, depth+1)
	}
	if n.Forwards && f.typ != nil {
		if err := r.response(n.nextResponse, f, depth+1); err != nil {
			return err
		}
	}
	if n.ErrorReturn {
		if err := r.raise(n, flight{typ: n.ErrorType, origin: OriginInterceptor}, depth); err != nil {
			return err
		}
	}
	if n.ReturnType != nil {
		return r.response(n.nextResponse, flight{typ: n.ReturnType, origin: OriginInterceptor}, depth+1)
	}
	return nil
}

// raise sends an error produced by a response-side interceptor to the next
// response_error interceptor, or out to the caller when there is none.
func (r *responseWalk) raise(n *node, f flight, depth int) error {
	if n.nextResponseError == none {
		r.emit(f, true)
		return nil
	}
	return r.errorNode(n.nextResponseError, f, depth+1)
}

// responseError routes an error that found no request_error interceptor to
// the response-side error chain, starting from the response entry.
func (r *responseWalk) responseError(f flight, depth int) error {
	start := r.responseEntry
	if start != none {
		if err := r.enter(start, depth); err != nil {
			return err
		}
		if r.nodes[start].Category != CategoryResponseError {
			start = r.nodes[start].nextResponseError
		}
	}
	if start == none {
		r.emit(f, true)
		return nil
	}
	return r.errorNode(start, f, depth+1)
}

// errorNode delivers the error f to the error interceptor at i.
func (r *responseWalk) errorNode(i int, f flight, depth int) error {
	if err := r.enter(i, depth); err != nil {
		return err
	}
	if r.once(visit{state: stateError, node: i, typ: ir.Key(f.typ), origin: f.origin}) {
		return nil
	}

	n := &r.nodes[i]
	switch n.Category {
	case CategoryRequestError:
		// Runs like any request interceptor: forwarding resumes the
		// request path, so the error in flight is consumed either way.
		r.out.BindingErrorHandled = true
		if n.Forwards {
			if err := r.request(n.nextRequest, depth+1); err != nil {
				return err
			}
		}
		return r.settle(n, depth)

	case CategoryResponseError:
		if !r.invokable(n) {
			return r.raise(n, f, depth)
		}
		r.out.BindingErrorHandled = true
		if n.Forwards {
			if err := r.raise(n, f, depth); err != nil {
				return err
			}
		}
		if n.ErrorReturn {
			if err := r.raise(n, flight{typ: n.ErrorType, origin: OriginInterceptor}, depth); err != nil {
				return err
			}
		}
		if n.ReturnType != nil {
			return r.response(n.nextResponse, flight{typ: n.ReturnType, origin: OriginInterceptor}, depth+1)
		}
		return nil

	case CategoryRequest, CategoryResponse:
		return &MalformedChainError{Index: i, Reason: "error link reaches " + n.Category.String() + " interceptor"}

	default:
		return unknownCategory(i, n.Category)
	}
}
