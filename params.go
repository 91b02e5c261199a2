package tyflow

// ResolveParameters collects the parameters contributed by every interceptor
// that executes before target t, walking the request path from the
// pipeline's request entry.
//
// Parameters are ordered outer to inner: an interceptor's own parameters
// precede those of the interceptors it forwards to. A non-applicable
// interceptor contributes nothing itself but does not stop the walk. An
// interceptor that can fail also pulls in the parameters of the applicable
// request_error interceptor its error reaches.
//
// The target's own parameters are not included. A nil pipeline, or one with
// no request interceptor, yields an empty set.
func ResolveParameters(p *Pipeline, t *Target) (*ParameterSet, error) {
	w, err := newWalk(p, t)
	if err != nil {
		return nil, err
	}
	out := NewParameterSet()
	if err := w.params(out, w.requestEntry, 0); err != nil {
		return nil, err
	}
	out.Warnings = append(w.warnings, out.Warnings...)
	return out, nil
}

// params visits the request path at i, passing over interceptors that do
// not run on inbound requests.
func (w *walk) params(out *ParameterSet, i, depth int) error {
	if i == none {
		return nil
	}
	if err := w.enter(i, depth); err != nil {
		return err
	}
	n := &w.nodes[i]
	switch n.Category {
	case CategoryRequest:
		return w.collect(out, i, depth)
	case CategoryRequestError, CategoryResponse, CategoryResponseError:
		if w.passed[i] {
			return nil
		}
		w.passed[i] = true
		return w.params(out, n.nextRequest, depth+1)
	default:
		return unknownCategory(i, n.Category)
	}
}

// collect gathers parameters for an interceptor that is about to run,
// either on the request path or as the receiver of an error. Each node is
// collected once; the set keeps first-insertion order, so later visits
// would only repeat it.
func (w *walk) collect(out *ParameterSet, i, depth int) error {
	if w.collected[i] {
		return nil
	}
	w.collected[i] = true
	n := &w.nodes[i]
	if !w.invokable(n) {
		return w.params(out, n.nextRequest, depth+1)
	}

	for _, prm := range n.Parameters {
		out.Add(prm, n.Name)
	}
	if n.Forwards {
		if err := w.params(out, n.nextRequest, depth+1); err != nil {
			return err
		}
	}

	if n.ErrorReturn && n.nextRequestError != none {
		if err := w.enter(n.nextRequestError, depth+1); err != nil {
			return err
		}
		if w.invokable(&w.nodes[n.nextRequestError]) {
			return w.collect(out, n.nextRequestError, depth+1)
		}
	}
	return nil
}
