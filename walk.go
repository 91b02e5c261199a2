package tyflow

import "github.com/broady/tyflow/ir"

// walk is the immutable context shared by both resolvers for one call:
// the pipeline's arena, the target, and the per-call diagnostics.
type walk struct {
	nodes         []node
	requestEntry  int
	responseEntry int
	target        *Target
	limit         int

	warnings []ir.Warning
	warned   map[string]bool

	// passed and collected mark request-path nodes already visited by
	// ResolveParameters. A node reached again adds nothing new.
	passed    []bool
	collected []bool
}

func newWalk(p *Pipeline, t *Target) (*walk, error) {
	if t == nil {
		return nil, NewError(CodeInvalidDescriptor, "nil target")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w := &walk{
		requestEntry:  none,
		responseEntry: none,
		target:        t,
		warned:        make(map[string]bool),
	}
	if !p.empty() {
		w.nodes = p.nodes
		w.requestEntry = p.requestEntry
		w.responseEntry = p.responseEntry
	}
	w.limit = 4*len(w.nodes) + 4
	w.passed = make([]bool, len(w.nodes))
	w.collected = make([]bool, len(w.nodes))
	return w, nil
}

// enter enforces the depth bound. A walk over a well-formed chain never
// reaches it; exceeding it means the links loop.
func (w *walk) enter(i, depth int) error {
	if depth > w.limit {
		return &MalformedChainError{Index: i, Reason: "traversal exceeded chain depth bound"}
	}
	if i < 0 || i >= len(w.nodes) {
		return &MalformedChainError{Index: i, Reason: "link out of range"}
	}
	return nil
}

// invokable evaluates applicability, degrading undecidable answers to false.
func (w *walk) invokable(n *node) bool {
	ok, err := n.Invokable(w.target)
	if err != nil {
		w.warn(ir.Warning{
			Code:    ir.WarnUnresolvedApplicability,
			Message: "treated as not invokable: " + err.Error(),
			Subject: n.Name,
		})
		return false
	}
	return ok
}

func (w *walk) warn(wn ir.Warning) {
	k := wn.Code + "\x00" + wn.Subject
	if w.warned[k] {
		return
	}
	w.warned[k] = true
	w.warnings = append(w.warnings, wn)
}

func unknownCategory(i int, c Category) error {
	return &MalformedChainError{Index: i, Reason: "unknown category " + c.String()}
}
