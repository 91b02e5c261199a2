package tyflow

import "fmt"

// none marks an absent link or entry point.
const none = -1

// node is one arena slot: an interceptor's facts plus its four links.
// Links are indices into the owning Pipeline's arena.
type node struct {
	Interceptor

	nextRequest       int
	nextRequestError  int
	nextResponse      int
	nextResponseError int
}

// Pipeline is an interceptor chain assembled for analysis.
//
// A Pipeline is immutable once Build returns. It may be shared by any number
// of goroutines resolving different targets. A nil *Pipeline means "no
// interception" and is accepted by every resolver.
type Pipeline struct {
	nodes         []node
	requestEntry  int
	responseEntry int
}

// Links exposes a node's four links. Absent links are -1.
type Links struct {
	NextRequest       int
	NextRequestError  int
	NextResponse      int
	NextResponseError int
}

// Build assembles interceptors, given in declaration order (outermost first),
// into a Pipeline.
//
// Consecutive interceptors are linked forward along the request path and
// backward along the response path. A request-path interceptor's error link
// points at the nearest following request_error interceptor; a response-path
// interceptor's error link points at the nearest preceding response_error
// interceptor, since responses travel outward.
//
// The request entry is the first request interceptor. The response entry is
// the last response-shaped interceptor: the one closest to the target, which
// sees the response first.
//
// An empty list returns (nil, nil).
func Build(interceptors []Interceptor) (*Pipeline, error) {
	if len(interceptors) == 0 {
		return nil, nil
	}

	p := &Pipeline{
		nodes:         make([]node, len(interceptors)),
		requestEntry:  none,
		responseEntry: none,
	}

	var awaitingRequestError []int
	lastResponseError := none

	for i, ic := range interceptors {
		if !ic.Category.valid() {
			return nil, Errorf(CodeInvalidDescriptor, "interceptor %d (%s): unknown category %d", i, ic.Name, int(ic.Category)).
				WithDetail("index", i)
		}

		n := &p.nodes[i]
		*n = node{
			Interceptor:       ic.clone(),
			nextRequest:       none,
			nextRequestError:  none,
			nextResponse:      none,
			nextResponseError: none,
		}
		if i > 0 {
			p.nodes[i-1].nextRequest = i
			n.nextResponse = i - 1
		}

		switch ic.Category {
		case CategoryRequest:
			if p.requestEntry == none {
				p.requestEntry = i
			}
			awaitingRequestError = append(awaitingRequestError, i)
		case CategoryRequestError:
			for _, j := range awaitingRequestError {
				p.nodes[j].nextRequestError = i
			}
			awaitingRequestError = append(awaitingRequestError[:0], i)
		case CategoryResponse:
			p.responseEntry = i
			n.nextResponseError = lastResponseError
		case CategoryResponseError:
			p.responseEntry = i
			n.nextResponseError = lastResponseError
			lastResponseError = i
		}
	}

	return p, nil
}

// Len returns the number of interceptors in the pipeline.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.nodes)
}

// Interceptor returns a copy of the interceptor at position i.
func (p *Pipeline) Interceptor(i int) Interceptor {
	return p.nodes[i].Interceptor.clone()
}

// Links returns the links of the interceptor at position i.
func (p *Pipeline) Links(i int) Links {
	n := &p.nodes[i]
	return Links{
		NextRequest:       n.nextRequest,
		NextRequestError:  n.nextRequestError,
		NextResponse:      n.nextResponse,
		NextResponseError: n.nextResponseError,
	}
}

// RequestEntry returns the position of the first request interceptor, or -1.
func (p *Pipeline) RequestEntry() int {
	if p.empty() {
		return none
	}
	return p.requestEntry
}

// ResponseEntry returns the position of the last response-shaped
// interceptor, or -1.
func (p *Pipeline) ResponseEntry() int {
	if p.empty() {
		return none
	}
	return p.responseEntry
}

func (p *Pipeline) empty() bool {
	return p == nil || len(p.nodes) == 0
}

// Validate checks the chain invariants: request and response links join
// adjacent positions, error links point in the walk direction at a node of
// the matching error category, and the entry points have the right shape.
// Pipelines returned by Build always validate; the resolvers check anyway
// and refuse to walk a chain that does not.
func (p *Pipeline) Validate() error {
	if p.empty() {
		return nil
	}
	n := len(p.nodes)
	inRange := func(i int) bool { return i == none || (i >= 0 && i < n) }

	if !inRange(p.requestEntry) {
		return &MalformedChainError{Index: none, Reason: fmt.Sprintf("request entry %d out of range", p.requestEntry)}
	}
	if p.requestEntry != none && p.nodes[p.requestEntry].Category != CategoryRequest {
		return &MalformedChainError{Index: p.requestEntry, Reason: "request entry is " + p.nodes[p.requestEntry].Category.String()}
	}
	if !inRange(p.responseEntry) {
		return &MalformedChainError{Index: none, Reason: fmt.Sprintf("response entry %d out of range", p.responseEntry)}
	}
	if p.responseEntry != none && !p.nodes[p.responseEntry].Category.IsResponse() {
		return &MalformedChainError{Index: p.responseEntry, Reason: "response entry is " + p.nodes[p.responseEntry].Category.String()}
	}

	for i := range p.nodes {
		nd := &p.nodes[i]
		if !nd.Category.valid() {
			return &MalformedChainError{Index: i, Reason: fmt.Sprintf("unknown category %d", int(nd.Category))}
		}
		wantNext, wantPrev := i+1, i-1
		if i == n-1 {
			wantNext = none
		}
		if nd.nextRequest != wantNext {
			return &MalformedChainError{Index: i, Reason: fmt.Sprintf("request link %d, want %d", nd.nextRequest, wantNext)}
		}
		if nd.nextResponse != wantPrev {
			return &MalformedChainError{Index: i, Reason: fmt.Sprintf("response link %d, want %d", nd.nextResponse, wantPrev)}
		}
		if e := nd.nextRequestError; e != none {
			if !inRange(e) || e <= i || p.nodes[e].Category != CategoryRequestError {
				return &MalformedChainError{Index: i, Reason: fmt.Sprintf("request error link %d does not point forward at a request_error interceptor", e)}
			}
		}
		if e := nd.nextResponseError; e != none {
			if !inRange(e) || e >= i || p.nodes[e].Category != CategoryResponseError {
				return &MalformedChainError{Index: i, Reason: fmt.Sprintf("response error link %d does not point backward at a response_error interceptor", e)}
			}
		}
	}
	return nil
}
