package tyflow

import (
	"errors"
	"testing"

	"github.com/broady/tyflow/ir"
	"github.com/google/go-cmp/cmp"
)

func ref(name string) ir.TypeDescriptor { return ir.Ref(name, "") }

func param(name string, in Location, typ string) Parameter {
	return Parameter{Name: name, In: in, Type: ir.MustParseType(typ)}
}

var never = ApplicabilityFunc(func(*Target) (bool, error) { return false, nil })

func mustBuild(t *testing.T, ics ...Interceptor) *Pipeline {
	t.Helper()
	p, err := Build(ics)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestBuild_Empty(t *testing.T) {
	p, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil pipeline, got %+v", p)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if p.RequestEntry() != -1 || p.ResponseEntry() != -1 {
		t.Errorf("entries = %d, %d; want -1, -1", p.RequestEntry(), p.ResponseEntry())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuild_Links(t *testing.T) {
	p := mustBuild(t,
		Interceptor{Name: "auth", Category: CategoryRequest},
		Interceptor{Name: "authErr", Category: CategoryRequestError},
		Interceptor{Name: "envelope", Category: CategoryResponse},
		Interceptor{Name: "bind", Category: CategoryRequest},
		Interceptor{Name: "problem", Category: CategoryResponseError},
		Interceptor{Name: "etag", Category: CategoryResponse},
	)

	want := []Links{
		{NextRequest: 1, NextRequestError: 1, NextResponse: -1, NextResponseError: -1},
		{NextRequest: 2, NextRequestError: -1, NextResponse: 0, NextResponseError: -1},
		{NextRequest: 3, NextRequestError: -1, NextResponse: 1, NextResponseError: -1},
		{NextRequest: 4, NextRequestError: -1, NextResponse: 2, NextResponseError: -1},
		{NextRequest: 5, NextRequestError: -1, NextResponse: 3, NextResponseError: -1},
		{NextRequest: -1, NextRequestError: -1, NextResponse: 4, NextResponseError: 4},
	}
	var got []Links
	for i := 0; i < p.Len(); i++ {
		got = append(got, p.Links(i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if p.RequestEntry() != 0 {
		t.Errorf("RequestEntry() = %d, want 0", p.RequestEntry())
	}
	if p.ResponseEntry() != 5 {
		t.Errorf("ResponseEntry() = %d, want 5", p.ResponseEntry())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuild_Entries(t *testing.T) {
	tests := []struct {
		name         string
		categories   []Category
		wantRequest  int
		wantResponse int
	}{
		{"single request", []Category{CategoryRequest}, 0, -1},
		{"single response", []Category{CategoryResponse}, -1, 0},
		{"response before request", []Category{CategoryResponse, CategoryRequest}, 1, 0},
		{"last response-shaped wins", []Category{CategoryResponse, CategoryRequest, CategoryResponseError}, 1, 2},
		{"request error is not an entry", []Category{CategoryRequestError, CategoryRequest}, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ics []Interceptor
			for _, c := range tt.categories {
				ics = append(ics, Interceptor{Category: c})
			}
			p := mustBuild(t, ics...)
			if got := p.RequestEntry(); got != tt.wantRequest {
				t.Errorf("RequestEntry() = %d, want %d", got, tt.wantRequest)
			}
			if got := p.ResponseEntry(); got != tt.wantResponse {
				t.Errorf("ResponseEntry() = %d, want %d", got, tt.wantResponse)
			}
		})
	}
}

func TestBuild_ErrorLinksSkipToNearestHandler(t *testing.T) {
	p := mustBuild(t,
		Interceptor{Category: CategoryRequest},
		Interceptor{Category: CategoryRequest},
		Interceptor{Category: CategoryRequestError},
		Interceptor{Category: CategoryRequestError},
	)
	for i, want := range []int{2, 2, 3, -1} {
		if got := p.Links(i).NextRequestError; got != want {
			t.Errorf("node %d: NextRequestError = %d, want %d", i, got, want)
		}
	}
}

func TestBuild_InvalidCategory(t *testing.T) {
	_, err := Build([]Interceptor{
		{Name: "ok", Category: CategoryRequest},
		{Name: "bad", Category: Category(9)},
	})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if e.Code != CodeInvalidDescriptor {
		t.Errorf("Code = %s, want %s", e.Code, CodeInvalidDescriptor)
	}
	if e.Details["index"] != 1 {
		t.Errorf("Details[index] = %v, want 1", e.Details["index"])
	}
}

func TestBuild_CopiesInput(t *testing.T) {
	ics := []Interceptor{{
		Name:       "auth",
		Category:   CategoryRequest,
		Parameters: []Parameter{param("token", InHeader, "string")},
	}}
	p := mustBuild(t, ics...)
	ics[0].Parameters[0].Name = "mutated"
	ics[0].Name = "mutated"

	got := p.Interceptor(0)
	if got.Name != "auth" || got.Parameters[0].Name != "token" {
		t.Errorf("pipeline observed caller mutation: %+v", got)
	}
}

func TestValidate_Malformed(t *testing.T) {
	build := func(t *testing.T) *Pipeline {
		return mustBuild(t,
			Interceptor{Category: CategoryRequest},
			Interceptor{Category: CategoryRequestError},
			Interceptor{Category: CategoryResponseError},
			Interceptor{Category: CategoryResponse},
		)
	}
	tests := []struct {
		name   string
		mutate func(p *Pipeline)
	}{
		{"request link loops", func(p *Pipeline) { p.nodes[1].nextRequest = 0 }},
		{"response link skips", func(p *Pipeline) { p.nodes[3].nextResponse = 1 }},
		{"request error link at request node", func(p *Pipeline) { p.nodes[1].nextRequestError = 0 }},
		{"request error link backward", func(p *Pipeline) { p.nodes[3].nextRequestError = 1 }},
		{"response error link forward", func(p *Pipeline) { p.nodes[0].nextResponseError = 2 }},
		{"response error link out of range", func(p *Pipeline) { p.nodes[3].nextResponseError = 7 }},
		{"request entry wrong category", func(p *Pipeline) { p.requestEntry = 1 }},
		{"response entry out of range", func(p *Pipeline) { p.responseEntry = 4 }},
		{"unknown category", func(p *Pipeline) { p.nodes[2].Category = Category(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := build(t)
			if err := p.Validate(); err != nil {
				t.Fatalf("built pipeline does not validate: %v", err)
			}
			tt.mutate(p)

			err := p.Validate()
			if !errors.Is(err, ErrMalformedChain) {
				t.Fatalf("Validate() = %v, want ErrMalformedChain", err)
			}
			target := &Target{Name: "op", ReturnType: ref("User")}
			if _, err := ResolveResponses(p, target); !errors.Is(err, ErrMalformedChain) {
				t.Errorf("ResolveResponses() error = %v, want ErrMalformedChain", err)
			}
			if _, err := ResolveParameters(p, target); !errors.Is(err, ErrMalformedChain) {
				t.Errorf("ResolveParameters() error = %v, want ErrMalformedChain", err)
			}
		})
	}
}

func TestWalk_DepthBound(t *testing.T) {
	p := mustBuild(t, Interceptor{Category: CategoryRequest})
	w, err := newWalk(p, &Target{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.enter(0, w.limit); err != nil {
		t.Errorf("enter at limit: %v", err)
	}
	err = w.enter(0, w.limit+1)
	var mc *MalformedChainError
	if !errors.As(err, &mc) {
		t.Fatalf("enter past limit = %v, want *MalformedChainError", err)
	}
	if mc.Index != 0 {
		t.Errorf("Index = %d, want 0", mc.Index)
	}
}

func TestNewWalk_NilTarget(t *testing.T) {
	_, err := ResolveResponses(nil, nil)
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeInvalidDescriptor {
		t.Errorf("expected invalid_descriptor error, got %v", err)
	}
}
