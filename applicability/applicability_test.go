package applicability

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/tyflow"
)

var (
	getUser    = &tyflow.Target{Name: "getUser", Method: "GET", Path: "/users/{id}"}
	createUser = &tyflow.Target{Name: "createUser", Method: "POST", Path: "/users"}
	adminStats = &tyflow.Target{Name: "stats", Method: "GET", Path: "/admin/stats"}
)

func TestCEL(t *testing.T) {
	tests := []struct {
		expr   string
		target *tyflow.Target
		want   bool
	}{
		{`method == "GET"`, getUser, true},
		{`method == "GET"`, createUser, false},
		{`method in ["POST", "PUT"]`, createUser, true},
		{`path.startsWith("/admin/")`, adminStats, true},
		{`path.startsWith("/admin/")`, getUser, false},
		{`operation.lowerAscii().contains("user")`, createUser, true},
		{`path.split("/").size() > 2 && method != "POST"`, getUser, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			c, err := NewCEL(tt.expr)
			if err != nil {
				t.Fatalf("NewCEL: %v", err)
			}
			got, err := c.Applies(tt.target)
			if err != nil {
				t.Fatalf("Applies: %v", err)
			}
			if got != tt.want {
				t.Errorf("Applies(%s) = %v, want %v", tt.target.Name, got, tt.want)
			}
		})
	}
}

func TestCEL_CompileErrors(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr string
	}{
		{`method ==`, "cel compile"},
		{`tenant == "acme"`, "undeclared reference"},
		{`path.size()`, "yields int, want bool"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := NewCEL(tt.expr)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewCEL(%q) error = %v, want containing %q", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestCEL_EvalError(t *testing.T) {
	c, err := NewCEL(`path.split("/")[9] == "x"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Applies(getUser); err == nil {
		t.Error("expected evaluation error for out-of-range index")
	}
	if c.String() != `path.split("/")[9] == "x"` {
		t.Errorf("String() = %q", c.String())
	}
}

func TestSelector(t *testing.T) {
	tests := []struct {
		form   string
		target *tyflow.Target
		want   bool
	}{
		{"", getUser, true},
		{"method=get", getUser, true},
		{"method=GET&method=HEAD", createUser, false},
		{"path=/users/*", getUser, true},
		{"path=/users/*", createUser, false},
		{"path=/users&path=/users/*", createUser, true},
		{"method=GET&path=/admin/*", adminStats, true},
		{"method=POST&path=/admin/*", adminStats, false},
		{"operation=stats", adminStats, true},
		{"operation=stats", getUser, false},
	}
	for _, tt := range tests {
		t.Run(tt.form+" "+tt.target.Name, func(t *testing.T) {
			s, err := ParseSelector(tt.form)
			if err != nil {
				t.Fatalf("ParseSelector: %v", err)
			}
			got, err := s.Applies(tt.target)
			if err != nil {
				t.Fatalf("Applies: %v", err)
			}
			if got != tt.want {
				t.Errorf("Applies = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSelector(t *testing.T) {
	s, err := ParseSelector("method=GET&path=/a/*&method=PUT")
	if err != nil {
		t.Fatal(err)
	}
	want := &Selector{Methods: []string{"GET", "PUT"}, Paths: []string{"/a/*"}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("selector mismatch (-want +got):\n%s", diff)
	}

	again, err := ParseSelector(s.String())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, again); diff != "" {
		t.Errorf("String() does not round-trip (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"verb=GET", "path=/users/[", "method=%zz"} {
		if _, err := ParseSelector(bad); err == nil {
			t.Errorf("ParseSelector(%q) should fail", bad)
		}
	}
}

func TestAll(t *testing.T) {
	yes := Func(func(*tyflow.Target) bool { return true })
	no := Func(func(*tyflow.Target) bool { return false })
	undecidable := tyflow.ApplicabilityFunc(func(*tyflow.Target) (bool, error) {
		return false, errors.New("unknown")
	})

	if All() != nil || All(nil, nil) != nil {
		t.Error("All of nothing should be nil")
	}

	tests := []struct {
		name    string
		preds   []tyflow.Applicability
		want    bool
		wantErr bool
	}{
		{"single", []tyflow.Applicability{yes}, true, false},
		{"all true", []tyflow.Applicability{yes, yes}, true, false},
		{"one false", []tyflow.Applicability{yes, no}, false, false},
		{"false beats error", []tyflow.Applicability{undecidable, no}, false, false},
		{"error with true", []tyflow.Applicability{yes, undecidable}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := All(tt.preds...).Applies(getUser)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Applies = %v, want %v", got, tt.want)
			}
		})
	}
}
