package tyflow

import "testing"

func TestCategory(t *testing.T) {
	tests := []struct {
		c          Category
		s          string
		isError    bool
		isResponse bool
	}{
		{CategoryRequest, "request", false, false},
		{CategoryRequestError, "request_error", true, false},
		{CategoryResponse, "response", false, true},
		{CategoryResponseError, "response_error", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := tt.c.String(); got != tt.s {
				t.Errorf("String() = %q, want %q", got, tt.s)
			}
			parsed, err := ParseCategory(tt.s)
			if err != nil || parsed != tt.c {
				t.Errorf("ParseCategory(%q) = %v, %v", tt.s, parsed, err)
			}
			if tt.c.IsError() != tt.isError {
				t.Errorf("IsError() = %v", tt.c.IsError())
			}
			if tt.c.IsResponse() != tt.isResponse {
				t.Errorf("IsResponse() = %v", tt.c.IsResponse())
			}
		})
	}

	if _, err := ParseCategory("middleware"); err == nil {
		t.Error("expected error for unknown category")
	}
	if got := Category(7).String(); got != "Category(7)" {
		t.Errorf("String() = %q", got)
	}
}
