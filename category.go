package tyflow

import "fmt"

// Category is the closed set of interceptor kinds. It is fixed when the
// interceptor is declared and decides which walk direction the interceptor
// takes part in.
type Category int

const (
	CategoryRequest       Category = iota // runs on inbound requests
	CategoryRequestError                  // handles errors raised on the request path
	CategoryResponse                      // runs on outbound responses
	CategoryResponseError                 // handles errors raised on the response path
)

// String returns the manifest spelling of the category.
func (c Category) String() string {
	switch c {
	case CategoryRequest:
		return "request"
	case CategoryRequestError:
		return "request_error"
	case CategoryResponse:
		return "response"
	case CategoryResponseError:
		return "response_error"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory parses the manifest spelling of a category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "request":
		return CategoryRequest, nil
	case "request_error":
		return CategoryRequestError, nil
	case "response":
		return CategoryResponse, nil
	case "response_error":
		return CategoryResponseError, nil
	default:
		return 0, fmt.Errorf("unknown interceptor category %q", s)
	}
}

// IsError reports whether the category handles errors.
func (c Category) IsError() bool {
	return c == CategoryRequestError || c == CategoryResponseError
}

// IsResponse reports whether the category is response-shaped.
func (c Category) IsResponse() bool {
	return c == CategoryResponse || c == CategoryResponseError
}

func (c Category) valid() bool {
	return c >= CategoryRequest && c <= CategoryResponseError
}
