package manifest

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/broady/tyflow"
	"github.com/broady/tyflow/applicability"
	"github.com/broady/tyflow/ir"
)

var validate = newValidator()

var httpMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "OPTIONS": true, "TRACE": true, "CONNECT": true,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("typeexpr", func(fl validator.FieldLevel) bool {
		_, err := ir.ParseType(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return httpMethods[strings.ToUpper(fl.Field().String())]
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks field constraints, then the rules tags cannot express:
// unique names, and applicability expressions that compile.
func (f *File) Validate() error {
	issues := make(map[string]string)

	if err := validate.Struct(f); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return tyflow.NewError(tyflow.CodeInvalidManifest, err.Error())
		}
		for _, ve := range valErrs {
			issues[fieldPath(ve.Namespace())] = formatValidationError(ve)
		}
	}

	declNames := make(map[string]bool)
	for i, d := range f.Declarations {
		prefix := fmt.Sprintf("declarations[%d]", i)
		if d.Name != "" {
			if declNames[d.Name] {
				issues[prefix+".name"] = fmt.Sprintf("duplicate declaration %q", d.Name)
			}
			declNames[d.Name] = true
		}
		icNames := make(map[string]bool)
		for j, ic := range d.Interceptors {
			p := fmt.Sprintf("%s.interceptors[%d]", prefix, j)
			if ic.Name != "" {
				if icNames[ic.Name] {
					issues[p+".name"] = fmt.Sprintf("duplicate interceptor %q", ic.Name)
				}
				icNames[ic.Name] = true
			}
			if ic.When != "" {
				if _, err := applicability.NewCEL(ic.When); err != nil {
					issues[p+".when"] = err.Error()
				}
			}
			if ic.Match != "" {
				if _, err := applicability.ParseSelector(ic.Match); err != nil {
					issues[p+".match"] = err.Error()
				}
			}
		}
		opNames := make(map[string]bool)
		for j, op := range d.Operations {
			if op.Name == "" {
				continue
			}
			if opNames[op.Name] {
				issues[fmt.Sprintf("%s.operations[%d].name", prefix, j)] = fmt.Sprintf("duplicate operation %q", op.Name)
			}
			opNames[op.Name] = true
		}
	}

	if len(issues) == 0 {
		return nil
	}
	fields := make([]string, 0, len(issues))
	for field := range issues {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make(map[string]any, len(issues))
	messages := make([]string, 0, len(issues))
	for _, field := range fields {
		details[field] = issues[field]
		messages = append(messages, field+": "+issues[field])
	}
	return &tyflow.Error{
		Code:    tyflow.CodeInvalidManifest,
		Message: strings.Join(messages, "; "),
		Details: details,
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "required_if":
		field, _, _ := strings.Cut(ve.Param(), " ")
		return "required when " + lowerFirst(field) + " is set"
	case "min":
		if ve.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", ve.Param())
	case "typeexpr":
		if _, err := ir.ParseType(fmt.Sprint(ve.Value())); err != nil {
			return "invalid type expression: " + err.Error()
		}
		return "invalid type expression"
	case "httpmethod":
		return fmt.Sprintf("%q is not an HTTP method", ve.Value())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
