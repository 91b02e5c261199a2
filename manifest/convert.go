package manifest

import (
	"fmt"

	"github.com/broady/tyflow"
	"github.com/broady/tyflow/applicability"
	"github.com/broady/tyflow/ir"
)

// Chain converts the declaration's interceptors to core descriptors,
// in declaration order, compiling their applicability predicates.
func (d *Declaration) Chain() ([]tyflow.Interceptor, error) {
	out := make([]tyflow.Interceptor, 0, len(d.Interceptors))
	for i, ic := range d.Interceptors {
		c, err := ic.convert()
		if err != nil {
			return nil, fmt.Errorf("declaration %s: interceptor %d (%s): %w", d.Name, i, ic.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Targets converts the declaration's operations to core targets.
func (d *Declaration) Targets() ([]*tyflow.Target, error) {
	out := make([]*tyflow.Target, 0, len(d.Operations))
	for _, op := range d.Operations {
		t, err := op.convert()
		if err != nil {
			return nil, fmt.Errorf("declaration %s: operation %s: %w", d.Name, op.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (ic *Interceptor) convert() (tyflow.Interceptor, error) {
	category, err := tyflow.ParseCategory(ic.Category)
	if err != nil {
		return tyflow.Interceptor{}, err
	}
	params, err := convertParameters(ic.Parameters)
	if err != nil {
		return tyflow.Interceptor{}, err
	}
	returns, err := parseOptional(ic.Returns)
	if err != nil {
		return tyflow.Interceptor{}, err
	}
	errType, err := parseOptional(ic.ErrorType)
	if err != nil {
		return tyflow.Interceptor{}, err
	}

	var preds []tyflow.Applicability
	if ic.When != "" {
		c, err := applicability.NewCEL(ic.When)
		if err != nil {
			return tyflow.Interceptor{}, fmt.Errorf("when: %w", err)
		}
		preds = append(preds, c)
	}
	if ic.Match != "" {
		s, err := applicability.ParseSelector(ic.Match)
		if err != nil {
			return tyflow.Interceptor{}, fmt.Errorf("match: %w", err)
		}
		preds = append(preds, s)
	}

	return tyflow.Interceptor{
		Name:          ic.Name,
		Category:      category,
		Forwards:      ic.Forwards,
		Parameters:    params,
		ReturnType:    returns,
		ErrorReturn:   ic.ErrorReturn,
		ErrorType:     errType,
		DataBinding:   ic.DataBinding,
		Applicability: applicability.All(preds...),
	}, nil
}

func (op *Operation) convert() (*tyflow.Target, error) {
	params, err := convertParameters(op.Parameters)
	if err != nil {
		return nil, err
	}
	returns, err := parseOptional(op.Returns)
	if err != nil {
		return nil, err
	}
	errType, err := parseOptional(op.ErrorType)
	if err != nil {
		return nil, err
	}
	return &tyflow.Target{
		Name:        op.Name,
		Method:      op.Method,
		Path:        op.Path,
		Parameters:  params,
		ReturnType:  returns,
		ErrorReturn: op.ErrorReturn,
		ErrorType:   errType,
		DataBinding: op.DataBinding,
	}, nil
}

func convertParameters(in []Parameter) ([]tyflow.Parameter, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]tyflow.Parameter, 0, len(in))
	for _, p := range in {
		t, err := ir.ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		out = append(out, tyflow.Parameter{
			Name:     p.Name,
			In:       tyflow.Location(p.In),
			Type:     t,
			Optional: p.Optional,
		})
	}
	return out, nil
}

func parseOptional(expr string) (ir.TypeDescriptor, error) {
	if expr == "" {
		return nil, nil
	}
	return ir.ParseType(expr)
}
