// Package analyze runs chain analysis over loaded manifests: one pipeline per
// declaration, resolved against each of its operations.
package analyze

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/broady/tyflow"
	"github.com/broady/tyflow/ir"
	"github.com/broady/tyflow/manifest"
)

// Analyzer resolves declarations. The zero value is ready to use.
type Analyzer struct {
	// Logger receives per-operation debug records and one warning record
	// per diagnostic. Nil discards.
	Logger *slog.Logger

	// Parallel bounds concurrent operation resolution.
	// Zero or negative means GOMAXPROCS.
	Parallel int
}

type job struct {
	decl, op int
	pipeline *tyflow.Pipeline
	target   *tyflow.Target
}

// Analyze builds each declaration's pipeline, then resolves parameters and
// responses for every operation. Pipelines are built before any resolution
// starts and are shared read-only by the workers.
//
// A declaration that fails to convert or build, or a malformed chain, stops
// the analysis. Non-fatal conditions become warnings on the operation.
func (a *Analyzer) Analyze(ctx context.Context, decls []manifest.Declaration) (*Report, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	parallel := a.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	report := &Report{Declarations: make([]DeclarationReport, len(decls))}
	var jobs []job
	for i := range decls {
		d := &decls[i]
		chain, err := d.Chain()
		if err != nil {
			return nil, err
		}
		targets, err := d.Targets()
		if err != nil {
			return nil, err
		}
		p, err := tyflow.Build(chain)
		if err != nil {
			return nil, fmt.Errorf("declaration %s: %w", d.Name, err)
		}
		report.Declarations[i] = DeclarationReport{
			Name:         d.Name,
			Source:       d.Source,
			Interceptors: p.Len(),
			Operations:   make([]OperationReport, len(targets)),
		}
		for j, t := range targets {
			jobs = append(jobs, job{decl: i, op: j, pipeline: p, target: t})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, jb := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decl := decls[jb.decl].Name
			op, err := resolve(jb.pipeline, jb.target)
			if err != nil {
				return fmt.Errorf("declaration %s: operation %s: %w", decl, jb.target.Name, err)
			}
			logger.Debug("resolved operation",
				"declaration", decl,
				"operation", op.Name,
				"parameters", len(op.Signature),
				"responses", len(op.Responses))
			for _, w := range op.Warnings {
				logger.Warn(w.Message, "code", w.Code, "subject", w.Subject, "declaration", decl, "operation", op.Name)
			}
			report.Declarations[jb.decl].Operations[jb.op] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	decl, ops, warnings := report.Counts()
	logger.Info("analysis complete", "declarations", decl, "operations", ops, "warnings", warnings)
	return report, nil
}

func resolve(p *tyflow.Pipeline, t *tyflow.Target) (OperationReport, error) {
	params, err := tyflow.ResolveParameters(p, t)
	if err != nil {
		return OperationReport{}, err
	}
	responses, err := tyflow.ResolveResponses(p, t)
	if err != nil {
		return OperationReport{}, err
	}

	// The operation's own inputs come first; interceptor inputs that
	// collide with them lose.
	sig := tyflow.NewParameterSet()
	origins := make(map[string]string)
	for _, prm := range t.Parameters {
		sig.Add(prm, "operation "+t.Name)
		origins[prm.Name] = "target"
	}
	for _, prm := range params.Parameters() {
		sig.Add(prm, "interceptors")
		if _, ok := origins[prm.Name]; !ok {
			origins[prm.Name] = "interceptor"
		}
	}

	op := OperationReport{
		Name:                 t.Name,
		Method:               t.Method,
		Path:                 t.Path,
		ReturnType:           ir.Format(responses.Union()),
		BindingErrorPossible: responses.BindingErrorPossible,
		BindingErrorHandled:  responses.BindingErrorHandled,
	}
	for _, prm := range sig.Parameters() {
		op.Signature = append(op.Signature, ParameterReport{
			Name:     prm.Name,
			In:       string(prm.In),
			Type:     ir.Format(prm.Type),
			Optional: prm.Optional,
			Source:   origins[prm.Name],
		})
	}
	for _, rt := range responses.Types() {
		op.Responses = append(op.Responses, ResponseReport{
			Type:       ir.Format(rt.Type),
			Descriptor: rt.Type,
			Origin:     rt.Origin.String(),
			Error:      rt.Error,
		})
	}

	var warnings []ir.Warning
	warnings = append(warnings, params.Warnings...)
	warnings = append(warnings, sig.Warnings...)
	warnings = append(warnings, responses.Warnings...)
	if responses.UnhandledBindingError() {
		warnings = append(warnings, ir.Warning{
			Code:    ir.WarnUnhandledBindingError,
			Message: "payload binding can fail and no error interceptor handles it",
			Subject: t.Name,
		})
	}
	op.Warnings = dedupe(warnings)
	return op, nil
}

// dedupe drops repeated warnings; both resolvers evaluate applicability and
// report the same undecidable interceptor.
func dedupe(ws []ir.Warning) []ir.Warning {
	var out []ir.Warning
	seen := make(map[ir.Warning]bool)
	for _, w := range ws {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
