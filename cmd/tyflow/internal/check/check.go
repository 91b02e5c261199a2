package check

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/tyflow"
	"github.com/broady/tyflow/manifest"
)

type Cmd struct {
	Manifests []string `arg:"" help:"Manifest files to check." type:"existingfile"`

	Stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}

	decls, err := manifest.LoadAll(c.Manifests...)
	if err != nil {
		return err
	}

	var interceptors, operations int
	for i := range decls {
		d := &decls[i]
		chain, err := d.Chain()
		if err != nil {
			return err
		}
		if _, err := d.Targets(); err != nil {
			return err
		}
		p, err := tyflow.Build(chain)
		if err != nil {
			return fmt.Errorf("declaration %s: %w", d.Name, err)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("declaration %s: %w", d.Name, err)
		}
		logger.Debug("built pipeline", "declaration", d.Name, "source", d.Source,
			"interceptors", p.Len(), "request_entry", p.RequestEntry(), "response_entry", p.ResponseEntry())
		interceptors += p.Len()
		operations += len(d.Operations)
	}

	fmt.Fprintf(out, "✓ %d declarations, %d interceptors, %d operations\n", len(decls), interceptors, operations)
	return nil
}
