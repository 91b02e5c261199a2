package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/broady/tyflow/analyze"
	"github.com/broady/tyflow/manifest"
	"github.com/broady/tyflow/sink"
)

type Cmd struct {
	Manifests []string `arg:"" help:"Manifest files to analyze." type:"existingfile"`
	Out       string   `help:"Directory to write the report to. Standard output when empty." short:"o" type:"path"`
	Format    string   `help:"Report format (json, text)." enum:"json,text" default:"text"`
	Parallel  int      `help:"Operations resolved concurrently (0 = GOMAXPROCS)." short:"j" default:"0"`
	Strict    bool     `help:"Fail when any warning is reported."`

	Stdout io.Writer `kong:"-"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	decls, err := manifest.LoadAll(c.Manifests...)
	if err != nil {
		return err
	}

	a := &analyze.Analyzer{Logger: logger, Parallel: c.Parallel}
	r, err := a.Analyze(ctx, decls)
	if err != nil {
		return err
	}

	var s sink.OutputSink
	if c.Out != "" {
		s = sink.NewFilesystemSink(c.Out)
	} else {
		out := c.Stdout
		if out == nil {
			out = os.Stdout
		}
		s = sink.NewWriterSink(out)
	}
	if err := r.Emit(ctx, s, c.Format); err != nil {
		return err
	}

	if _, _, warnings := r.Counts(); c.Strict && warnings > 0 {
		return fmt.Errorf("%d warnings reported", warnings)
	}
	return nil
}
