package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/highway-sim/highway-sim/sim/report"
)

// reporterOptions selects the snapshot consumers of a run. Empty values
// disable the corresponding reporter.
type reporterOptions struct {
	Print           bool
	NoColor         bool
	OutputDir       string
	ExportEvery     int64
	ExportFiles     int
	RPCAddr         string
	RPCTimeout      time.Duration
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	HistoryDB       string

	// Out receives the terminal view; nil means stdout.
	Out io.Writer
}

// buildReporters creates the enabled reporters. On error, the reporters
// already created are closed.
func buildReporters(ctx context.Context, opts reporterOptions, runID string) (reporters []report.Reporter, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(err, report.NewDispatcher(reporters...).Close())
			reporters = nil
		}
	}()

	if opts.Print {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		reporters = append(reporters, report.NewVisualizer(out, !opts.NoColor))
	}
	if opts.OutputDir != "" {
		e, err := report.NewFileExporter(opts.OutputDir, opts.ExportEvery, opts.ExportFiles)
		if err != nil {
			return reporters, err
		}
		reporters = append(reporters, e)
	}
	if opts.RPCAddr != "" {
		reporters = append(reporters, report.NewRPCReporter(nil, opts.RPCAddr, opts.RPCTimeout))
	}
	if opts.MongoURI != "" {
		m, err := report.NewMongoReporter(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection, runID)
		if err != nil {
			return reporters, err
		}
		reporters = append(reporters, m)
	}
	if opts.HistoryDB != "" {
		h, err := report.OpenHistory(opts.HistoryDB, runID)
		if err != nil {
			return reporters, err
		}
		reporters = append(reporters, h)
	}
	return reporters, nil
}
