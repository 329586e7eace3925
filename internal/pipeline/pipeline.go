// Package pipeline runs the manifest address reset and the contracts-list
// publish over an ordered list of files.
//
// Both pipelines are sequential. Every file is read whole, transformed in
// memory and written back whole. An I/O error stops the run at once; files
// rewritten before it stay rewritten. Manifest drift (a missing table, a
// missing heading, an already reset entry) is logged and the file left alone,
// unless Strict is set, in which case the first drift stops the run too.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/Origin-Byte/nft-protocol/internal/metrics"
)

// Pipeline names, used as log fields and metric labels.
const (
	PipelineReset   = "reset"
	PipelinePublish = "publish"
)

// Options are shared by both pipelines.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Recorder

	// Strict turns drift into an error that stops the run.
	Strict bool

	// DryRun writes a unified diff of each change to DiffOut instead of
	// touching the file.
	DryRun  bool
	DiffOut io.Writer
}

// FileResult is what happened to one file.
type FileResult struct {
	Path    string
	Outcome string
	Changed bool  // content differs (written, or diffed in dry-run)
	Err     error // drift that left the file untouched; nil otherwise
}

// Report summarises a run.
type Report struct {
	RunID    string
	Pipeline string
	DryRun   bool
	Files    []FileResult
}

// Changed counts files whose content changed.
func (r *Report) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// Drifted returns the files that were left alone because of drift.
func (r *Report) Drifted() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// runner carries per-run state shared by the pipelines.
type runner struct {
	opts     Options
	log      *zap.Logger
	report   *Report
	started  time.Time
	pipeline string
}

func newRunner(pipeline string, opts Options) *runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DiffOut == nil {
		opts.DiffOut = io.Discard
	}
	runID := uuid.NewString()
	return &runner{
		opts:     opts,
		log:      opts.Logger.With(zap.String("pipeline", pipeline), zap.String("run_id", runID)),
		report:   &Report{RunID: runID, Pipeline: pipeline, DryRun: opts.DryRun},
		started:  time.Now(),
		pipeline: pipeline,
	}
}

// record appends a file result, counts it and reports drift. It returns an
// error only for drift in strict mode.
func (r *runner) record(fr FileResult) error {
	r.report.Files = append(r.report.Files, fr)
	r.opts.Metrics.RecordFile(r.pipeline, fr.Outcome)

	if fr.Err == nil {
		return nil
	}
	r.log.Warn("file left unchanged",
		zap.String("path", fr.Path),
		zap.String("outcome", fr.Outcome),
		zap.Error(fr.Err),
	)
	if r.opts.Strict {
		return fmt.Errorf("%s: %w", fr.Path, fr.Err)
	}
	return nil
}

// finish logs the summary and observes the run duration.
func (r *runner) finish(err error) {
	d := time.Since(r.started)
	r.opts.Metrics.ObserveRun(r.pipeline, d, err)
	if err != nil {
		r.log.Error("run failed", zap.Error(err), zap.Duration("took", d))
		return
	}
	r.log.Info("run complete",
		zap.Int("files", len(r.report.Files)),
		zap.Int("changed", r.report.Changed()),
		zap.Int("drifted", len(r.report.Drifted())),
		zap.Bool("dry_run", r.opts.DryRun),
		zap.Duration("took", d),
	)
}

// checkContext stops between files once ctx is done.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}

// commit writes updated to path, or its diff in dry-run mode. It reports
// whether the content changed.
func (r *runner) commit(path, original, updated string, mode fs.FileMode) (bool, error) {
	if original == updated {
		return false, nil
	}
	if r.opts.DryRun {
		if err := writeDiff(r.opts.DiffOut, path, original, updated); err != nil {
			return true, fmt.Errorf("diff %s: %w", path, err)
		}
		return true, nil
	}
	if err := os.WriteFile(path, []byte(updated), mode.Perm()); err != nil {
		return true, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// readFile returns the content and permission bits of path.
func readFile(path string) (string, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), info.Mode(), nil
}

func writeDiff(w io.Writer, path, original, updated string) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
