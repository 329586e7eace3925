package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/Origin-Byte/nft-protocol/internal/lines"
	"github.com/Origin-Byte/nft-protocol/internal/manifest"
)

// OutcomeAlreadyReset marks a manifest skipped because its first address
// entry already holds the placeholder.
const OutcomeAlreadyReset = "already_reset"

// Resetter resets the first address entry of each manifest.
type Resetter struct {
	opts  Options
	reset manifest.ResetOptions
	force bool
}

// NewResetter returns a Resetter. With force set, manifests that were
// already reset are reset again (commenting out the placeholder line).
func NewResetter(reset manifest.ResetOptions, force bool, opts Options) *Resetter {
	return &Resetter{opts: opts, reset: reset, force: force}
}

// Run resets every manifest in paths, in order.
func (r *Resetter) Run(ctx context.Context, paths []string) (report *Report, err error) {
	run := newRunner(PipelineReset, r.opts)
	defer func() { run.finish(err) }()

	for _, path := range paths {
		if err := checkContext(ctx); err != nil {
			return run.report, err
		}
		fr, err := r.resetFile(run, path)
		if err != nil {
			return run.report, err
		}
		if err := run.record(fr); err != nil {
			return run.report, err
		}
	}
	return run.report, nil
}

func (r *Resetter) resetFile(run *runner, path string) (FileResult, error) {
	src, mode, err := readFile(path)
	if err != nil {
		return FileResult{}, err
	}
	in := lines.Split(src)

	if st := manifest.InspectAddresses(in, r.reset); st.Placeholder {
		if !r.force {
			return FileResult{Path: path, Outcome: OutcomeAlreadyReset, Err: manifest.ErrAlreadyReset}, nil
		}
		run.log.Warn("resetting a manifest that was already reset",
			zap.String("path", path),
			zap.String("key", st.Key),
			zap.Int("line", st.Line),
		)
	}

	out, res := manifest.ResetAddresses(in, r.reset)
	fr := FileResult{Path: path, Outcome: res.Outcome.String(), Err: res.Err()}
	if fr.Err != nil {
		return fr, nil
	}

	fr.Changed, err = run.commit(path, src, lines.Join(out), mode)
	if err != nil {
		return fr, err
	}
	run.log.Info("address reset",
		zap.String("path", path),
		zap.String("key", res.Key),
		zap.String("previous", res.Previous),
		zap.Int("line", res.Line),
	)
	return fr, nil
}
