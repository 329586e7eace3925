package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Origin-Byte/nft-protocol/internal/lines"
	"github.com/Origin-Byte/nft-protocol/internal/manifest"
	"github.com/Origin-Byte/nft-protocol/internal/readme"
	"github.com/Origin-Byte/nft-protocol/pkg/explorer"
)

// Publish outcomes.
const (
	OutcomeExtracted        = "extracted"
	OutcomeUnpublished      = "unpublished"
	OutcomeSpliced          = "spliced"
	OutcomeNoSection        = "no_section"
	OutcomeDuplicateSection = "duplicate_section"
)

// PublishOptions describes the generated section.
type PublishOptions struct {
	Heading  string
	Label    string
	Explorer explorer.Template
}

// Publisher regenerates the contracts section of a Markdown document from
// the package manifests.
type Publisher struct {
	opts    Options
	publish PublishOptions
}

// NewPublisher returns a Publisher.
func NewPublisher(publish PublishOptions, opts Options) *Publisher {
	return &Publisher{opts: opts, publish: publish}
}

// PublishReport is a Report plus the contracts that were listed.
type PublishReport struct {
	Report
	Contracts []manifest.Contract
}

// Collect extracts the contracts of every manifest in paths, in order.
func (p *Publisher) Collect(ctx context.Context, paths []string) (contracts []manifest.Contract, err error) {
	run := newRunner(PipelinePublish, p.opts)
	defer func() { run.finish(err) }()
	return p.collect(ctx, run, paths)
}

func (p *Publisher) collect(ctx context.Context, run *runner, paths []string) ([]manifest.Contract, error) {
	var all []manifest.Contract
	for _, path := range paths {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		src, _, err := readFile(path)
		if err != nil {
			return nil, err
		}
		found, err := manifest.ExtractContracts(lines.Split(src))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		outcome := OutcomeExtracted
		if len(found) == 0 {
			outcome = OutcomeUnpublished
			run.log.Info("no published package", zap.String("path", path))
		}
		for _, c := range found {
			run.log.Debug("contract",
				zap.String("path", path),
				zap.String("package", c.Package),
				zap.String("published_at", c.PublishedAt),
			)
		}
		if err := run.record(FileResult{Path: path, Outcome: outcome}); err != nil {
			return nil, err
		}
		all = append(all, found...)
	}
	return all, nil
}

// Run extracts contracts from manifests and splices them into the managed
// section of readmePath.
func (p *Publisher) Run(ctx context.Context, manifests []string, readmePath string) (report *PublishReport, err error) {
	run := newRunner(PipelinePublish, p.opts)
	defer func() { run.finish(err) }()

	report = &PublishReport{}
	defer func() { report.Report = *run.report }()

	contracts, err := p.collect(ctx, run, manifests)
	if err != nil {
		return report, err
	}
	report.Contracts = contracts

	if err := checkContext(ctx); err != nil {
		return report, err
	}
	fr, err := p.spliceReadme(run, readmePath, contracts)
	if err != nil {
		return report, err
	}
	if err := run.record(fr); err != nil {
		return report, err
	}
	if fr.Outcome != OutcomeNoSection {
		p.opts.Metrics.SetContracts(len(contracts))
	}
	return report, nil
}

// Entries turns contracts into list entries linking to the explorer.
func (p *Publisher) Entries(contracts []manifest.Contract) []readme.Entry {
	entries := make([]readme.Entry, 0, len(contracts))
	for _, c := range contracts {
		entries = append(entries, readme.Entry{
			Name: c.Package,
			URL:  p.publish.Explorer.ObjectURL(c.PublishedAt),
		})
	}
	return entries
}

func (p *Publisher) spliceReadme(run *runner, path string, contracts []manifest.Contract) (FileResult, error) {
	src, mode, err := readFile(path)
	if err != nil {
		return FileResult{}, err
	}

	out, res := readme.Splice(lines.Split(src), readme.Section{
		Heading: p.publish.Heading,
		Label:   p.publish.Label,
		Entries: p.Entries(contracts),
	})

	fr := FileResult{Path: path, Outcome: OutcomeSpliced}
	switch drift := res.Err(); {
	case errors.Is(drift, readme.ErrNoSection):
		fr.Outcome, fr.Err = OutcomeNoSection, drift
		return fr, nil
	case errors.Is(drift, readme.ErrDuplicateSection):
		if p.opts.Strict {
			fr.Outcome, fr.Err = OutcomeDuplicateSection, drift
			return fr, nil
		}
		// Only the first section is regenerated; the rest stays as text.
		run.log.Warn("duplicate managed section",
			zap.String("path", path),
			zap.Int("duplicates", res.Duplicates),
		)
	}

	fr.Changed, err = run.commit(path, src, lines.Join(out), mode)
	if err != nil {
		return fr, err
	}
	run.log.Info("contracts section regenerated",
		zap.String("path", path),
		zap.Int("contracts", len(contracts)),
		zap.Int("removed_lines", res.Removed),
		zap.Bool("changed", fr.Changed),
	)
	return fr, nil
}
