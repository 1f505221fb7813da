package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
	"usydrc/internal/assert"
	"usydrc/internal/chrono"
	"usydrc/internal/telemetry"
	"usydrc/lib/results"
	"usydrc/lib/semester"
	"usydrc/lib/snapshot"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const Subject = "Exam results"

const (
	report_fetch   = "fetch"
	report_extract = "extract"
	report_notify  = "notify"
)

// Fetcher returns the markup of the results page.
type Fetcher interface {
	ResultsPage(ctx context.Context) (string, error)
}

// Notifier delivers the rendered snapshot when new results come out.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

type Options struct {
	// DryRun checks without touching the snapshot or notifying.
	DryRun bool
	// Notifier may be nil, in which case nothing is sent.
	Notifier Notifier
	// Clock defaults to chrono.StandardTime.
	Clock chrono.TimeAPI
}

type Checker struct {
	fetcher  Fetcher
	store    snapshot.Store
	parser   results.Parser
	notifier Notifier
	clock    chrono.TimeAPI
	dryRun   bool
	tel      telemetry.API
}

func NewChecker(fetcher Fetcher, store snapshot.Store, parser results.Parser, tel telemetry.API, options Options) Checker {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	clock := options.Clock
	if clock == nil {
		clock = chrono.NewStandardTime()
	}
	return Checker{
		fetcher:  fetcher,
		store:    store,
		parser:   parser,
		notifier: options.Notifier,
		clock:    clock,
		dryRun:   options.DryRun,
		tel:      telemetry.NewScopedAPI("checker", tel),
	}
}

// Period is the semester a run started now would look for.
func (c Checker) Period() semester.Period {
	return semester.Current(c.clock)
}

// Run performs a single check: fetch, extract, diff against the stored
// snapshot, save the merged records once and notify if anything is new.
//
// An unavailable or unrecognizable page is not an error, it is reported
// through the returned Report's status.
func (c Checker) Run(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	now := c.clock.Now()
	period := semester.Resolve(now)
	report := Report{Period: period}
	span.SetAttributes(
		attribute.Int("year", period.Year),
		attribute.Int("semester", period.Semester),
	)

	unlock, err := c.store.Lock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to lock snapshot")
		return report, err
	}
	defer unlock()

	markup, err := c.fetch(ctx)
	if err != nil {
		c.tel.ReportWarning(report_fetch, err)
		report.Status = StatusUnavailable
		return report, nil
	}

	baseline, err := c.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load snapshot")
		return report, err
	}
	report.Records = baseline

	fresh, err := c.parser.Extract(markup, period)
	if errors.Is(err, results.ErrNoPage) {
		c.tel.ReportWarning(report_extract, err, period.String())
		report.Status = StatusEmpty
		return report, c.save(ctx, baseline, false, now)
	}
	if errors.Is(err, results.ErrPageStructure) {
		c.tel.ReportWarning(report_extract, err, period.String())
		report.Status = StatusUnrecognized
		return report, c.save(ctx, baseline, false, now)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract results")
		return report, err
	}

	report.New = results.Diff(fresh, baseline)
	report.Records = results.Merge(baseline, report.New)
	hadNew := len(report.New) > 0
	if hadNew {
		report.Status = StatusNew
	}
	span.SetAttributes(attribute.Int("new", len(report.New)))

	err = c.save(ctx, report.Records, hadNew, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save snapshot")
		return report, err
	}

	if !hadNew || c.notifier == nil || c.dryRun {
		return report, nil
	}

	buf := bytes.Buffer{}
	err = snapshot.Encode(&buf, report.Records, hadNew, now)
	if err != nil {
		return report, err
	}
	err = c.notify(ctx, buf.String())
	if err != nil {
		c.tel.ReportBroken(report_notify, err)
		return report, fmt.Errorf("notify: %w", err)
	}
	report.Notified = true
	return report, nil
}

func (c Checker) fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()

	markup, err := c.fetcher.ResultsPage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results page")
		return "", err
	}
	return markup, nil
}

func (c Checker) save(ctx context.Context, records []results.Record, hadNew bool, checkedAt time.Time) error {
	if c.dryRun {
		c.tel.ReportDebug("dry run, snapshot left untouched", c.store.Path())
		return nil
	}
	return c.store.Save(ctx, records, hadNew, checkedAt)
}

func (c Checker) notify(ctx context.Context, body string) error {
	ctx, span := tracer.Start(ctx, "notify")
	defer span.End()

	err := c.notifier.Send(ctx, Subject, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send notification")
	}
	return err
}
