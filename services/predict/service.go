package predict

import (
	"autocamp/lib/archive"
	"autocamp/lib/fasta"
	"autocamp/lib/notify"
	"autocamp/lib/report"
	"autocamp/lib/scrapers/camp"
	"autocamp/lib/telemetry"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrNoSequences = errors.New("input contains no sequences")

const (
	StageLoad    = "load"
	StageQuery   = "query"
	StageExtract = "extract"
	StageWrite   = "write"
	StageArchive = "archive"
	StageNotify  = "notify"
)

// StageError is a failure annotated with the pipeline stage it came from.
type StageError struct {
	Stage string
	Err   error
}

func (e StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err.Error())
}

func (e StageError) Unwrap() error {
	return e.Err
}

// Session is a browsing session that can run one prediction query.
// *camp.Client implements it.
type Session interface {
	Predict(ctx context.Context, query string) (string, error)
	Close() error
}

// Opener opens the session a run submits its query through.
type Opener func(ctx context.Context) (Session, error)

type Options struct {
	// Archive records every successful run when set.
	Archive *archive.Store
	Notify  notify.Config
	// Table receives a rendered table of the rows when set.
	Table io.Writer
	// BaseUrl is only recorded in the archive.
	BaseUrl string
}

type Service struct {
	open    Opener
	options Options
}

func NewService(open Opener, options Options) Service {
	return Service{open: open, options: options}
}

type Request struct {
	Input  string
	Output string
	Header report.HeaderStyle
}

type Result struct {
	Rows []report.Row
	// RunId is only set when the run was archived.
	RunId string
}

func fail(ctx context.Context, span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprintf("%s failed", stage))
	slog.ErrorContext(ctx, "prediction run failed", "stage", stage, "err", err)
	return StageError{Stage: stage, Err: err}
}

// Run loads the input, queries camp once for every sequence in it and
// writes one csv row per sequence. The session is released before Run
// returns whatever the outcome, and the output file is only created once
// every row has been extracted.
func (s Service) Run(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("input", req.Input), attribute.String("output", req.Output))

	startedAt := time.Now()

	records, err := fasta.Load(req.Input)
	if err != nil {
		return Result{}, fail(ctx, span, StageLoad, err)
	}
	if len(records) == 0 {
		return Result{}, fail(ctx, span, StageLoad, errors.Wrap(ErrNoSequences, req.Input))
	}
	slog.InfoContext(ctx, "loaded sequences", "input", req.Input, "count", len(records))

	session, err := s.open(ctx)
	if err != nil {
		return Result{}, fail(ctx, span, StageQuery, err)
	}
	defer func() {
		err := session.Close()
		if err != nil {
			slog.WarnContext(ctx, "failed to release camp session", "err", err)
		}
	}()

	text, err := s.query(ctx, session, records)
	if err != nil {
		return Result{}, fail(ctx, span, StageQuery, err)
	}

	results, err := camp.Extract(text, len(records))
	if err != nil {
		return Result{}, fail(ctx, span, StageExtract, err)
	}
	rows, err := report.Join(records, results)
	if err != nil {
		return Result{}, fail(ctx, span, StageExtract, err)
	}

	err = report.WriteCSV(req.Output, rows, req.Header)
	if err != nil {
		return Result{}, fail(ctx, span, StageWrite, err)
	}
	slog.InfoContext(ctx, "wrote predictions", "output", req.Output, "rows", len(rows))

	if s.options.Table != nil {
		report.RenderTable(s.options.Table, rows, req.Header)
	}

	result := Result{Rows: rows}
	if s.options.Archive != nil {
		result.RunId, err = s.options.Archive.Save(ctx, archive.Run{
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
			Input:      req.Input,
			Output:     req.Output,
			BaseUrl:    s.options.BaseUrl,
		}, rows)
		if err != nil {
			return result, fail(ctx, span, StageArchive, err)
		}
		slog.InfoContext(ctx, "archived run", "run_id", result.RunId)
	}

	if s.options.Notify.Enabled() {
		err = notify.Send(ctx, s.options.Notify, notify.Summary{
			Input:  req.Input,
			Output: req.Output,
			Rows:   rows,
		})
		if err != nil {
			return result, fail(ctx, span, StageNotify, err)
		}
		slog.InfoContext(ctx, "mailed predictions", "to", s.options.Notify.To)
	}

	telemetry.RecordProcessStats(ctx)
	return result, nil
}

func (s Service) query(ctx context.Context, session Session, records []fasta.Record) (string, error) {
	query := camp.FormatQuery(records)
	if query == "" {
		return "", camp.ErrEmptyQuery
	}

	sequencesCounter.Add(ctx, int64(len(records)))
	start := time.Now()
	text, err := session.Predict(ctx, query)
	queryDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	slog.DebugContext(ctx, "received camp response", "length", len(text), "seconds", time.Since(start).Seconds())
	return text, nil
}
