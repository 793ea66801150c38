// Package archive keeps a history of prediction runs in sqlite.
package archive

import (
	"autocamp/lib/report"
	"autocamp/lib/telemetry"
	"context"
	"database/sql"
	"time"

	_ "embed"

	"github.com/mazen160/go-random"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

var tracer = telemetry.Tracer("autocamp.lib.archive")

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Input      string
	Output     string
	BaseUrl    string
	// Count is filled in by ListRuns only.
	Count int
}

type Store struct {
	db *sql.DB
}

// NewStore creates the archive tables if they do not exist yet.
func NewStore(ctx context.Context, db *sql.DB) (Store, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return Store{}, errors.Wrap(err, "create archive schema")
	}
	return Store{db: db}, nil
}

// Save records a finished run with its rows and returns the run's id.
func (s Store) Save(ctx context.Context, run Run, rows []report.Row) (string, error) {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	id, err := random.String(12)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate run id")
		return "", err
	}
	span.SetAttributes(attribute.String("run_id", id), attribute.Int("rows", len(rows)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`insert into run (id, started_at, finished_at, input, output, base_url) values (?, ?, ?, ?, ?, ?)`,
		id, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Input, run.Output, run.BaseUrl,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert run")
		return "", err
	}

	for i, r := range rows {
		_, err = tx.ExecContext(
			ctx,
			`insert into prediction (
				run_id, idx, sequence_id, residues, ann_class,
				svm_class, svm_probability, rf_class, rf_probability, da_class, da_probability
			) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, r.ID, r.Residues, r.ANN,
			r.SVM.Class, r.SVM.Probability,
			r.RF.Class, r.RF.Probability,
			r.DA.Class, r.DA.Probability,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert prediction")
			return "", err
		}
	}

	err = tx.Commit()
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns up to limit runs, most recent first.
func (s Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select r.id, r.started_at, r.finished_at, r.input, r.output, r.base_url, count(p.idx)
		from run r left join prediction p on p.run_id = r.id
		group by r.id
		order by r.started_at desc, r.id
		limit ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var started, finished int64
		err := rows.Scan(&run.ID, &started, &finished, &run.Input, &run.Output, &run.BaseUrl, &run.Count)
		if err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(started, 0)
		run.FinishedAt = time.Unix(finished, 0)
		out = append(out, run)
	}
	return out, rows.Err()
}

// Rows returns the rows saved for a run in their original order.
func (s Store) Rows(ctx context.Context, runId string) ([]report.Row, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select sequence_id, residues, ann_class,
			svm_class, svm_probability, rf_class, rf_probability, da_class, da_probability
		from prediction where run_id = ? order by idx`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.Row
	for rows.Next() {
		var r report.Row
		err := rows.Scan(
			&r.ID, &r.Residues, &r.ANN,
			&r.SVM.Class, &r.SVM.Probability,
			&r.RF.Class, &r.RF.Probability,
			&r.DA.Class, &r.DA.Probability,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
