// Package report merges per-classifier predictions into rows and writes them out.
package report

import (
	"autocamp/lib/fasta"
	"autocamp/lib/scrapers/camp"
	"log/slog"

	"github.com/pkg/errors"
)

type Scored struct {
	Class       string
	Probability string
}

// Row is every classifier's verdict for one submitted sequence.
type Row struct {
	ID       string
	Residues string
	ANN      string
	SVM      Scored
	RF       Scored
	DA       Scored
}

// Values returns the row in output column order.
func (r Row) Values() []string {
	return []string{
		r.ID,
		r.ANN,
		r.SVM.Class, r.SVM.Probability,
		r.RF.Class, r.RF.Probability,
		r.DA.Class, r.DA.Probability,
	}
}

func scored(p camp.Prediction) Scored {
	return Scored{Class: p.Class, Probability: p.Probability}
}

// Join pairs the i-th prediction of every classifier with the i-th
// record. Every classifier must have exactly one prediction per record.
func Join(records []fasta.Record, results camp.Results) ([]Row, error) {
	for _, c := range camp.Classifiers {
		got := len(results.Get(c))
		if got != len(records) {
			return nil, errors.Wrapf(
				camp.ErrMalformedResponse,
				"%s reported %d predictions for %d sequences",
				c, got, len(records),
			)
		}
	}

	rows := make([]Row, len(records))
	for i, r := range records {
		ann := results.ANN[i]
		if ann.Label != "" && ann.Label != r.ID {
			slog.Warn(
				"ann label does not match sequence id",
				"index", i,
				"id", r.ID,
				"label", ann.Label,
			)
		}
		rows[i] = Row{
			ID:       r.ID,
			Residues: r.Residues,
			ANN:      ann.Class,
			SVM:      scored(results.SVM[i]),
			RF:       scored(results.RF[i]),
			DA:       scored(results.DA[i]),
		}
	}
	return rows, nil
}
