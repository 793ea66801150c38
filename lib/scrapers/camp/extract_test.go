package camp

import (
	"autocamp/lib/scrapers/camp/camptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestExtractScored(t *testing.T) {
	section := Section{
		Classifier: SVM,
		Text:       "Results with SVM\nClass Probability Rank A 0.9| B 0.2|\n",
	}
	predictions, err := extractScored(section, 2)
	if err != nil {
		t.Fatal(err)
	}
	expected := []Prediction{
		{Class: "A", Probability: "0.9", HasProbability: true},
		{Class: "B", Probability: "0.2", HasProbability: true},
	}
	if diff := cmp.Diff(expected, predictions); diff != "" {
		t.Fatalf("predictions mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractScoredStopsAtSecondHeader(t *testing.T) {
	section := Section{
		Classifier: RF,
		Text:       "Class Probability Rank AMP 0.5% Probability legend: x y z",
	}
	predictions, err := extractScored(section, 1)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []Prediction{{Class: "AMP", Probability: "0.5", HasProbability: true}}, predictions)
}

func TestExtractClassOnly(t *testing.T) {
	section := Section{
		Classifier: ANN,
		Text:       "Results with ANN classifier\nSeq. ID.\nClass\nfasta AMP\nother NAMP\n",
	}
	predictions, err := extractClassOnly(section, 2)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []Prediction{
		{Label: "fasta", Class: "AMP"},
		{Label: "other", Class: "NAMP"},
	}, predictions)
}

func TestExtractMalformedSections(t *testing.T) {
	testCases := []struct {
		name    string
		section Section
		n       int
	}{
		{
			name:    "odd tokens",
			section: Section{Classifier: SVM, Text: "Probability Rank AMP 0.9* NAMP"},
			n:       1,
		},
		{
			name:    "too few predictions",
			section: Section{Classifier: DA, Text: "Probability Rank AMP 0.9*\n\n"},
			n:       2,
		},
		{
			name:    "too many predictions",
			section: Section{Classifier: RF, Text: "Probability Rank AMP 0.9* AMP 0.8*"},
			n:       1,
		},
		{
			name:    "missing probability header",
			section: Section{Classifier: SVM, Text: "Results with SVM AMP 0.9*"},
			n:       1,
		},
		{
			name:    "missing class header",
			section: Section{Classifier: ANN, Text: "Results with ANN classifier fasta AMP"},
			n:       1,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var err error
			if test.section.Classifier.HasProbability() {
				_, err = extractScored(test.section, test.n)
			} else {
				_, err = extractClassOnly(test.section, test.n)
			}
			require.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestExtract(t *testing.T) {
	rows := []camptest.Row{
		oneRow[0],
		{
			ID:  "magainin",
			SVM: camptest.Scored{Class: "NAMP", Probability: "0.12"},
			RF:  camptest.Scored{Class: "NAMP", Probability: "0.3"},
			ANN: "NAMP",
			DA:  camptest.Scored{Class: "AMP", Probability: "0.91"},
		},
	}

	results, err := Extract(camptest.ResultText(rows), len(rows))
	if err != nil {
		t.Fatal(err)
	}

	expected := Results{
		SVM: []Prediction{
			{Class: "AMP", Probability: "0.987", HasProbability: true},
			{Class: "NAMP", Probability: "0.12", HasProbability: true},
		},
		RF: []Prediction{
			{Class: "AMP", Probability: "0.7465", HasProbability: true},
			{Class: "NAMP", Probability: "0.3", HasProbability: true},
		},
		ANN: []Prediction{
			{Label: "fasta", Class: "AMP"},
			{Label: "magainin", Class: "NAMP"},
		},
		DA: []Prediction{
			{Class: "NAMP", Probability: "0.356", HasProbability: true},
			{Class: "AMP", Probability: "0.91", HasProbability: true},
		},
	}
	if diff := cmp.Diff(expected, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	for _, c := range Classifiers {
		require.Len(t, results.Get(c), 2)
	}

	_, err = Extract(camptest.ResultText(rows), 3)
	require.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
}
