package archive

import (
	"autocamp/lib/report"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store, err := NewStore(ctx, openMemory(t))
	if err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 0)

	rows := []report.Row{
		{
			ID:       "fasta",
			Residues: "KTLVLLSALVLLAFQALADPLPEATEEAKNEEQPGSEDQDVSIILGNPEGS",
			ANN:      "AMP",
			SVM:      report.Scored{Class: "AMP", Probability: "0.98"},
			RF:       report.Scored{Class: "AMP", Probability: "0.74"},
			DA:       report.Scored{Class: "NAMP", Probability: "0.35"},
		},
		{
			ID:       "magainin",
			Residues: "GIGKFLHSAKKFGKAFVGEIMNS",
			ANN:      "NAMP",
			SVM:      report.Scored{Class: "NAMP", Probability: "0.12"},
			RF:       report.Scored{Class: "NAMP", Probability: "0.3"},
			DA:       report.Scored{Class: "AMP", Probability: "0.91"},
		},
	}

	first := time.Unix(1_700_000_000, 0)
	firstId, err := store.Save(ctx, Run{
		StartedAt:  first,
		FinishedAt: first.Add(time.Second * 4),
		Input:      "sample_camp_query.fasta",
		Output:     "../Output/7qry.csv",
		BaseUrl:    "http://www.camp.bicnirrh.res.in",
	}, rows)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, firstId, 12)

	secondId, err := store.Save(ctx, Run{
		StartedAt:  first.Add(time.Hour),
		FinishedAt: first.Add(time.Hour + time.Second),
		Input:      "other.fasta",
		Output:     "other.csv",
	}, rows[:1])
	if err != nil {
		t.Fatal(err)
	}

	runs, err = store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 2)
	require.Equal(t, secondId, runs[0].ID)
	require.Equal(t, 1, runs[0].Count)
	require.Equal(t, firstId, runs[1].ID)
	require.Equal(t, 2, runs[1].Count)
	require.Equal(t, "sample_camp_query.fasta", runs[1].Input)
	require.Equal(t, first.Unix(), runs[1].StartedAt.Unix())

	saved, err := store.Rows(ctx, firstId)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(rows, saved); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	runs, err = store.ListRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 1)
}

func TestConfig(t *testing.T) {
	require.False(t, Config{}.Enabled())
	require.True(t, Config{File: "history.db"}.Enabled())

	_, err := Config{}.OpenDB()
	require.Error(t, err)
}
