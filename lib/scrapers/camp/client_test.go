package camp

import (
	"autocamp/lib/scrapers/camp/camptest"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testQuery = ">fasta\nKTLVLLSALVLLAFQALADPLPEATEEAKNEEQPGSEDQDVSIILGNPEGS\n"

func newTestClient(t *testing.T, baseUrl string, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: baseUrl,
		Timeout: timeout,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPredict(t *testing.T) {
	server := camptest.NewServer(oneRow)
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	text, err := client.Predict(context.Background(), testQuery)
	if err != nil {
		t.Fatal(err)
	}

	submissions := server.Submissions()
	require.Len(t, submissions, 1)
	form := submissions[0]
	require.Equal(t, testQuery, form.Get("S1"))
	require.Equal(t, []string{"svm", "rf", "ann", "da"}, form["algo"])
	require.Equal(t, "on", form.Get("checkall"))
	require.Equal(t, "Submit", form.Get("B1"))
	require.Equal(t, "seq", form.Get("mode"))
	require.Equal(t, "html", form.Get("format"))
	require.False(t, form.Has("B2"))

	require.NotContains(t, text, "<td>")
	results, err := Extract(text, 1)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "AMP", results.SVM[0].Class)
	require.Equal(t, "0.987", results.SVM[0].Probability)
	require.Equal(t, "fasta", results.ANN[0].Label)
	require.Equal(t, "0.356", results.DA[0].Probability)
}

func TestPredictMissingElements(t *testing.T) {
	testCases := []struct {
		name    string
		replace string
	}{
		{name: "sequence field", replace: `name="S1"`},
		{name: "check all", replace: `name="checkall"`},
		{name: "submit", replace: `name="B1"`},
		{name: "form", replace: `<form name="predict" method="post" action="result.php">`},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			server := camptest.NewServer(oneRow)
			defer server.Close()
			server.FormHTML = strings.Replace(camptest.FormPage, test.replace, `data-removed="true"`, 1)

			client := newTestClient(t, server.URL, 0)
			_, err := client.Predict(context.Background(), testQuery)
			require.True(t, errors.Is(err, ErrElementNotFound), "got %v", err)
			require.Len(t, server.Submissions(), 0)
		})
	}
}

func TestPredictTimeout(t *testing.T) {
	server := camptest.NewServer(oneRow)
	defer server.Close()
	server.Delay = 5 * time.Second

	client := newTestClient(t, server.URL, 200*time.Millisecond)
	start := time.Now()
	_, err := client.Predict(context.Background(), testQuery)
	require.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestPredictNavigation(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	client := newTestClient(t, broken.URL, 0)
	_, err := client.Predict(context.Background(), testQuery)
	require.True(t, errors.Is(err, ErrNavigation), "got %v", err)

	unreachable := httptest.NewServer(http.NotFoundHandler())
	unreachable.Close()

	client = newTestClient(t, unreachable.URL, 0)
	_, err = client.Predict(context.Background(), testQuery)
	require.True(t, errors.Is(err, ErrNavigation), "got %v", err)
}

func TestClientClose(t *testing.T) {
	server := camptest.NewServer(oneRow)
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.Predict(context.Background(), "  \n")
	require.True(t, errors.Is(err, ErrEmptyQuery), "got %v", err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err = client.Predict(context.Background(), testQuery)
	require.True(t, errors.Is(err, ErrSessionClosed), "got %v", err)
	require.Len(t, server.Submissions(), 0)
}
