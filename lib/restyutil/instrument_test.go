package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id, contents string) {
	m[id] = contents
}

func TestDumpExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello from " + r.URL.Path))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New().SetBaseURL(server.URL)
	DumpExchanges(client, "camp", out)

	_, err := client.R().SetFormData(map[string]string{"S1": ">a\nKLV"}).Post("/predict/")
	if err != nil {
		t.Fatal(err)
	}

	require.Len(t, out, 1)
	dump := out["camp-001"]
	require.Contains(t, dump, "POST "+server.URL+"/predict/")
	require.Contains(t, dump, "200 ")
	require.True(t, strings.HasSuffix(dump, "hello from /predict/"))
}

func TestDirOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewDirOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	out.Write("camp-001", "contents")

	contents, err := os.ReadFile(filepath.Join(dir, "camp-001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "contents", string(contents))
}

func TestDirOutputClearsOnlyDumps(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "camp-001.txt"), []byte("old"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewDirOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, err = os.Stat(filepath.Join(dir, "camp-001.txt"))
	require.True(t, os.IsNotExist(err), "previous dumps should be cleared")

	keep := filepath.Join(dir, "go.mod")
	err = os.WriteFile(keep, []byte("module x\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewDirOutput(dir)
	require.Error(t, err)
	_, err = os.Stat(keep)
	require.NoError(t, err, "unrelated files must survive")
}
