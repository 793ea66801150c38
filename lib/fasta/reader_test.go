package fasta

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	input := `>fasta some description
KTLVLLSALVLLAFQALADPLPEATEEAKNEEQPGSEDQDVSIILGNPEGS

>second
GIGKFLHSAKKF
GKAFVGEIMNS
>third|x
KWKLFKKIGAVLKVL
`
	records, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	expected := []Record{
		{ID: "fasta", Residues: "KTLVLLSALVLLAFQALADPLPEATEEAKNEEQPGSEDQDVSIILGNPEGS"},
		{ID: "second", Residues: "GIGKFLHSAKKFGKAFVGEIMNS"},
		{ID: "third|x", Residues: "KWKLFKKIGAVLKVL"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEmpty(t *testing.T) {
	records, err := Read(strings.NewReader("\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, records, 0)
}

func TestReadMalformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "missing identifier", input: ">\nKLV\n"},
		{name: "missing sequence", input: ">a\n>b\nKLV\n"},
		{name: "missing trailing sequence", input: ">a\nKLV\n>b\n"},
		{name: "data before header", input: "KLV\n>a\nKLV\n"},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(test.input))
			require.True(t, errors.Is(err, ErrParse), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "query.fasta")
	err := os.WriteFile(plain, []byte(">a\nKLV\n>b\nGIG\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
	records, err := Load(plain)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []Record{{ID: "a", Residues: "KLV"}, {ID: "b", Residues: "GIG"}}, records)

	compressed := filepath.Join(dir, "query.fasta.gz")
	fh, err := os.Create(compressed)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(">gz\nKWK\n"))
	if err != nil {
		t.Fatal(err)
	}
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	records, err = Load(compressed)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []Record{{ID: "gz", Residues: "KWK"}}, records)

	_, err = Load(filepath.Join(dir, "missing.fasta"))
	require.True(t, errors.Is(err, ErrFileRead), "got %v", err)
}

func writeGzip(t *testing.T, path, contents string) {
	t.Helper()
	fh, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(contents))
	if err != nil {
		t.Fatal(err)
	}
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())
}

func TestOpenGzipClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.fasta.gz")
	writeGzip(t, path, ">gz\nKWK\n")

	rc, err := open(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := Read(rc)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, records, 1)
	require.NoError(t, rc.Close())

	gf, ok := rc.(gzipFile)
	require.True(t, ok, "gzip input should close both the decompressor and the file")
	_, err = gf.file.Stat()
	require.Error(t, err, "file should be closed")
}

func TestLoadGzipChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.fasta.gz")
	writeGzip(t, path, ">gz\nKWK\n")

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// the trailer is crc32 then size, corrupt the crc
	contents[len(contents)-8] ^= 0xff
	err = os.WriteFile(path, contents, 0600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Load(path)
	require.True(t, errors.Is(err, ErrFileRead), "got %v", err)
}
