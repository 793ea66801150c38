// Package fasta loads protein sequences from FASTA files.
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrFileRead = errors.New("failed to read fasta file")
	ErrParse    = errors.New("malformed fasta")
)

// Record is one FASTA entry.
type Record struct {
	ID       string
	Residues string
}

// Load reads every record of the file at path. "-" reads stdin and a
// ".gz" suffix is decompressed transparently.
func Load(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileRead, "%s: %v", path, err)
	}

	records, err := Read(rc)
	closeErr := rc.Close()
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if closeErr != nil {
		return nil, errors.Wrapf(ErrFileRead, "%s: %v", path, closeErr)
	}
	return records, nil
}

// Read parses FASTA text from r. The record id is the first field of the
// header line and the residues are the header's sequence lines joined.
func Read(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		records  []Record
		current  *Record
		residues strings.Builder
		lineNo   int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		current.Residues = residues.String()
		if current.Residues == "" {
			return errors.Wrapf(ErrParse, "record %q has no sequence", current.ID)
		}
		records = append(records, *current)
		residues.Reset()
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			err := flush()
			if err != nil {
				return nil, err
			}
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, errors.Wrapf(ErrParse, "line %d: header without identifier", lineNo)
			}
			current = &Record{ID: fields[0]}
			continue
		}

		if current == nil {
			return nil, errors.Wrapf(ErrParse, "line %d: sequence data before first header", lineNo)
		}
		residues.WriteString(strings.Join(strings.Fields(line), ""))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrFileRead, "%v", err)
	}

	err := flush()
	if err != nil {
		return nil, err
	}
	return records, nil
}

func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, nil
	}
	gr, err := gzip.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, err
	}
	return gzipFile{Reader: gr, file: fh}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

// Close reports a bad gzip checksum before closing the file.
func (g gzipFile) Close() error {
	err := g.Reader.Close()
	if fileErr := g.file.Close(); err == nil {
		err = fileErr
	}
	return err
}
