package report

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrWrite = errors.New("failed to write report")

type HeaderStyle string

const (
	// HeaderLegacy is the header the CAMP scraper has always written.
	// Its second column is labelled "CNN Class" although it holds the
	// ANN prediction.
	HeaderLegacy HeaderStyle = "legacy"
	// HeaderANN labels the second column after the classifier it holds.
	HeaderANN HeaderStyle = "ann"
)

func ParseHeaderStyle(s string) (HeaderStyle, error) {
	switch HeaderStyle(s) {
	case HeaderLegacy, "":
		return HeaderLegacy, nil
	case HeaderANN:
		return HeaderANN, nil
	}
	return "", errors.Errorf("unknown header style %q (expected %q or %q)", s, HeaderLegacy, HeaderANN)
}

func (h HeaderStyle) Columns() []string {
	second := "CNN Class"
	if h == HeaderANN {
		second = "ANN Class"
	}
	return []string{
		"id", second,
		"SVM Class", "SVM Probability",
		"RF Class", "RF Probability",
		"DA Class", "DA Probability",
	}
}

// WriteCSV writes the header and one record per row to path. The file is
// written next to path and renamed into place, so either every row is
// written or path is left untouched.
func WriteCSV(path string, rows []Row, header HeaderStyle) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return errors.Wrapf(ErrWrite, "create %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(ErrWrite, "create temporary file: %v", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	err = w.Write(header.Columns())
	if err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	for _, r := range rows {
		err = w.Write(r.Values())
		if err != nil {
			return errors.Wrapf(ErrWrite, "%v", err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(ErrWrite, "%v", err)
	}
	return nil
}
