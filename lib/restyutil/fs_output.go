package restyutil

import (
	devenv "autocamp/dev/env"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const dumpExt = ".txt"

// DirOutput writes each dumped exchange to its own file in a directory.
type DirOutput struct {
	directory string
}

// NewDirOutput creates dir and clears the dumps of a previous run from
// it. dir may use the "<dev_state>" prefix understood by
// devenv.ResolvePath. A directory holding anything but dumps is refused.
func NewDirOutput(dir string) (DirOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return DirOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return DirOutput{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return DirOutput{}, err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != dumpExt {
			return DirOutput{}, fmt.Errorf("refusing to dump into %s: it contains %s which is not a dump", dir, e.Name())
		}
	}
	for _, e := range entries {
		err = os.Remove(filepath.Join(dir, e.Name()))
		if err != nil {
			return DirOutput{}, err
		}
	}
	return DirOutput{directory: dir}, nil
}

func (o DirOutput) Dir() string {
	return o.directory
}

func (o DirOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+dumpExt), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write exchange dump", "id", id, "err", err)
	}
}
