package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/pkg/errors"
	"github.com/titanous/json5"
)

// localPath turns "dir/autocamp.json5" into "dir/autocamp.local.json5".
func localPath(name string) string {
	ext := filepath.Ext(name)
	prefix := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.local%s", prefix, ext)
}

func readJson5[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, errors.Wrapf(err, "parse %s", path)
	}
	return true, nil
}

// ReadConfig reads a json5 configuration file and merges it with
// <name>.local.<ext> if that exists, the local file taking priority.
// It returns os.ErrNotExist when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T

	found, err := readJson5(name, &out)
	if err != nil {
		return out, err
	}

	local := localPath(name)
	var override T
	foundLocal, err := readJson5(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadOrDefault is ReadConfig where fields left empty by the files
// (or every field, when no file exists) are taken from defaults.
func ReadOrDefault[T any](name string, defaults T) (T, error) {
	out, err := ReadConfig[T](name)
	if err != nil && !os.IsNotExist(err) {
		return defaults, err
	}
	err = mergo.Merge(&out, defaults)
	if err != nil {
		return defaults, err
	}
	return out, nil
}

// ReadRecursively walks up from the working directory until it finds
// a directory containing name, then reads it with ReadConfig.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	root, err := filepath.Abs("/")
	if err != nil {
		return zero, err
	}
	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return zero, err
		}
		if current == root {
			return zero, os.ErrNotExist
		}
		current = filepath.Dir(current)
	}
}
