package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	plain, err := ResolvePath("../Output/7qry.csv")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "../Output/7qry.csv", plain)

	resolved, err := ResolvePath("<dev_state>/dumps")
	if err != nil {
		t.Fatal(err)
	}
	root, err := GetWorkspaceRoot()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, filepath.Join(root, "dev", ".state", "dumps"), resolved)
}
