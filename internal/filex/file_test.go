package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	root := filepath.Join(t.TempDir(), "files_manager", "nested")

	got, err := EnsureDir(root)
	require.NoError(t, err)
	require.Equal(t, root, got)

	fi, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	root := t.TempDir()

	_, err := EnsureDir(root)
	require.NoError(t, err)
	_, err = EnsureDir(root)
	require.NoError(t, err)
}

func TestEnsureDir_FailsOnFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureDir(filepath.Join(f, "sub"))
	require.Error(t, err)
}
