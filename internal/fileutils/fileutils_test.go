package fileutils_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-import/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte("test"), 0600))
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.csv")
	touch(t, testFile)

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.csv")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.csv")
	touch(t, testFile)

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	newDir := filepath.Join(tmpDir, "new", "nested", "dir")
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	assert.NoError(t, fileutils.EnsureDirectoryExists(tmpDir))
}

func TestOpenFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.csv")
	touch(t, testFile)

	f, err := fileutils.OpenFile(testFile)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "test", string(data))

	_, err = fileutils.OpenFile(filepath.Join(tmpDir, "missing.csv"))
	assert.ErrorContains(t, err, "file does not exist")
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ledger.csv")

	f, err := fileutils.CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("date,amount\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,amount\n", string(data))
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "statement.csv", want: true},
		{path: "Statement.XLSX", want: true},
		{path: "notes.txt", want: false},
		{path: "csv", want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fileutils.HasExtension(tt.path, fileutils.UploadExtensions...), tt.path)
	}
}

func TestListFilesWithExtension(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, filepath.Join(tmpDir, "b.csv"))
	touch(t, filepath.Join(tmpDir, "a.CSV"))
	touch(t, filepath.Join(tmpDir, "nested", "c.xlsx"))
	touch(t, filepath.Join(tmpDir, "readme.md"))

	files, err := fileutils.ListFilesWithExtension(tmpDir, fileutils.UploadExtensions...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.CSV"),
		filepath.Join(tmpDir, "b.csv"),
		filepath.Join(tmpDir, "nested", "c.xlsx"),
	}, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(tmpDir, "missing"), ".csv")
	assert.ErrorContains(t, err, "directory does not exist")
}

func TestExpandInputs(t *testing.T) {
	tmpDir := t.TempDir()
	single := filepath.Join(tmpDir, "single.txt")
	touch(t, single)
	dir := filepath.Join(tmpDir, "statements")
	touch(t, filepath.Join(dir, "chk-3607.csv"))
	touch(t, filepath.Join(dir, "ignored.pdf"))

	files, err := fileutils.ExpandInputs([]string{single, dir}, fileutils.UploadExtensions...)
	require.NoError(t, err)
	assert.Equal(t, []string{single, filepath.Join(dir, "chk-3607.csv")}, files)

	_, err = fileutils.ExpandInputs([]string{filepath.Join(tmpDir, "missing.csv")}, ".csv")
	assert.ErrorContains(t, err, "file does not exist")
}
