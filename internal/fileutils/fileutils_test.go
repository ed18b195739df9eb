package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/fileutils"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	// Existing directory is fine
	assert.NoError(t, fileutils.EnsureDirectoryExists(newDir))
}

func TestOpenFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "libro.csv")
	require.NoError(t, os.WriteFile(testFile, []byte("rut"), 0600))

	f, err := fileutils.OpenFile(testFile)
	require.NoError(t, err)
	_ = f.Close()

	_, err = fileutils.OpenFile(filepath.Join(tmpDir, "missing.csv"))
	assert.Error(t, err)
}

func TestListFilesWithExtension(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "2024")
	require.NoError(t, os.MkdirAll(sub, 0750))
	for _, name := range []string{
		filepath.Join(tmpDir, "b_sevilla.XLSX"),
		filepath.Join(tmpDir, "a_labranza.csv"),
		filepath.Join(tmpDir, "~$a_labranza.xlsx"),
		filepath.Join(tmpDir, "notes.txt"),
		filepath.Join(sub, "c.xlsx"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0600))
	}

	files, err := fileutils.ListFilesWithExtension(tmpDir, fileutils.ExtXLSX, fileutils.ExtCSV)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(sub, "c.xlsx"),
		filepath.Join(tmpDir, "a_labranza.csv"),
		filepath.Join(tmpDir, "b_sevilla.XLSX"),
	}, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(tmpDir, "missing"), fileutils.ExtCSV)
	assert.Error(t, err)
}

func TestIsCSV(t *testing.T) {
	assert.True(t, fileutils.IsCSV("libro.CSV"))
	assert.False(t, fileutils.IsCSV("libro.xlsx"))
}
