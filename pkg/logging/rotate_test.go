package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRotatingFile(t *testing.T, path string, maxSize int64, maxBackups int) *RotatingFile {
	t.Helper()

	rf, err := NewRotatingFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { rf.Close() })

	rf.maxSize = maxSize
	rf.maxBackups = maxBackups
	return rf
}

func TestRotatingFile_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rf := newTestRotatingFile(t, path, 100, 2)

	data := []byte("hello world\n")
	n, err := rf.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestRotatingFile_Rotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rf := newTestRotatingFile(t, path, 50, 2)

	data := make([]byte, 30)
	for i := range data {
		data[i] = 'a'
	}

	_, err := rf.Write(data)
	require.NoError(t, err)

	// Second write exceeds maxSize and must rotate first.
	_, err = rf.Write(data)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, data, backup)
}

func TestRotatingFile_MaxBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rf := newTestRotatingFile(t, path, 20, 2)

	data := make([]byte, 15)

	for i := range 4 {
		for j := range data {
			data[j] = byte('a' + i)
		}
		_, err := rf.Write(data)
		require.NoError(t, err)
	}

	_, err := os.Stat(path)
	require.NoError(t, err, "current file should exist")

	_, err = os.Stat(path + ".1")
	require.NoError(t, err, "backup .1 should exist")

	_, err = os.Stat(path + ".2")
	require.NoError(t, err, "backup .2 should exist")

	_, err = os.Stat(path + ".3")
	require.True(t, os.IsNotExist(err), "backup .3 should not exist")
}

func TestRotatingFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o600))

	rf := newTestRotatingFile(t, path, 1000, 2)

	_, err := rf.Write([]byte("new\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nnew\n", string(content))
}

func TestRotatingFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "nested", "test.log")

	rf, err := NewRotatingFile(path)
	require.NoError(t, err)
	defer rf.Close()

	_, err = rf.Write([]byte("test"))
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
