package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "sessions.jsonl")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, _ := newTestFileStore(t)

	sessions, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestFileStore_RoundTrip(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	in := sampleSession()
	require.NoError(t, s.Append(ctx, in))

	sessions, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, in, sessions[0])
}

func TestFileStore_AppendNeverOverwrites(t *testing.T) {
	s, path := newTestFileStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, sampleSession()))
	}

	sessions, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, countLines(data))
}

func TestFileStore_CorruptLine(t *testing.T) {
	s, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleSession()))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFileStore_RejectsOversizedLabel(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleSession()))
	big := sampleSession()
	big.Label = strings.Repeat("x", 70*1024)
	assert.Error(t, s.Append(ctx, big))

	sessions, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1, "earlier history stays readable")
}

func TestFileStore_ReadsLinesLongerThanScannerDefault(t *testing.T) {
	s, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sampleSession()))
	// A line written by hand, larger than bufio's 64 KiB default token.
	line := `{"id":"01HLONG","kind":"focus","planned_seconds":1500,"actual_seconds":1500,` +
		`"completed":true,"label":"` + strings.Repeat("y", 100*1024) + `","started_at":"2024-01-05T10:00:00Z"}` + "\n"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	sessions, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Len(t, sessions[1].Label, 100*1024)
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendJSON, filepath.Join(dir, "sessions.jsonl"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(BackendSQLite, filepath.Join(dir, "pomo.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("postgres", filepath.Join(dir, "x"))
	assert.Error(t, err)
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
