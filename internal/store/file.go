package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joescharf/pomo/internal/models"
)

// fileRecord is the on-disk form of a session: one JSON object per line.
type fileRecord struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	PlannedSeconds int    `json:"planned_seconds"`
	ActualSeconds  int    `json:"actual_seconds"`
	Completed      bool   `json:"completed"`
	Label          string `json:"label"`
	StartedAt      string `json:"started_at"`
}

// maxLineBytes bounds a single log line on read. Labels are capped well
// below it by MaxLabelBytes.
const maxLineBytes = 1 << 20

// FileStore implements Store as an append-only JSONL file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore writing to path. The parent directory is
// created if needed; the file itself is created on first append.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Migrate is a no-op; the JSONL format has no schema.
func (f *FileStore) Migrate(_ context.Context) error { return nil }

// Close is a no-op; the file is opened per operation.
func (f *FileStore) Close() error { return nil }

// Append writes one record and syncs it to disk before returning.
func (f *FileStore) Append(_ context.Context, sess *models.Session) error {
	if err := prepare(sess); err != nil {
		return err
	}

	data, err := json.Marshal(fileRecord{
		ID:             sess.ID,
		Kind:           string(sess.Kind),
		PlannedSeconds: sess.PlannedSeconds,
		ActualSeconds:  sess.ActualSeconds,
		Completed:      sess.Completed,
		Label:          sess.Label,
		StartedAt:      formatTimestamp(sess.StartedAt),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer fh.Close()

	if _, err := fh.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := fh.Sync(); err != nil {
		return fmt.Errorf("sync session log: %w", err)
	}
	return nil
}

// List reads every record in file order. A missing file is an empty log.
func (f *FileStore) List(_ context.Context) ([]*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*models.Session{}, nil
		}
		return nil, fmt.Errorf("open session log: %w", err)
	}
	defer fh.Close()

	var sessions []*models.Session
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec fileRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse session log line %d: %w", lineNum, err)
		}
		startedAt, err := parseTimestamp(rec.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("session log line %d: %w", lineNum, err)
		}
		sessions = append(sessions, &models.Session{
			ID:             rec.ID,
			Kind:           models.Kind(rec.Kind),
			PlannedSeconds: rec.PlannedSeconds,
			ActualSeconds:  rec.ActualSeconds,
			Completed:      rec.Completed,
			Label:          rec.Label,
			StartedAt:      startedAt,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	return sessions, nil
}
