package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/pomo/internal/models"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Store is the append-only session log.
type Store interface {
	// Append adds one resolved session to the end of the log. Existing
	// records are never overwritten.
	Append(ctx context.Context, s *models.Session) error
	// List returns every record in append order.
	List(ctx context.Context) ([]*models.Session, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store for the named backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStore(path)
	case BackendJSON:
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s (use: sqlite, json)", backend)
	}
}

// timestampLayout is the persisted form of started_at: local time with
// offset, second precision.
const timestampLayout = time.RFC3339

func formatTimestamp(t time.Time) string {
	return t.Truncate(time.Second).Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse started_at %q: %w", s, err)
	}
	return t, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// MaxLabelBytes is the longest label either backend accepts.
const MaxLabelBytes = 4096

// prepare assigns an id and normalizes the timestamp before a write.
func prepare(s *models.Session) error {
	if !s.Kind.Valid() {
		return fmt.Errorf("invalid session kind: %q", s.Kind)
	}
	if len(s.Label) > MaxLabelBytes {
		return fmt.Errorf("label is %d bytes, limit is %d", len(s.Label), MaxLabelBytes)
	}
	if s.ActualSeconds < 0 {
		return fmt.Errorf("invalid actual_seconds: %d", s.ActualSeconds)
	}
	if s.ID == "" {
		s.ID = newULID()
	}
	s.StartedAt = s.StartedAt.Truncate(time.Second)
	return nil
}
