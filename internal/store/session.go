package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/carbonforge/plinth/internal/platform/logger"
)

// SessionFactory creates sessions scoped to one unit of work, typically one
// HTTP request. The underlying *sql.DB is shared; individual sessions must
// not be shared across concurrent requests.
type SessionFactory struct {
	db *sql.DB
}

// NewSessionFactory wraps an established database handle.
func NewSessionFactory(db *sql.DB) *SessionFactory {
	return &SessionFactory{db: db}
}

// Open begins a new session bound to ctx.
func (f *SessionFactory) Open(ctx context.Context) (*Session, error) {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}
	return &Session{Tx: tx, tx: tx, log: logger.FromContext(ctx)}, nil
}

// txHandle is the lifecycle surface of *sql.Tx, split out so session
// teardown can be exercised without a live database.
type txHandle interface {
	Commit() error
	Rollback() error
}

// Session is a unit-of-work database transaction. Data access goes through
// the DBTX methods; the unit of work ends with a single Teardown call.
type Session struct {
	// Tx is the underlying transaction for callers that need it directly.
	Tx *sql.Tx

	tx       txHandle
	log      *slog.Logger
	released bool
}

// Teardown ends the unit of work. With commit set, it commits the pending
// work; a commit failing on a conflicting request is rolled back, all pending
// state discarded, and reported as ErrConflict. Without commit it rolls back.
// The transaction is released on every exit path, and a second Teardown is a
// no-op.
func (s *Session) Teardown(commit bool) error {
	if s.released {
		return nil
	}
	s.released = true

	if !commit {
		if err := s.tx.Rollback(); err != nil {
			return fmt.Errorf("rolling back session: %w", err)
		}
		return nil
	}

	if err := s.tx.Commit(); err != nil {
		// Discard whatever the failed commit left pending before reporting.
		if rbErr := s.tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.log.Error("rollback after failed commit", "error", rbErr)
		}
		if isConflict(err) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

// ExecContext implements DBTX.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.Tx.ExecContext(ctx, query, args...)
}

// PrepareContext implements DBTX.
func (s *Session) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return s.Tx.PrepareContext(ctx, query)
}

// QueryContext implements DBTX.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.Tx.QueryContext(ctx, query, args...)
}

// QueryRowContext implements DBTX.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.Tx.QueryRowContext(ctx, query, args...)
}

// Ensure Session satisfies DBTX alongside *sql.DB and *sql.Tx.
var _ DBTX = (*Session)(nil)
