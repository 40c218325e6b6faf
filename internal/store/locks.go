package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ErrRunLocked means another run for the same client is in progress.
var ErrRunLocked = errors.New("run already in progress for client")

// staleLockAge is how old a lock row may get before it is treated as
// abandoned. A crashed run never releases its lock; expiry keeps the client
// from being wedged forever.
const staleLockAge = 30 * time.Minute

// AcquireRunLock takes the per-client advisory lock. Concurrent runs for the
// same client would interleave writes; the lock keeps invocations serial.
func (s *Store) AcquireRunLock(ctx context.Context, clientID string) error {
	now := time.Now().UTC()

	// Expire abandoned locks first
	del, args, err := builder.
		Delete("run_locks").
		Where(sq.Eq{"client_id": clientID}).
		Where(sq.Lt{"acquired_at": encodeTime(now.Add(-staleLockAge))}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("expiring stale lock: %w", err)
	}

	ins, args, err := builder.
		Insert("run_locks").
		Options("OR IGNORE").
		Columns("client_id", "acquired_at").
		Values(clientID, encodeTime(now)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	result, err := s.db.ExecContext(ctx, ins, args...)
	if err != nil {
		return fmt.Errorf("acquiring run lock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("acquiring run lock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %s: %w", clientID, ErrRunLocked)
	}
	return nil
}

// ReleaseRunLock drops the per-client advisory lock.
func (s *Store) ReleaseRunLock(ctx context.Context, clientID string) error {
	query, args, err := builder.
		Delete("run_locks").
		Where(sq.Eq{"client_id": clientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("releasing run lock: %w", err)
	}
	return nil
}
