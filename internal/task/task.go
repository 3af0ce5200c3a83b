// Package task runs background work on a bounded queue drained by a worker
// pool. The scaffolding ships with a placeholder task; hosted applications
// register their own Task implementations.
package task

import (
	"context"

	"github.com/google/uuid"
)

// Task is a unit of background work.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() string

	// Execute runs the task. It should honor ctx cancellation.
	Execute(ctx context.Context) error
}
