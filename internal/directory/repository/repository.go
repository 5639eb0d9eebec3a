package repository

import (
	"context"

	"github.com/corpdesk/corpdesk/internal/authz"
	"github.com/corpdesk/corpdesk/internal/directory"
)

// Repository persists employee shadow records and departments and exposes the
// manager-graph snapshot the authorization resolver reads.
type Repository interface {
	// InsertIfAbsent creates the employee unless a record with the same auth
	// user id already exists. Reports whether a record was inserted.
	InsertIfAbsent(ctx context.Context, e *directory.Employee) (bool, error)
	// Upsert creates or replaces the identity fields of the employee. HR-owned
	// fields (manager, department) on an existing record are preserved.
	Upsert(ctx context.Context, e *directory.Employee) error
	// Delete removes the employee if present. Reports prior existence.
	Delete(ctx context.Context, authUserID string) (bool, error)
	Get(ctx context.Context, authUserID string) (*directory.Employee, error)
	List(ctx context.Context) ([]directory.Employee, error)

	// Snapshot reads the current manager graph for authorization decisions.
	Snapshot(ctx context.Context) (*authz.Graph, error)
}
