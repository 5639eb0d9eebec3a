package authz

import "context"

// Employee is one node of the manager graph. Both a direct manager edge and
// department membership may be set at the same time, and they may point at
// different managers.
type Employee struct {
	AuthUserID        string
	DirectManagerID   string // auth user id of the direct manager, "" if none
	DepartmentID      string // "" if not in a department
}

// Department has zero or one head at a time.
type Department struct {
	ID         string
	HeadUserID string // auth user id of the head, "" if vacant
}

// Graph is a read snapshot of the employee/department structure. The resolver
// recomputes every answer from the snapshot; it holds no state of its own.
type Graph struct {
	Employees   []Employee
	Departments []Department
}

// SnapshotSource loads a fresh graph snapshot, typically once per request.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*Graph, error)
}
