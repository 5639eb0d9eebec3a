package repository

import (
	"context"
	"sync"
	"time"

	"github.com/corpdesk/corpdesk/internal/authz"
	"github.com/corpdesk/corpdesk/internal/directory"
)

// MemoryRepository is an in-memory Repository used in tests and local runs
// without MongoDB.
type MemoryRepository struct {
	mu          sync.RWMutex
	employees   map[string]*directory.Employee
	departments map[string]*directory.Department
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		employees:   map[string]*directory.Employee{},
		departments: map[string]*directory.Department{},
	}
}

func (r *MemoryRepository) InsertIfAbsent(ctx context.Context, e *directory.Employee) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.AuthUserID]; ok {
		return false, nil
	}
	cp := *e
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.employees[e.AuthUserID] = &cp
	return true, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, e *directory.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.employees[e.AuthUserID]; ok {
		existing.Username = e.Username
		existing.Email = e.Email
		existing.FullName = e.FullName
		existing.UpdatedAt = now
		return nil
	}
	cp := *e
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.employees[e.AuthUserID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, authUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.employees[authUserID]
	delete(r.employees, authUserID)
	return ok, nil
}

func (r *MemoryRepository) Get(ctx context.Context, authUserID string) (*directory.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[authUserID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]directory.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]directory.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, nil
}

// SetDepartment installs or replaces a department (test/seed helper).
func (r *MemoryRepository) SetDepartment(d directory.Department) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.departments[d.ID] = &d
}

// SetReporting assigns the HR-owned edges of an employee (test/seed helper).
func (r *MemoryRepository) SetReporting(authUserID, directManagerID, departmentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.employees[authUserID]; ok {
		e.DirectManagerID = directManagerID
		e.DepartmentID = departmentID
	}
}

func (r *MemoryRepository) Snapshot(ctx context.Context) (*authz.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g := &authz.Graph{}
	for _, e := range r.employees {
		g.Employees = append(g.Employees, authz.Employee{
			AuthUserID:      e.AuthUserID,
			DirectManagerID: e.DirectManagerID,
			DepartmentID:    e.DepartmentID,
		})
	}
	for _, d := range r.departments {
		g.Departments = append(g.Departments, authz.Department{ID: d.ID, HeadUserID: d.HeadUserID})
	}
	return g, nil
}
