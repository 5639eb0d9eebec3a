package authz

// AccessLevel is the tier of detail a requester may see about a target
// identity. The resolver only emits the tier; field filtering (salary,
// personal info) is the caller's concern.
type AccessLevel string

const (
	AccessFull    AccessLevel = "FULL"
	AccessManager AccessLevel = "MANAGER"
	AccessPublic  AccessLevel = "PUBLIC"
)

// IsDepartmentHead reports whether userID heads any department in the snapshot.
func IsDepartmentHead(g *Graph, userID string) bool {
	for _, d := range g.Departments {
		if d.HeadUserID != "" && d.HeadUserID == userID {
			return true
		}
	}
	return false
}

// IsAnyManager reports whether the user manages anyone by role or by position.
// hasManagerRole comes from the role claim, not from this graph.
func IsAnyManager(g *Graph, userID string, hasManagerRole bool) bool {
	return hasManagerRole || IsDepartmentHead(g, userID)
}

// DirectReports returns the employees whose direct manager is userID.
// One hop only; manager chains are never traversed transitively.
func DirectReports(g *Graph, userID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range g.Employees {
		if e.DirectManagerID != "" && e.DirectManagerID == userID {
			out[e.AuthUserID] = struct{}{}
		}
	}
	return out
}

// DepartmentMembers returns the employees of every department headed by userID.
func DepartmentMembers(g *Graph, userID string) map[string]struct{} {
	headed := make(map[string]struct{})
	for _, d := range g.Departments {
		if d.HeadUserID != "" && d.HeadUserID == userID {
			headed[d.ID] = struct{}{}
		}
	}
	out := make(map[string]struct{})
	if len(headed) == 0 {
		return out
	}
	for _, e := range g.Employees {
		if e.DepartmentID == "" {
			continue
		}
		if _, ok := headed[e.DepartmentID]; ok {
			out[e.AuthUserID] = struct{}{}
		}
	}
	return out
}

// AllManagedEmployees is the union of direct reports and department members.
// An employee reachable through both relations appears once.
func AllManagedEmployees(g *Graph, userID string) map[string]struct{} {
	out := DirectReports(g, userID)
	for id := range DepartmentMembers(g, userID) {
		out[id] = struct{}{}
	}
	return out
}

// CanManage reports whether managerID manages employeeID through either relation.
func CanManage(g *Graph, managerID, employeeID string) bool {
	_, ok := AllManagedEmployees(g, managerID)[employeeID]
	return ok
}

// ResolveAccessLevel decides the tier for requester looking at target:
// FULL for HR, MANAGER for self or a managed employee, PUBLIC otherwise.
func ResolveAccessLevel(g *Graph, requesterID, targetID string, requesterIsHR bool) AccessLevel {
	if requesterIsHR {
		return AccessFull
	}
	if requesterID == targetID || CanManage(g, requesterID, targetID) {
		return AccessManager
	}
	return AccessPublic
}
