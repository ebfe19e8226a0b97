package core

// Roles. The access model is deliberately narrow: three fixed roles,
// one faculty↔student assignment relation.
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

var AllRoles = []string{RoleAdmin, RoleFaculty, RoleStudent}

// Principal is the authenticated actor a request is executed on behalf of.
// It is produced by the API auth layer from verified JWT claims and is
// immutable for the request's duration; services trust it.
type Principal struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (p Principal) IsAdmin() bool   { return p.Role == RoleAdmin }
func (p Principal) IsFaculty() bool { return p.Role == RoleFaculty }
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}
