package core

// ScopeFilter is the query predicate restricting which students' records a
// principal may see or touch. It is produced by the scope resolver
// (core/scope) and applied inside repository queries — role filtering is
// never applied after fetching unrestricted data.
type ScopeFilter struct {
	// Unrestricted grants access to every student's records (admin).
	Unrestricted bool
	// StudentIDs is the allowed set of student profile ids:
	// the caller's own profile (student) or the assigned roster (faculty).
	StudentIDs []string
}

// Unrestricted is the admin scope.
func UnrestrictedScope() ScopeFilter { return ScopeFilter{Unrestricted: true} }

// OwnerOnlyScope restricts to a single student profile.
func OwnerOnlyScope(profileID string) ScopeFilter {
	return ScopeFilter{StudentIDs: []string{profileID}}
}

// MemberOfScope restricts to a faculty's assigned students.
func MemberOfScope(profileIDs []string) ScopeFilter {
	return ScopeFilter{StudentIDs: profileIDs}
}

// Allows reports whether records of the given student profile are in scope.
func (f ScopeFilter) Allows(studentID string) bool {
	if f.Unrestricted {
		return true
	}
	for _, id := range f.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
