// Package scope resolves an authenticated principal into the query filter
// every record read/write must be constrained by. All list/read endpoints for
// attendance, marks, leave and the roster route through Resolve before
// touching storage; a resolver failure never falls back to a wider scope.
package scope

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/faculty"
	"github.com/trezcool/chuo/core/student"
)

type Resolver struct {
	students student.Repository
	faculty  faculty.Repository
}

func NewResolver(students student.Repository, facRepo faculty.Repository) *Resolver {
	return &Resolver{students: students, faculty: facRepo}
}

// Resolve maps a principal to its scope filter.
//
//	admin   → unrestricted
//	student → their own profile only
//	faculty → their currently assigned students
//
// When targetStudentID is given and outside the principal's scope, resolution
// fails with core.ErrAccessDenied. For student/faculty principals with no
// profile yet, the default profile is created here — the only implicit write
// on the read path, idempotent under concurrent first access.
func (r *Resolver) Resolve(ctx context.Context, p core.Principal, targetStudentID string) (core.ScopeFilter, error) {
	switch {
	case p.IsAdmin():
		return core.UnrestrictedScope(), nil

	case p.IsStudent():
		prof, err := r.StudentProfile(ctx, p)
		if err != nil {
			return core.ScopeFilter{}, err
		}
		if targetStudentID != "" && targetStudentID != prof.ID {
			return core.ScopeFilter{}, core.ErrAccessDenied
		}
		return core.OwnerOnlyScope(prof.ID), nil

	case p.IsFaculty():
		prof, err := r.FacultyProfile(ctx, p)
		if err != nil {
			return core.ScopeFilter{}, err
		}
		ids, err := r.faculty.AssignedStudentIDs(ctx, prof.ID)
		if err != nil {
			return core.ScopeFilter{}, errors.Wrap(err, "listing assigned students")
		}
		filter := core.MemberOfScope(ids)
		if targetStudentID != "" && !filter.Allows(targetStudentID) {
			return core.ScopeFilter{}, core.ErrAccessDenied
		}
		return filter, nil
	}
	return core.ScopeFilter{}, core.ErrAccessDenied
}

// StudentProfile returns the principal's student profile, lazily creating the
// default one on first access.
func (r *Resolver) StudentProfile(ctx context.Context, p core.Principal) (student.Profile, error) {
	if !p.IsStudent() {
		return student.Profile{}, core.ErrAccessDenied
	}
	prof, err := r.students.GetOrCreateProfile(ctx, student.NewDefaultProfile(p.ID))
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "getting or creating student profile")
	}
	return prof, nil
}

// FacultyProfile returns the principal's faculty profile, lazily creating the
// default one on first access.
func (r *Resolver) FacultyProfile(ctx context.Context, p core.Principal) (faculty.Profile, error) {
	if !p.IsFaculty() {
		return faculty.Profile{}, core.ErrAccessDenied
	}
	prof, err := r.faculty.GetOrCreateProfile(ctx, faculty.NewDefaultProfile(p.ID))
	if err != nil {
		return faculty.Profile{}, errors.Wrap(err, "getting or creating faculty profile")
	}
	return prof, nil
}
