// Package target decides which notices and resources a student may see.
// One evaluator serves both kinds; it runs per list request against the
// student's current profile, so course/semester changes take effect on the
// very next read.
package target

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core/student"
)

// Group is the any-of targeting rule attached to a notice or resource.
type Group struct {
	AllStudents bool     `json:"all_students"`
	Courses     []string `json:"courses"`
	Semesters   []int64  `json:"semesters"`
	Departments []string `json:"departments"`
	StudentIDs  []string `json:"student_ids"` // explicit student profile ids
}

// Matches reports whether any targeting criterion covers the profile.
func (g Group) Matches(prof student.Profile) bool {
	if g.AllStudents {
		return true
	}
	for _, c := range g.Courses {
		if c == prof.Course {
			return true
		}
	}
	for _, s := range g.Semesters {
		if int(s) == prof.Semester {
			return true
		}
	}
	for _, d := range g.Departments {
		if d == prof.Department {
			return true
		}
	}
	for _, id := range g.StudentIDs {
		if id == prof.ID {
			return true
		}
	}
	return false
}

// Live reports whether an item is active and unexpired. Every visibility
// rule starts here; nothing deactivated or past its expiry is ever shown.
func Live(isActive bool, expiresAt null.Time, now time.Time) bool {
	if !isActive {
		return false
	}
	if expiresAt.Valid && !expiresAt.Time.After(now) {
		return false
	}
	return true
}

// Visible is the shared notice/resource visibility rule: active, not expired,
// and targeted at the profile.
func Visible(prof student.Profile, g Group, isActive bool, expiresAt null.Time, now time.Time) bool {
	return Live(isActive, expiresAt, now) && g.Matches(prof)
}
