package target

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core/student"
)

func TestGroupMatches(t *testing.T) {
	prof := student.Profile{
		ID:         "sp1",
		Course:     "X",
		Semester:   3,
		Department: "CS",
	}

	tests := []struct {
		name  string
		group Group
		want  bool
	}{
		{name: "nothing targeted", group: Group{}, want: false},
		{name: "all students", group: Group{AllStudents: true}, want: true},
		{name: "course match", group: Group{Courses: []string{"Y", "X"}}, want: true},
		{name: "course mismatch", group: Group{Courses: []string{"Y"}}, want: false},
		// any-of: semester matches even though courses is non-matching
		{name: "semester match, course mismatch", group: Group{Courses: []string{"Y"}, Semesters: []int64{3}}, want: true},
		{name: "semester match alone", group: Group{Semesters: []int64{3}}, want: true},
		{name: "department match", group: Group{Departments: []string{"CS"}}, want: true},
		{name: "explicit id match", group: Group{StudentIDs: []string{"sp1"}}, want: true},
		{name: "explicit id mismatch", group: Group{StudentIDs: []string{"sp2"}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.Matches(prof); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible(t *testing.T) {
	prof := student.Profile{ID: "sp1", Semester: 3}
	now := time.Now()
	grp := Group{Semesters: []int64{3}}

	tests := []struct {
		name      string
		active    bool
		expiresAt null.Time
		want      bool
	}{
		{name: "active, no expiry", active: true, want: true},
		{name: "inactive", active: false, want: false},
		{name: "expired", active: true, expiresAt: null.TimeFrom(now.Add(-time.Hour)), want: false},
		{name: "not yet expired", active: true, expiresAt: null.TimeFrom(now.Add(time.Hour)), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(prof, grp, tt.active, tt.expiresAt, now); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}
