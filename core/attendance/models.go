package attendance

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/chuo/core"
)

// Status of a student for one class session.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Attended reports whether the status counts toward the attendance
// percentage numerator: present and late do, excused does not.
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

// ClassType of a session.
const (
	ClassLecture   = "lecture"
	ClassLab       = "lab"
	ClassTutorial  = "tutorial"
	ClassPractical = "practical"
)

// Record is one student's attendance for one class session. Multiple
// sessions per day are legitimate: records carry no uniqueness constraint.
type Record struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"` // student profile id
	FacultyID       string    `json:"faculty_id"` // authoring faculty profile id
	Subject         string    `json:"subject"`
	SubjectCode     string    `json:"subject_code"`
	Date            time.Time `json:"date"`
	Status          Status    `json:"status"`
	Semester        int       `json:"semester"`
	AcademicYear    string    `json:"academic_year"`
	ClassType       string    `json:"class_type"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

// NewRecord contains information needed to mark attendance.
type NewRecord struct {
	StudentID       string    `json:"student_id" validate:"required"`
	FacultyID       string    `json:"faculty_id"` // admin writers only; faculty write as themselves
	Subject         string    `json:"subject" validate:"required"`
	SubjectCode     string    `json:"subject_code" validate:"required"`
	Date            time.Time `json:"date" validate:"required"`
	Status          Status    `json:"status" validate:"required,oneof=present absent late excused"`
	Semester        int       `json:"semester" validate:"required,min=1,max=8"`
	AcademicYear    string    `json:"academic_year" validate:"required,acadyear"`
	ClassType       string    `json:"class_type" validate:"omitempty,oneof=lecture lab tutorial practical"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=1,max=480"`
}

func (nr *NewRecord) Validate(validate *validator.Validate, _ ut.Translator) error {
	nr.Subject = core.CleanString(nr.Subject)
	nr.SubjectCode = core.CleanString(nr.SubjectCode, true /* lower */)
	if nr.ClassType == "" {
		nr.ClassType = ClassLecture
	}
	return validate.Struct(nr)
}

// QueryFilter filters attendance listings; scope is applied in the repository.
// AuthorID unions in records the faculty authored, regardless of the current
// roster — unassigning a student never hides a faculty's own history.
type QueryFilter struct {
	Scope        core.ScopeFilter
	AuthorID     string
	StudentID    string `query:"student_id"`
	Subject      string `query:"subject"`
	Semester     int    `query:"semester"`
	AcademicYear string `query:"academic_year"`
	DateFrom     time.Time
	DateTo       time.Time
}

// Summary is the recomputed attendance aggregate for one student/subject.
type Summary struct {
	StudentID    string  `json:"student_id"`
	Subject      string  `json:"subject,omitempty"`
	AcademicYear string  `json:"academic_year,omitempty"`
	Total        int     `json:"total_sessions"`
	Attended     int     `json:"attended_sessions"`
	Percentage   float64 `json:"percentage"`
}
