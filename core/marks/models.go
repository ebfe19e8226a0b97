package marks

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/chuo/core"
)

// Exam types.
const (
	ExamInternal   = "internal"
	ExamMidterm    = "midterm"
	ExamFinal      = "final"
	ExamPractical  = "practical"
	ExamAssignment = "assignment"
)

// Record is one student's marks for one exam. The tuple
// (student, faculty, subject, exam type, semester, academic year) is
// upsert-unique: a second submission updates the existing row.
// Percentage, letter grade and grade points are derived from the raw score
// at write time and recomputed on every update.
type Record struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"` // student profile id
	FacultyID    string    `json:"faculty_id"` // authoring faculty profile id
	Subject      string    `json:"subject"`
	SubjectCode  string    `json:"subject_code"`
	ExamType     string    `json:"exam_type"`
	RawScore     float64   `json:"raw_score"`
	MaxScore     float64   `json:"max_score"`
	Percentage   float64   `json:"percentage"`   // derived
	LetterGrade  string    `json:"letter_grade"` // derived
	GradePoints  float64   `json:"grade_points"` // derived
	Credits      float64   `json:"credits"`
	Semester     int       `json:"semester"`
	AcademicYear string    `json:"academic_year"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Key is the upsert-uniqueness tuple.
type Key struct {
	StudentID    string
	FacultyID    string
	Subject      string
	ExamType     string
	Semester     int
	AcademicYear string
}

func (r Record) Key() Key {
	return Key{
		StudentID:    r.StudentID,
		FacultyID:    r.FacultyID,
		Subject:      r.Subject,
		ExamType:     r.ExamType,
		Semester:     r.Semester,
		AcademicYear: r.AcademicYear,
	}
}

// NewRecord contains information needed to submit marks.
type NewRecord struct {
	StudentID    string  `json:"student_id" validate:"required"`
	FacultyID    string  `json:"faculty_id"` // admin writers only; faculty write as themselves
	Subject      string  `json:"subject" validate:"required"`
	SubjectCode  string  `json:"subject_code" validate:"required"`
	ExamType     string  `json:"exam_type" validate:"required,oneof=internal midterm final practical assignment"`
	RawScore     float64 `json:"raw_score" validate:"min=0"`
	MaxScore     float64 `json:"max_score" validate:"required,gt=0"`
	Credits      float64 `json:"credits" validate:"required,gt=0,max=10"`
	Semester     int     `json:"semester" validate:"required,min=1,max=8"`
	AcademicYear string  `json:"academic_year" validate:"required,acadyear"`
	IsPublished  bool    `json:"is_published"`
}

func (nr *NewRecord) Validate(validate *validator.Validate, _ ut.Translator) error {
	nr.Subject = core.CleanString(nr.Subject)
	nr.SubjectCode = core.CleanString(nr.SubjectCode, true /* lower */)
	if err := validate.Struct(nr); err != nil {
		return err
	}
	if nr.RawScore > nr.MaxScore {
		return core.NewValidationError(nil,
			core.FieldError{Field: "raw_score", Error: "must not exceed max_score"})
	}
	return nil
}

// QueryFilter filters marks listings; scope is applied in the repository.
// PublishedOnly is forced on for student callers. AuthorID unions in records
// the faculty authored, regardless of the current roster.
type QueryFilter struct {
	Scope         core.ScopeFilter
	AuthorID      string
	PublishedOnly bool
	StudentID     string `query:"student_id"`
	Subject       string `query:"subject"`
	ExamType      string `query:"exam_type"`
	Semester      int    `query:"semester"`
	AcademicYear  string `query:"academic_year"`
}

// GPAReport is the on-demand recomputed GPA view for one student.
type GPAReport struct {
	StudentID     string  `json:"student_id"`
	Semester      int     `json:"semester,omitempty"`
	AcademicYear  string  `json:"academic_year,omitempty"`
	TermGPA       float64 `json:"term_gpa"`
	CumulativeGPA float64 `json:"cumulative_gpa"`
	TotalCredits  float64 `json:"total_credits"`
}
