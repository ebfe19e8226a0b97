package student

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/chuo/core"
)

// Placeholder values a lazily-created profile starts with; kept searchable
// so admins can find profiles that were never completed.
const (
	PlaceholderCourse     = "UNASSIGNED"
	PlaceholderDepartment = "UNASSIGNED"
)

// Profile is a student's academic profile; exactly one per student principal.
type Profile struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"` // 1:1 with a student Principal
	Course         string    `json:"course"`
	Semester       int       `json:"semester"` // 1..8
	Department     string    `json:"department"`
	EnrollmentYear int       `json:"enrollment_year"`
	CumulativeGPA  float64   `json:"cumulative_gpa"`
	TotalCredits   float64   `json:"total_credits"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// NewDefaultProfile returns the profile created on a student's first
// authenticated access, before an admin completes it.
func NewDefaultProfile(ownerID string) Profile {
	now := time.Now().UTC()
	return Profile{
		OwnerID:        ownerID,
		Course:         PlaceholderCourse,
		Semester:       1,
		Department:     PlaceholderDepartment,
		EnrollmentYear: now.Year(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdateProfile defines what may be modified on an existing Profile.
// Derived fields (cumulative GPA, credits) are never updated through here.
type UpdateProfile struct {
	Course         string `json:"course"`
	Semester       int    `json:"semester" validate:"omitempty,min=1,max=8"`
	Department     string `json:"department"`
	EnrollmentYear int    `json:"enrollment_year" validate:"omitempty,min=1990"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate, _ ut.Translator) error {
	up.Course = core.CleanString(up.Course)
	up.Department = core.CleanString(up.Department)
	return validate.Struct(up)
}

// QueryFilter filters roster listings; scope is applied in the repository.
type QueryFilter struct {
	Scope      core.ScopeFilter
	Course     string `query:"course"`
	Semester   int    `query:"semester"`
	Department string `query:"department"`
}
