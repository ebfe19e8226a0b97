package resource

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/student"
	"github.com/trezcool/chuo/core/target"
)

// Resource is a study material (file) shared by a faculty member, targeted
// like a notice, with one extra rule: IsPublic alone grants visibility.
type Resource struct {
	ID             string       `json:"id"`
	OwnerFacultyID string       `json:"owner_faculty_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Subject        string       `json:"subject"`
	FilePath       string       `json:"-"` // FileStore path; never exposed
	FileName       string       `json:"file_name"`
	ContentType    string       `json:"content_type"`
	IsPublic       bool         `json:"is_public"`
	Target         target.Group `json:"target"`
	IsActive       bool         `json:"is_active"`
	ExpiresAt      null.Time    `json:"expires_at"`
	CreatedAt      time.Time    `json:"created_at"` // UTC
	UpdatedAt      time.Time    `json:"updated_at"` // UTC
}

// VisibleTo evaluates visibility for a student. IsPublic bypasses the
// targeting rule only; a deactivated or expired resource is hidden either way.
func (r Resource) VisibleTo(prof student.Profile, now time.Time) bool {
	if !target.Live(r.IsActive, r.ExpiresAt, now) {
		return false
	}
	return r.IsPublic || r.Target.Matches(prof)
}

// NewResource contains information needed to share a resource.
// The file itself is stored through core.FileStore; this carries metadata.
type NewResource struct {
	OwnerFacultyID string       `json:"owner_faculty_id"` // admin publishers only
	Title          string       `json:"title" validate:"required,max=200"`
	Description    string       `json:"description"`
	Subject        string       `json:"subject" validate:"required"`
	FileName       string       `json:"file_name" validate:"required"`
	ContentType    string       `json:"content_type" validate:"required"`
	IsPublic       bool         `json:"is_public"`
	Target         target.Group `json:"target"`
	ExpiresAt      null.Time    `json:"expires_at"`
}

func (nr *NewResource) Validate(validate *validator.Validate, _ ut.Translator) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	nr.Subject = core.CleanString(nr.Subject)
	return validate.Struct(nr)
}

// QueryFilter filters resource listings.
type QueryFilter struct {
	OwnerFacultyID string
	ActiveOnly     bool
	Subject        string `query:"subject"`
}
