package notice

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/student"
	"github.com/trezcool/chuo/core/target"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notice is an announcement published by a faculty member (or admin) and
// targeted at a set of students.
type Notice struct {
	ID             string       `json:"id"`
	OwnerFacultyID string       `json:"owner_faculty_id"`
	Title          string       `json:"title"`
	Body           string       `json:"body"`
	Priority       string       `json:"priority"`
	Target         target.Group `json:"target"`
	IsActive       bool         `json:"is_active"`
	ExpiresAt      null.Time    `json:"expires_at"`
	CreatedAt      time.Time    `json:"created_at"` // UTC
	UpdatedAt      time.Time    `json:"updated_at"` // UTC
}

// VisibleTo evaluates targeting against the student's current profile.
func (n Notice) VisibleTo(prof student.Profile, now time.Time) bool {
	return target.Visible(prof, n.Target, n.IsActive, n.ExpiresAt, now)
}

// NewNotice contains information needed to publish a notice.
type NewNotice struct {
	OwnerFacultyID string       `json:"owner_faculty_id"` // admin publishers only
	Title          string       `json:"title" validate:"required,max=200"`
	Body           string       `json:"body" validate:"required"`
	Priority       string       `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Target         target.Group `json:"target"`
	ExpiresAt      null.Time    `json:"expires_at"`
}

func (nn *NewNotice) Validate(validate *validator.Validate, _ ut.Translator) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Body = core.CleanString(nn.Body)
	if nn.Priority == "" {
		nn.Priority = PriorityNormal
	}
	if err := validate.Struct(nn); err != nil {
		return err
	}
	if nn.ExpiresAt.Valid && !nn.ExpiresAt.Time.After(time.Now()) {
		return core.NewValidationError(nil,
			core.FieldError{Field: "expires_at", Error: "must be in the future"})
	}
	return nil
}

// QueryFilter filters notice listings.
type QueryFilter struct {
	OwnerFacultyID string
	ActiveOnly     bool
	Priority       string `query:"priority"`
}
