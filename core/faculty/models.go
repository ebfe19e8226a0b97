package faculty

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/chuo/core"
)

const (
	PlaceholderDepartment  = "UNASSIGNED"
	PlaceholderDesignation = "Lecturer"
)

// Profile is a faculty member's profile; exactly one per faculty principal.
// The assigned-students relation is kept in its own registry (assignments
// table), not embedded here, so concurrent admin edits never race on an array.
type Profile struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"` // 1:1 with a faculty Principal
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewDefaultProfile returns the profile created on a faculty member's first
// authenticated access.
func NewDefaultProfile(ownerID string) Profile {
	now := time.Now().UTC()
	return Profile{
		OwnerID:     ownerID,
		Department:  PlaceholderDepartment,
		Designation: PlaceholderDesignation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type UpdateProfile struct {
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate, _ ut.Translator) error {
	up.Department = core.CleanString(up.Department)
	up.Designation = core.CleanString(up.Designation)
	return validate.Struct(up)
}
