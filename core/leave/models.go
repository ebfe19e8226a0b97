package leave

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
)

// Status of a leave application. pending is the only non-terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool { return s != StatusPending }

// Leave types.
const (
	TypeSick      = "sick"
	TypeCasual    = "casual"
	TypeMedical   = "medical"
	TypeEmergency = "emergency"
	TypeOther     = "other"
)

// Application is a student's leave request.
// TotalDays is fixed at creation (inclusive day count, or 0.5 for a
// half-day) and never changes afterwards.
type Application struct {
	ID             string      `json:"id"`
	StudentID      string      `json:"student_id"` // applicant's student profile id
	LeaveType      string      `json:"leave_type"`
	Reason         string      `json:"reason"`
	FromDate       time.Time   `json:"from_date"`
	ToDate         time.Time   `json:"to_date"`
	TotalDays      float64     `json:"total_days"` // derived at creation
	Status         Status      `json:"status"`
	ReviewerID     null.String `json:"reviewer_id"` // reviewing principal id
	ReviewComments null.String `json:"review_comments"`
	ReviewedAt     null.Time   `json:"reviewed_at"`
	CreatedAt      time.Time   `json:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at"` // UTC
}

// NewApplication contains information needed to apply for leave.
type NewApplication struct {
	LeaveType string    `json:"leave_type" validate:"required,oneof=sick casual medical emergency other"`
	Reason    string    `json:"reason" validate:"required,max=500"`
	FromDate  time.Time `json:"from_date" validate:"required"`
	ToDate    time.Time `json:"to_date" validate:"required"`
	HalfDay   bool      `json:"half_day"`
}

func (na *NewApplication) Validate(validate *validator.Validate, _ ut.Translator) error {
	na.Reason = core.CleanString(na.Reason)
	if err := validate.Struct(na); err != nil {
		return err
	}
	if na.ToDate.Before(na.FromDate) {
		return core.NewValidationError(nil,
			core.FieldError{Field: "to_date", Error: "must not be before from_date"})
	}
	return nil
}

// TotalDays derives the immutable day count: 0.5 with the half-day flag
// regardless of date span, otherwise the inclusive number of calendar days.
func (na NewApplication) TotalDays() float64 {
	if na.HalfDay {
		return 0.5
	}
	from := na.FromDate.Truncate(24 * time.Hour)
	to := na.ToDate.Truncate(24 * time.Hour)
	return to.Sub(from).Hours()/24 + 1
}

// Review is a faculty/admin decision on a pending application.
type Review struct {
	Approve  bool   `json:"approve"`
	Comments string `json:"comments" validate:"max=500"`
}

func (r *Review) Validate(validate *validator.Validate, _ ut.Translator) error {
	r.Comments = core.CleanString(r.Comments)
	return validate.Struct(r)
}

// QueryFilter filters leave listings; scope is applied in the repository.
type QueryFilter struct {
	Scope     core.ScopeFilter
	StudentID string `query:"student_id"`
	Status    Status `query:"status"`
	LeaveType string `query:"leave_type"`
}
