package leave

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/scope"
	"github.com/trezcool/chuo/core/student"
	"github.com/trezcool/chuo/core/user"
)

var (
	ErrNotFound = core.ErrNotFound

	// ErrInvalidTransition is returned when a transition is attempted from a
	// terminal state; approved/rejected/cancelled applications never change.
	ErrInvalidTransition = errors.New("leave application is no longer pending")
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		GetApplicationByID(ctx context.Context, id string) (Application, error)
		FilterApplications(ctx context.Context, filter QueryFilter) ([]Application, error)
		UpdateApplication(ctx context.Context, app Application) (Application, error)
	}

	Service struct {
		repo     Repository
		scope    *scope.Resolver
		students student.Repository
		users    user.Repository
		mail     core.EmailService
	}
)

func NewService(repo Repository, resolver *scope.Resolver, students student.Repository, users user.Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo:     repo,
		scope:    resolver,
		students: students,
		users:    users,
		mail:     mailSvc,
	}
}

// Apply files a leave application for the calling student.
func (svc *Service) Apply(ctx context.Context, p core.Principal, na NewApplication) (Application, error) {
	prof, err := svc.scope.StudentProfile(ctx, p)
	if err != nil {
		return Application{}, err
	}

	now := time.Now().UTC()
	app := Application{
		ID:        uuid.New().String(),
		StudentID: prof.ID,
		LeaveType: na.LeaveType,
		Reason:    na.Reason,
		FromDate:  na.FromDate,
		ToDate:    na.ToDate,
		TotalDays: na.TotalDays(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	app, err = svc.repo.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "creating leave application")
	}
	return app, nil
}

// Filter lists applications within the caller's scope.
func (svc *Service) Filter(ctx context.Context, p core.Principal, filter QueryFilter) ([]Application, error) {
	sf, err := svc.scope.Resolve(ctx, p, filter.StudentID)
	if err != nil {
		return nil, err
	}
	filter.Scope = sf
	return svc.repo.FilterApplications(ctx, filter)
}

// Get returns one application if it is within the caller's scope.
func (svc *Service) Get(ctx context.Context, p core.Principal, id string) (Application, error) {
	app, err := svc.repo.GetApplicationByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if _, err = svc.scope.Resolve(ctx, p, app.StudentID); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Decide approves or rejects a pending application. Only an admin, or a
// faculty member with the applicant among their assigned students, may
// decide; a student can never review — not even their own.
func (svc *Service) Decide(ctx context.Context, p core.Principal, id string, rv Review) (Application, error) {
	if p.IsStudent() {
		return Application{}, core.ErrAccessDenied
	}

	app, err := svc.repo.GetApplicationByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	// faculty: applicant must be currently assigned; admin: unrestricted
	if _, err = svc.scope.Resolve(ctx, p, app.StudentID); err != nil {
		return Application{}, err
	}
	if app.Status.Terminal() {
		return Application{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	app.Status = StatusRejected
	if rv.Approve {
		app.Status = StatusApproved
	}
	app.ReviewerID = null.StringFrom(p.ID)
	app.ReviewComments = null.NewString(rv.Comments, rv.Comments != "")
	app.ReviewedAt = null.TimeFrom(now)
	app.UpdatedAt = now

	app, err = svc.repo.UpdateApplication(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "updating leave application")
	}

	svc.notifyDecision(ctx, app)
	return app, nil
}

// Cancel withdraws a pending application; only the applicant may cancel.
func (svc *Service) Cancel(ctx context.Context, p core.Principal, id string) (Application, error) {
	if !p.IsStudent() {
		return Application{}, core.ErrAccessDenied
	}
	prof, err := svc.scope.StudentProfile(ctx, p)
	if err != nil {
		return Application{}, err
	}

	app, err := svc.repo.GetApplicationByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if app.StudentID != prof.ID {
		return Application{}, core.ErrAccessDenied
	}
	if app.Status.Terminal() {
		return Application{}, ErrInvalidTransition
	}

	app.Status = StatusCancelled
	app.UpdatedAt = time.Now().UTC()

	app, err = svc.repo.UpdateApplication(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "updating leave application")
	}
	return app, nil
}

// notifyDecision emails the applicant. Fire-and-forget: lookup or delivery
// failures never fail the decision that triggered them.
func (svc *Service) notifyDecision(ctx context.Context, app Application) {
	prof, err := svc.students.GetProfileByID(ctx, app.StudentID)
	if err != nil {
		return
	}
	usr, err := svc.users.GetUserByID(ctx, prof.OwnerID)
	if err != nil {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: fmt.Sprintf("Your leave application has been %s", app.Status),
		BodyStr: fmt.Sprintf(
			"Your %s leave application from %s to %s (%v day(s)) has been %s.\n%s",
			app.LeaveType,
			app.FromDate.Format("2006-01-02"),
			app.ToDate.Format("2006-01-02"),
			app.TotalDays,
			app.Status,
			app.ReviewComments.String,
		),
	})
}
