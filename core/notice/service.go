package notice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/scope"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateNotice(ctx context.Context, n Notice) (Notice, error)
		GetNoticeByID(ctx context.Context, id string) (Notice, error)
		FilterNotices(ctx context.Context, filter QueryFilter) ([]Notice, error)
		UpdateNotice(ctx context.Context, n Notice) (Notice, error)
		DeleteNotice(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		scope *scope.Resolver
	}
)

func NewService(repo Repository, resolver *scope.Resolver) *Service {
	return &Service{repo: repo, scope: resolver}
}

// Create publishes a notice. Faculty publish as themselves; admin must name
// the owning faculty profile.
func (svc *Service) Create(ctx context.Context, p core.Principal, nn NewNotice) (Notice, error) {
	ownerID, err := svc.ownerFacultyID(ctx, p, nn.OwnerFacultyID)
	if err != nil {
		return Notice{}, err
	}

	now := time.Now().UTC()
	n := Notice{
		ID:             uuid.New().String(),
		OwnerFacultyID: ownerID,
		Title:          nn.Title,
		Body:           nn.Body,
		Priority:       nn.Priority,
		Target:         nn.Target,
		IsActive:       true,
		ExpiresAt:      nn.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	n, err = svc.repo.CreateNotice(ctx, n)
	if err != nil {
		return Notice{}, errors.Wrap(err, "creating notice")
	}
	return n, nil
}

// Query lists notices for the caller: students get active, unexpired notices
// targeted at their current profile (evaluated per request, never
// precomputed); faculty get their own; admin gets everything.
func (svc *Service) Query(ctx context.Context, p core.Principal, filter QueryFilter) ([]Notice, error) {
	switch {
	case p.IsAdmin():
		return svc.repo.FilterNotices(ctx, filter)

	case p.IsFaculty():
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		filter.OwnerFacultyID = prof.ID
		return svc.repo.FilterNotices(ctx, filter)

	case p.IsStudent():
		prof, err := svc.scope.StudentProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		filter.ActiveOnly = true
		candidates, err := svc.repo.FilterNotices(ctx, filter)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		visible := make([]Notice, 0, len(candidates))
		for _, n := range candidates {
			if n.VisibleTo(prof, now) {
				visible = append(visible, n)
			}
		}
		return visible, nil
	}
	return nil, core.ErrAccessDenied
}

// Deactivate retires a notice; owner faculty or admin only.
func (svc *Service) Deactivate(ctx context.Context, p core.Principal, id string) (Notice, error) {
	n, err := svc.getOwned(ctx, p, id)
	if err != nil {
		return Notice{}, err
	}
	if n.IsActive {
		n.IsActive = false
		n.UpdatedAt = time.Now().UTC()
		if n, err = svc.repo.UpdateNotice(ctx, n); err != nil {
			return Notice{}, errors.Wrap(err, "deactivating notice")
		}
	}
	return n, nil
}

func (svc *Service) Delete(ctx context.Context, p core.Principal, id string) error {
	n, err := svc.getOwned(ctx, p, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteNotice(ctx, n.ID)
}

func (svc *Service) ownerFacultyID(ctx context.Context, p core.Principal, given string) (string, error) {
	if p.IsFaculty() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return "", err
		}
		return prof.ID, nil
	}
	if !p.IsAdmin() {
		return "", core.ErrAccessDenied
	}
	if given == "" {
		return "", core.NewValidationError(nil,
			core.FieldError{Field: "owner_faculty_id", Error: "this field is required"})
	}
	return given, nil
}

func (svc *Service) getOwned(ctx context.Context, p core.Principal, id string) (Notice, error) {
	n, err := svc.repo.GetNoticeByID(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	if p.IsAdmin() {
		return n, nil
	}
	if p.IsFaculty() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return Notice{}, err
		}
		if n.OwnerFacultyID == prof.ID {
			return n, nil
		}
	}
	return Notice{}, core.ErrAccessDenied
}
