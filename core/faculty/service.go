package faculty

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		// GetOrCreateProfile returns the profile owned by ownerID, creating the
		// default one atomically if absent (insert-if-absent).
		GetOrCreateProfile(ctx context.Context, deflt Profile) (Profile, error)
		GetProfileByID(ctx context.Context, id string) (Profile, error)
		GetProfileByOwner(ctx context.Context, ownerID string) (Profile, error)
		QueryAllProfiles(ctx context.Context) ([]Profile, error)
		UpdateProfile(ctx context.Context, prof Profile) (Profile, error)

		// Assignment registry. Add/remove are atomic per pair; Assign is
		// idempotent (re-assigning an existing pair is not an error).
		Assign(ctx context.Context, facultyID, studentID string) error
		Unassign(ctx context.Context, facultyID, studentID string) error
		IsAssigned(ctx context.Context, facultyID, studentID string) (bool, error)
		AssignedStudentIDs(ctx context.Context, facultyID string) ([]string, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfileByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Profile, error) {
	return svc.repo.QueryAllProfiles(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateProfile) (Profile, error) {
	prof, err := svc.repo.GetProfileByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if up.Department != "" {
		prof.Department = up.Department
	}
	if up.Designation != "" {
		prof.Designation = up.Designation
	}
	prof.UpdatedAt = time.Now().UTC()

	prof, err = svc.repo.UpdateProfile(ctx, prof)
	if err != nil {
		return Profile{}, errors.Wrap(err, "updating faculty profile")
	}
	return prof, nil
}

// Assign adds a student to a faculty's roster. Admin-only: enforced by the
// caller, not here (business rule lives with the transport layer).
// Unassigning later does not hide records the faculty already authored.
func (svc *Service) Assign(ctx context.Context, facultyID, studentID string) error {
	return svc.repo.Assign(ctx, facultyID, studentID)
}

func (svc *Service) Unassign(ctx context.Context, facultyID, studentID string) error {
	return svc.repo.Unassign(ctx, facultyID, studentID)
}

func (svc *Service) IsAssigned(ctx context.Context, facultyID, studentID string) (bool, error) {
	return svc.repo.IsAssigned(ctx, facultyID, studentID)
}

func (svc *Service) AssignedStudentIDs(ctx context.Context, facultyID string) ([]string, error) {
	return svc.repo.AssignedStudentIDs(ctx, facultyID)
}
