package student

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
		// default one atomically if absent. Concurrent first accesses for the
		// same owner must yield exactly one profile (insert-if-absent).
		GetOrCreateProfile(ctx context.Context, deflt Profile) (Profile, error)
		GetProfileByID(ctx context.Context, id string) (Profile, error)
		GetProfileByOwner(ctx context.Context, ownerID string) (Profile, error)
		FilterProfiles(ctx context.Context, filter QueryFilter) ([]Profile, error)
		UpdateProfile(ctx context.Context, prof Profile) (Profile, error)
		// UpdateAcademicStanding persists a freshly recomputed cumulative GPA.
		UpdateAcademicStanding(ctx context.Context, id string, gpa, credits float64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a profile if it is within the caller's scope.
func (svc *Service) Get(ctx context.Context, scope core.ScopeFilter, id string) (Profile, error) {
	prof, err := svc.repo.GetProfileByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if !scope.Allows(prof.ID) {
		return Profile{}, core.ErrAccessDenied
	}
	return prof, nil
}

// Filter lists the roster visible to the caller's scope.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Profile, error) {
	return svc.repo.FilterProfiles(ctx, filter)
}

// Update soft-updates profile fields; owner (their own) or admin only —
// enforced by the caller via scope.
func (svc *Service) Update(ctx context.Context, scope core.ScopeFilter, id string, up UpdateProfile) (Profile, error) {
	prof, err := svc.Get(ctx, scope, id)
	if err != nil {
		return Profile{}, err
	}

	if up.Course != "" {
		prof.Course = up.Course
	}
	if up.Semester != 0 {
		prof.Semester = up.Semester
	}
	if up.Department != "" {
		prof.Department = up.Department
	}
	if up.EnrollmentYear != 0 {
		prof.EnrollmentYear = up.EnrollmentYear
	}
	prof.UpdatedAt = time.Now().UTC()

	prof, err = svc.repo.UpdateProfile(ctx, prof)
	if err != nil {
		return Profile{}, errors.Wrap(err, "updating student profile")
	}
	return prof, nil
}
