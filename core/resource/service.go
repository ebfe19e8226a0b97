package resource

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/scope"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateResource(ctx context.Context, r Resource) (Resource, error)
		GetResourceByID(ctx context.Context, id string) (Resource, error)
		FilterResources(ctx context.Context, filter QueryFilter) ([]Resource, error)
		UpdateResource(ctx context.Context, r Resource) (Resource, error)
		DeleteResource(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		files core.FileStore
		scope *scope.Resolver
	}
)

func NewService(repo Repository, files core.FileStore, resolver *scope.Resolver) *Service {
	return &Service{repo: repo, files: files, scope: resolver}
}

// Create stores the file content and the resource metadata. Faculty share as
// themselves; admin must name the owning faculty profile.
func (svc *Service) Create(ctx context.Context, p core.Principal, nr NewResource, content io.Reader) (Resource, error) {
	ownerID, err := svc.ownerFacultyID(ctx, p, nr.OwnerFacultyID)
	if err != nil {
		return Resource{}, err
	}

	now := time.Now().UTC()
	r := Resource{
		ID:             uuid.New().String(),
		OwnerFacultyID: ownerID,
		Title:          nr.Title,
		Description:    nr.Description,
		Subject:        nr.Subject,
		FileName:       nr.FileName,
		ContentType:    nr.ContentType,
		IsPublic:       nr.IsPublic,
		Target:         nr.Target,
		IsActive:       true,
		ExpiresAt:      nr.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	storedPath, err := svc.files.Store(ctx, path.Join("resources", r.ID, nr.FileName), content)
	if err != nil {
		return Resource{}, errors.Wrap(err, "storing resource file")
	}
	r.FilePath = storedPath

	r, err = svc.repo.CreateResource(ctx, r)
	if err != nil {
		return Resource{}, errors.Wrap(err, "creating resource")
	}
	return r, nil
}

// Query mirrors notice listing: students get visible resources (public or
// targeted), faculty their own, admin everything.
func (svc *Service) Query(ctx context.Context, p core.Principal, filter QueryFilter) ([]Resource, error) {
	switch {
	case p.IsAdmin():
		return svc.repo.FilterResources(ctx, filter)

	case p.IsFaculty():
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		filter.OwnerFacultyID = prof.ID
		return svc.repo.FilterResources(ctx, filter)

	case p.IsStudent():
		prof, err := svc.scope.StudentProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		filter.ActiveOnly = true
		candidates, err := svc.repo.FilterResources(ctx, filter)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		visible := make([]Resource, 0, len(candidates))
		for _, r := range candidates {
			if r.VisibleTo(prof, now) {
				visible = append(visible, r)
			}
		}
		return visible, nil
	}
	return nil, core.ErrAccessDenied
}

// Download gates file retrieval on visibility, then defers to the FileStore.
// The gate decides *whether*; streaming is the store's problem.
func (svc *Service) Download(ctx context.Context, p core.Principal, id string) (Resource, io.ReadCloser, error) {
	r, err := svc.repo.GetResourceByID(ctx, id)
	if err != nil {
		return Resource{}, nil, err
	}

	allowed := false
	switch {
	case p.IsAdmin():
		allowed = true
	case p.IsFaculty():
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return Resource{}, nil, err
		}
		allowed = r.OwnerFacultyID == prof.ID
	case p.IsStudent():
		prof, err := svc.scope.StudentProfile(ctx, p)
		if err != nil {
			return Resource{}, nil, err
		}
		allowed = r.VisibleTo(prof, time.Now().UTC())
	}
	if !allowed {
		return Resource{}, nil, core.ErrAccessDenied
	}

	rc, err := svc.files.Retrieve(ctx, r.FilePath)
	if err != nil {
		return Resource{}, nil, errors.Wrap(err, "retrieving resource file")
	}
	return r, rc, nil
}

func (svc *Service) Delete(ctx context.Context, p core.Principal, id string) error {
	r, err := svc.repo.GetResourceByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return err
		}
		if r.OwnerFacultyID != prof.ID {
			return core.ErrAccessDenied
		}
	}
	return svc.repo.DeleteResource(ctx, r.ID)
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
