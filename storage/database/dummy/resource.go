package dummydb

import (
	"context"

	"github.com/trezcool/chuo/core/resource"
)

type resourceRepository struct {
	db *resourceTable
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *DB) resource.Repository {
	return &resourceRepository{db: db.resource}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, r resource.Resource) (resource.Resource, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *resourceRepository) GetResourceByID(ctx context.Context, id string) (resource.Resource, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return resource.Resource{}, resource.ErrNotFound
}

func (repo *resourceRepository) FilterResources(ctx context.Context, filter resource.QueryFilter) ([]resource.Resource, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	resources := make([]resource.Resource, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		if filter.OwnerFacultyID != "" && r.OwnerFacultyID != filter.OwnerFacultyID {
			continue
		}
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if filter.Subject != "" && r.Subject != filter.Subject {
			continue
		}
		resources = append(resources, *r)
	}
	return resources, nil
}

func (repo *resourceRepository) UpdateResource(ctx context.Context, r resource.Resource) (resource.Resource, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return resource.Resource{}, resource.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *resourceRepository) DeleteResource(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return resource.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
