package dummydb

import (
	"context"

	"github.com/trezcool/chuo/core/leave"
)

type leaveRepository struct {
	db *leaveTable
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *DB) leave.Repository {
	return &leaveRepository{db: db.leave}
}

func (repo *leaveRepository) CreateApplication(ctx context.Context, app leave.Application) (leave.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[app.ID] = &app
	return app, nil
}

func (repo *leaveRepository) GetApplicationByID(ctx context.Context, id string) (leave.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if app, ok := repo.db.table[id]; ok {
		return *app, nil
	}
	return leave.Application{}, leave.ErrNotFound
}

func (repo *leaveRepository) FilterApplications(ctx context.Context, filter leave.QueryFilter) ([]leave.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	apps := make([]leave.Application, 0, len(repo.db.table))
	for _, app := range repo.db.table {
		if !filter.Scope.Allows(app.StudentID) {
			continue
		}
		if filter.StudentID != "" && app.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.LeaveType != "" && app.LeaveType != filter.LeaveType {
			continue
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

func (repo *leaveRepository) UpdateApplication(ctx context.Context, app leave.Application) (leave.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[app.ID]; !ok {
		return leave.Application{}, leave.ErrNotFound
	}
	repo.db.table[app.ID] = &app
	return app, nil
}
