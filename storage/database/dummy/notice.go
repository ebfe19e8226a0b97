package dummydb

import (
	"context"

	"github.com/trezcool/chuo/core/notice"
)

type noticeRepository struct {
	db *noticeTable
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *DB) notice.Repository {
	return &noticeRepository{db: db.notice}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id string) (notice.Notice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return notice.Notice{}, notice.ErrNotFound
}

func (repo *noticeRepository) FilterNotices(ctx context.Context, filter notice.QueryFilter) ([]notice.Notice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notices := make([]notice.Notice, 0, len(repo.db.table))
	for _, n := range repo.db.table {
		if filter.OwnerFacultyID != "" && n.OwnerFacultyID != filter.OwnerFacultyID {
			continue
		}
		if filter.ActiveOnly && !n.IsActive {
			continue
		}
		if filter.Priority != "" && n.Priority != filter.Priority {
			continue
		}
		notices = append(notices, *n)
	}
	return notices, nil
}

func (repo *noticeRepository) UpdateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[n.ID]; !ok {
		return notice.Notice{}, notice.ErrNotFound
	}
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noticeRepository) DeleteNotice(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return notice.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
