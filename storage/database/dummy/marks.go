package dummydb

import (
	"context"

	"github.com/trezcool/chuo/core/marks"
)

type marksRepository struct {
	db *marksTable
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *DB) marks.Repository {
	return &marksRepository{db: db.marks}
}

// UpsertRecord matches on the uniqueness tuple under the write lock so two
// concurrent submissions of the same key end up in a single row.
func (repo *marksRepository) UpsertRecord(ctx context.Context, rec marks.Record) (marks.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := rec.Key()
	for _, existing := range repo.db.table {
		if existing.Key() == key {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			repo.db.table[rec.ID] = &rec
			return rec, nil
		}
	}
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *marksRepository) GetRecordByID(ctx context.Context, id string) (marks.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return marks.Record{}, marks.ErrNotFound
}

func (repo *marksRepository) FilterRecords(ctx context.Context, filter marks.QueryFilter) ([]marks.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]marks.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		// in scope, or authored by the requesting faculty
		if !filter.Scope.Allows(rec.StudentID) &&
			(filter.AuthorID == "" || rec.FacultyID != filter.AuthorID) {
			continue
		}
		if filter.PublishedOnly && !rec.IsPublished {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.Subject != "" && rec.Subject != filter.Subject {
			continue
		}
		if filter.ExamType != "" && rec.ExamType != filter.ExamType {
			continue
		}
		if filter.Semester != 0 && rec.Semester != filter.Semester {
			continue
		}
		if filter.AcademicYear != "" && rec.AcademicYear != filter.AcademicYear {
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

func (repo *marksRepository) UpdateRecord(ctx context.Context, rec marks.Record) (marks.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[rec.ID]; !ok {
		return marks.Record{}, marks.ErrNotFound
	}
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *marksRepository) DeleteRecord(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return marks.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
