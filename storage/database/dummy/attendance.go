package dummydb

import (
	"context"

	"github.com/trezcool/chuo/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, id string) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) FilterRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		// in scope, or authored by the requesting faculty
		if !filter.Scope.Allows(rec.StudentID) &&
			(filter.AuthorID == "" || rec.FacultyID != filter.AuthorID) {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.Subject != "" && rec.Subject != filter.Subject {
			continue
		}
		if filter.Semester != 0 && rec.Semester != filter.Semester {
			continue
		}
		if filter.AcademicYear != "" && rec.AcademicYear != filter.AcademicYear {
			continue
		}
		if !filter.DateFrom.IsZero() && rec.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && rec.Date.After(filter.DateTo) {
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[rec.ID]; !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return attendance.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
