package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/chuo/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

// GetOrCreateProfile holds the write lock across the lookup and the insert so
// concurrent first accesses for the same owner yield exactly one profile.
func (repo *studentRepository) GetOrCreateProfile(ctx context.Context, deflt student.Profile) (student.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, prof := range repo.db.table {
		if prof.OwnerID == deflt.OwnerID {
			return *prof, nil
		}
	}
	deflt.ID = uuid.New().String()
	repo.db.table[deflt.ID] = &deflt
	return deflt, nil
}

func (repo *studentRepository) GetProfileByID(ctx context.Context, id string) (student.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prof, ok := repo.db.table[id]; ok {
		return *prof, nil
	}
	return student.Profile{}, student.ErrNotFound
}

func (repo *studentRepository) GetProfileByOwner(ctx context.Context, ownerID string) (student.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, prof := range repo.db.table {
		if prof.OwnerID == ownerID {
			return *prof, nil
		}
	}
	return student.Profile{}, student.ErrNotFound
}

func (repo *studentRepository) FilterProfiles(ctx context.Context, filter student.QueryFilter) ([]student.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	profs := make([]student.Profile, 0, len(repo.db.table))
	for _, prof := range repo.db.table {
		if !filter.Scope.Allows(prof.ID) {
			continue
		}
		if filter.Course != "" && prof.Course != filter.Course {
			continue
		}
		if filter.Semester != 0 && prof.Semester != filter.Semester {
			continue
		}
		if filter.Department != "" && prof.Department != filter.Department {
			continue
		}
		profs = append(profs, *prof)
	}
	return profs, nil
}

func (repo *studentRepository) UpdateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[prof.ID]; !ok {
		return student.Profile{}, student.ErrNotFound
	}
	repo.db.table[prof.ID] = &prof
	return prof, nil
}

func (repo *studentRepository) UpdateAcademicStanding(ctx context.Context, id string, gpa, credits float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	prof, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	prof.CumulativeGPA = gpa
	prof.TotalCredits = credits
	prof.UpdatedAt = time.Now().UTC()
	return nil
}
