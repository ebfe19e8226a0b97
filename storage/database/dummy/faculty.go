package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/chuo/core/faculty"
)

type facultyRepository struct {
	db *facultyTable
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) faculty.Repository {
	return &facultyRepository{db: db.faculty}
}

func (repo *facultyRepository) GetOrCreateProfile(ctx context.Context, deflt faculty.Profile) (faculty.Profile, error) {
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

func (repo *facultyRepository) GetProfileByID(ctx context.Context, id string) (faculty.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prof, ok := repo.db.table[id]; ok {
		return *prof, nil
	}
	return faculty.Profile{}, faculty.ErrNotFound
}

func (repo *facultyRepository) GetProfileByOwner(ctx context.Context, ownerID string) (faculty.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, prof := range repo.db.table {
		if prof.OwnerID == ownerID {
			return *prof, nil
		}
	}
	return faculty.Profile{}, faculty.ErrNotFound
}

func (repo *facultyRepository) QueryAllProfiles(ctx context.Context) ([]faculty.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	profs := make([]faculty.Profile, 0, len(repo.db.table))
	for _, prof := range repo.db.table {
		profs = append(profs, *prof)
	}
	return profs, nil
}

func (repo *facultyRepository) UpdateProfile(ctx context.Context, prof faculty.Profile) (faculty.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[prof.ID]; !ok {
		return faculty.Profile{}, faculty.ErrNotFound
	}
	repo.db.table[prof.ID] = &prof
	return prof, nil
}

func (repo *facultyRepository) Assign(ctx context.Context, facultyID, studentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	roster, ok := repo.db.assignments[facultyID]
	if !ok {
		roster = make(map[string]bool)
		repo.db.assignments[facultyID] = roster
	}
	roster[studentID] = true
	return nil
}

func (repo *facultyRepository) Unassign(ctx context.Context, facultyID, studentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if roster, ok := repo.db.assignments[facultyID]; ok {
		delete(roster, studentID)
	}
	return nil
}

func (repo *facultyRepository) IsAssigned(ctx context.Context, facultyID, studentID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.db.assignments[facultyID][studentID], nil
}

func (repo *facultyRepository) AssignedStudentIDs(ctx context.Context, facultyID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	roster := repo.db.assignments[facultyID]
	ids := make([]string, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
