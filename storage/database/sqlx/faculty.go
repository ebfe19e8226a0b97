package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/faculty"
)

type facultyRow struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Department  string    `db:"department"`
	Designation string    `db:"designation"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r facultyRow) toProfile() faculty.Profile {
	return faculty.Profile(r)
}

type facultyRepository struct {
	db *sqlx.DB
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *sqlx.DB) faculty.Repository {
	return &facultyRepository{db: db}
}

func (repo *facultyRepository) GetOrCreateProfile(ctx context.Context, deflt faculty.Profile) (faculty.Profile, error) {
	q := `
	INSERT INTO faculty_profiles (id, owner_id, department, designation, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (owner_id) DO NOTHING`
	_, err := repo.db.ExecContext(ctx, q,
		uuid.New().String(), deflt.OwnerID, deflt.Department, deflt.Designation, deflt.CreatedAt, deflt.UpdatedAt,
	)
	if err != nil {
		return faculty.Profile{}, errors.Wrap(err, "inserting faculty profile")
	}
	return repo.GetProfileByOwner(ctx, deflt.OwnerID)
}

func (repo *facultyRepository) GetProfileByID(ctx context.Context, id string) (faculty.Profile, error) {
	var row facultyRow
	q := `SELECT * FROM faculty_profiles WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return faculty.Profile{}, faculty.ErrNotFound
		}
		return faculty.Profile{}, errors.Wrap(err, "selecting faculty profile")
	}
	return row.toProfile(), nil
}

func (repo *facultyRepository) GetProfileByOwner(ctx context.Context, ownerID string) (faculty.Profile, error) {
	var row facultyRow
	q := `SELECT * FROM faculty_profiles WHERE owner_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return faculty.Profile{}, faculty.ErrNotFound
		}
		return faculty.Profile{}, errors.Wrap(err, "selecting faculty profile")
	}
	return row.toProfile(), nil
}

func (repo *facultyRepository) QueryAllProfiles(ctx context.Context) ([]faculty.Profile, error) {
	var rows []facultyRow
	q := `SELECT * FROM faculty_profiles ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting faculty profiles")
	}

	profs := make([]faculty.Profile, 0, len(rows))
	for _, row := range rows {
		profs = append(profs, row.toProfile())
	}
	return profs, nil
}

func (repo *facultyRepository) UpdateProfile(ctx context.Context, prof faculty.Profile) (faculty.Profile, error) {
	q := `UPDATE faculty_profiles SET department = $2, designation = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, prof.ID, prof.Department, prof.Designation, prof.UpdatedAt)
	if err != nil {
		return faculty.Profile{}, errors.Wrap(err, "updating faculty profile")
	}
	if err = ensureFound(res); err != nil {
		return faculty.Profile{}, err
	}
	return prof, nil
}

// Assign is idempotent: re-assigning an existing pair is a no-op.
func (repo *facultyRepository) Assign(ctx context.Context, facultyID, studentID string) error {
	q := `
	INSERT INTO faculty_assignments (faculty_id, student_id)
	VALUES ($1, $2)
	ON CONFLICT (faculty_id, student_id) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, q, facultyID, studentID); err != nil {
		return errors.Wrap(err, "inserting assignment")
	}
	return nil
}

func (repo *facultyRepository) Unassign(ctx context.Context, facultyID, studentID string) error {
	q := `DELETE FROM faculty_assignments WHERE faculty_id = $1 AND student_id = $2`
	if _, err := repo.db.ExecContext(ctx, q, facultyID, studentID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}

func (repo *facultyRepository) IsAssigned(ctx context.Context, facultyID, studentID string) (bool, error) {
	var assigned bool
	q := `SELECT EXISTS (SELECT 1 FROM faculty_assignments WHERE faculty_id = $1 AND student_id = $2)`
	if err := repo.db.GetContext(ctx, &assigned, q, facultyID, studentID); err != nil {
		return false, errors.Wrap(err, "checking assignment")
	}
	return assigned, nil
}

func (repo *facultyRepository) AssignedStudentIDs(ctx context.Context, facultyID string) ([]string, error) {
	var ids []string
	q := `SELECT student_id FROM faculty_assignments WHERE faculty_id = $1 ORDER BY student_id`
	if err := repo.db.SelectContext(ctx, &ids, q, facultyID); err != nil {
		return nil, errors.Wrap(err, "selecting assigned students")
	}
	return ids, nil
}
