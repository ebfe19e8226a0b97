package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/student"
)

type studentRow struct {
	ID             string    `db:"id"`
	OwnerID        string    `db:"owner_id"`
	Course         string    `db:"course"`
	Semester       int       `db:"semester"`
	Department     string    `db:"department"`
	EnrollmentYear int       `db:"enrollment_year"`
	CumulativeGPA  float64   `db:"cumulative_gpa"`
	TotalCredits   float64   `db:"total_credits"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r studentRow) toProfile() student.Profile {
	return student.Profile(r)
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

// GetOrCreateProfile relies on the owner_id unique constraint: the insert is
// a no-op when a concurrent request already created the row, and the follow-up
// select returns whichever row won.
func (repo *studentRepository) GetOrCreateProfile(ctx context.Context, deflt student.Profile) (student.Profile, error) {
	q := `
	INSERT INTO student_profiles (id, owner_id, course, semester, department, enrollment_year, cumulative_gpa, total_credits, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (owner_id) DO NOTHING`
	_, err := repo.db.ExecContext(ctx, q,
		uuid.New().String(), deflt.OwnerID, deflt.Course, deflt.Semester, deflt.Department,
		deflt.EnrollmentYear, deflt.CumulativeGPA, deflt.TotalCredits, deflt.CreatedAt, deflt.UpdatedAt,
	)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "inserting student profile")
	}
	return repo.GetProfileByOwner(ctx, deflt.OwnerID)
}

func (repo *studentRepository) GetProfileByID(ctx context.Context, id string) (student.Profile, error) {
	var row studentRow
	q := `SELECT * FROM student_profiles WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Profile{}, student.ErrNotFound
		}
		return student.Profile{}, errors.Wrap(err, "selecting student profile")
	}
	return row.toProfile(), nil
}

func (repo *studentRepository) GetProfileByOwner(ctx context.Context, ownerID string) (student.Profile, error) {
	var row studentRow
	q := `SELECT * FROM student_profiles WHERE owner_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Profile{}, student.ErrNotFound
		}
		return student.Profile{}, errors.Wrap(err, "selecting student profile")
	}
	return row.toProfile(), nil
}

func (repo *studentRepository) FilterProfiles(ctx context.Context, filter student.QueryFilter) ([]student.Profile, error) {
	var c conds
	c.scope(filter.Scope, "id", "", "")
	if filter.Course != "" {
		c.add("course = $%d", filter.Course)
	}
	if filter.Semester != 0 {
		c.add("semester = $%d", filter.Semester)
	}
	if filter.Department != "" {
		c.add("department = $%d", filter.Department)
	}

	var rows []studentRow
	q := `SELECT * FROM student_profiles` + c.where() + ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, c.args...); err != nil {
		return nil, errors.Wrap(err, "filtering student profiles")
	}

	profs := make([]student.Profile, 0, len(rows))
	for _, row := range rows {
		profs = append(profs, row.toProfile())
	}
	return profs, nil
}

func (repo *studentRepository) UpdateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	q := `
	UPDATE student_profiles
	SET course = $2, semester = $3, department = $4, enrollment_year = $5, updated_at = $6
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		prof.ID, prof.Course, prof.Semester, prof.Department, prof.EnrollmentYear, prof.UpdatedAt,
	)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "updating student profile")
	}
	if err = ensureFound(res); err != nil {
		return student.Profile{}, err
	}
	return prof, nil
}

func (repo *studentRepository) UpdateAcademicStanding(ctx context.Context, id string, gpa, credits float64) error {
	q := `UPDATE student_profiles SET cumulative_gpa = $2, total_credits = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id, gpa, credits, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "updating academic standing")
	}
	return ensureFound(res)
}
