package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/target"
)

type noticeRow struct {
	ID                string         `db:"id"`
	OwnerFacultyID    string         `db:"owner_faculty_id"`
	Title             string         `db:"title"`
	Body              string         `db:"body"`
	Priority          string         `db:"priority"`
	AllStudents       bool           `db:"all_students"`
	TargetCourses     pq.StringArray `db:"target_courses"`
	TargetSemesters   pq.Int64Array  `db:"target_semesters"`
	TargetDepartments pq.StringArray `db:"target_departments"`
	TargetStudentIDs  pq.StringArray `db:"target_student_ids"`
	IsActive          bool           `db:"is_active"`
	ExpiresAt         null.Time      `db:"expires_at"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (r noticeRow) toNotice() notice.Notice {
	return notice.Notice{
		ID:             r.ID,
		OwnerFacultyID: r.OwnerFacultyID,
		Title:          r.Title,
		Body:           r.Body,
		Priority:       r.Priority,
		Target: target.Group{
			AllStudents: r.AllStudents,
			Courses:     r.TargetCourses,
			Semesters:   r.TargetSemesters,
			Departments: r.TargetDepartments,
			StudentIDs:  r.TargetStudentIDs,
		},
		IsActive:  r.IsActive,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type noticeRepository struct {
	db *sqlx.DB
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *sqlx.DB) notice.Repository {
	return &noticeRepository{db: db}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	q := `
	INSERT INTO notices (id, owner_faculty_id, title, body, priority, all_students, target_courses, target_semesters, target_departments, target_student_ids, is_active, expires_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := repo.db.ExecContext(ctx, q,
		n.ID, n.OwnerFacultyID, n.Title, n.Body, n.Priority,
		n.Target.AllStudents, pq.Array(n.Target.Courses), pq.Array(n.Target.Semesters),
		pq.Array(n.Target.Departments), pq.Array(n.Target.StudentIDs),
		n.IsActive, n.ExpiresAt, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return n, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id string) (notice.Notice, error) {
	var row noticeRow
	q := `SELECT * FROM notices WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notice.Notice{}, notice.ErrNotFound
		}
		return notice.Notice{}, errors.Wrap(err, "selecting notice")
	}
	return row.toNotice(), nil
}

func (repo *noticeRepository) FilterNotices(ctx context.Context, filter notice.QueryFilter) ([]notice.Notice, error) {
	var c conds
	if filter.OwnerFacultyID != "" {
		c.add("owner_faculty_id = $%d", filter.OwnerFacultyID)
	}
	if filter.ActiveOnly {
		c.exprs = append(c.exprs, "is_active")
	}
	if filter.Priority != "" {
		c.add("priority = $%d", filter.Priority)
	}

	var rows []noticeRow
	q := `SELECT * FROM notices` + c.where() + ` ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, c.args...); err != nil {
		return nil, errors.Wrap(err, "filtering notices")
	}

	notices := make([]notice.Notice, 0, len(rows))
	for _, row := range rows {
		notices = append(notices, row.toNotice())
	}
	return notices, nil
}

func (repo *noticeRepository) UpdateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	q := `
	UPDATE notices
	SET title = $2, body = $3, priority = $4, all_students = $5, target_courses = $6,
	    target_semesters = $7, target_departments = $8, target_student_ids = $9,
	    is_active = $10, expires_at = $11, updated_at = $12
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		n.ID, n.Title, n.Body, n.Priority,
		n.Target.AllStudents, pq.Array(n.Target.Courses), pq.Array(n.Target.Semesters),
		pq.Array(n.Target.Departments), pq.Array(n.Target.StudentIDs),
		n.IsActive, n.ExpiresAt, n.UpdatedAt,
	)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "updating notice")
	}
	if err = ensureFound(res); err != nil {
		return notice.Notice{}, err
	}
	return n, nil
}

func (repo *noticeRepository) DeleteNotice(ctx context.Context, id string) error {
	q := `DELETE FROM notices WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return ensureFound(res)
}
