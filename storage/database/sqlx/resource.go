package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core/resource"
	"github.com/trezcool/chuo/core/target"
)

type resourceRow struct {
	ID                string         `db:"id"`
	OwnerFacultyID    string         `db:"owner_faculty_id"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	Subject           string         `db:"subject"`
	FilePath          string         `db:"file_path"`
	FileName          string         `db:"file_name"`
	ContentType       string         `db:"content_type"`
	IsPublic          bool           `db:"is_public"`
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

func (r resourceRow) toResource() resource.Resource {
	return resource.Resource{
		ID:             r.ID,
		OwnerFacultyID: r.OwnerFacultyID,
		Title:          r.Title,
		Description:    r.Description,
		Subject:        r.Subject,
		FilePath:       r.FilePath,
		FileName:       r.FileName,
		ContentType:    r.ContentType,
		IsPublic:       r.IsPublic,
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

type resourceRepository struct {
	db *sqlx.DB
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *sqlx.DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, r resource.Resource) (resource.Resource, error) {
	q := `
	INSERT INTO resources (id, owner_faculty_id, title, description, subject, file_path, file_name, content_type, is_public, all_students, target_courses, target_semesters, target_departments, target_student_ids, is_active, expires_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := repo.db.ExecContext(ctx, q,
		r.ID, r.OwnerFacultyID, r.Title, r.Description, r.Subject, r.FilePath, r.FileName,
		r.ContentType, r.IsPublic,
		r.Target.AllStudents, pq.Array(r.Target.Courses), pq.Array(r.Target.Semesters),
		pq.Array(r.Target.Departments), pq.Array(r.Target.StudentIDs),
		r.IsActive, r.ExpiresAt, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return r, nil
}

func (repo *resourceRepository) GetResourceByID(ctx context.Context, id string) (resource.Resource, error) {
	var row resourceRow
	q := `SELECT * FROM resources WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resource.Resource{}, resource.ErrNotFound
		}
		return resource.Resource{}, errors.Wrap(err, "selecting resource")
	}
	return row.toResource(), nil
}

func (repo *resourceRepository) FilterResources(ctx context.Context, filter resource.QueryFilter) ([]resource.Resource, error) {
	var c conds
	if filter.OwnerFacultyID != "" {
		c.add("owner_faculty_id = $%d", filter.OwnerFacultyID)
	}
	if filter.ActiveOnly {
		c.exprs = append(c.exprs, "is_active")
	}
	if filter.Subject != "" {
		c.add("subject = $%d", filter.Subject)
	}

	var rows []resourceRow
	q := `SELECT * FROM resources` + c.where() + ` ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, c.args...); err != nil {
		return nil, errors.Wrap(err, "filtering resources")
	}

	resources := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.toResource())
	}
	return resources, nil
}

func (repo *resourceRepository) UpdateResource(ctx context.Context, r resource.Resource) (resource.Resource, error) {
	q := `
	UPDATE resources
	SET title = $2, description = $3, subject = $4, is_public = $5, all_students = $6,
	    target_courses = $7, target_semesters = $8, target_departments = $9, target_student_ids = $10,
	    is_active = $11, expires_at = $12, updated_at = $13
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		r.ID, r.Title, r.Description, r.Subject, r.IsPublic,
		r.Target.AllStudents, pq.Array(r.Target.Courses), pq.Array(r.Target.Semesters),
		pq.Array(r.Target.Departments), pq.Array(r.Target.StudentIDs),
		r.IsActive, r.ExpiresAt, r.UpdatedAt,
	)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "updating resource")
	}
	if err = ensureFound(res); err != nil {
		return resource.Resource{}, err
	}
	return r, nil
}

func (repo *resourceRepository) DeleteResource(ctx context.Context, id string) error {
	q := `DELETE FROM resources WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	return ensureFound(res)
}
