package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/marks"
)

type marksRow struct {
	ID           string    `db:"id"`
	StudentID    string    `db:"student_id"`
	FacultyID    string    `db:"faculty_id"`
	Subject      string    `db:"subject"`
	SubjectCode  string    `db:"subject_code"`
	ExamType     string    `db:"exam_type"`
	RawScore     float64   `db:"raw_score"`
	MaxScore     float64   `db:"max_score"`
	Percentage   float64   `db:"percentage"`
	LetterGrade  string    `db:"letter_grade"`
	GradePoints  float64   `db:"grade_points"`
	Credits      float64   `db:"credits"`
	Semester     int       `db:"semester"`
	AcademicYear string    `db:"academic_year"`
	IsPublished  bool      `db:"is_published"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r marksRow) toRecord() marks.Record {
	return marks.Record(r)
}

type marksRepository struct {
	db *sqlx.DB
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *sqlx.DB) marks.Repository {
	return &marksRepository{db: db}
}

// UpsertRecord relies on the uniqueness constraint over the
// (student, faculty, subject, exam type, semester, year) tuple: a conflicting
// insert updates the existing row in place, keeping its id and created_at.
func (repo *marksRepository) UpsertRecord(ctx context.Context, rec marks.Record) (marks.Record, error) {
	var row marksRow
	q := `
	INSERT INTO marks_records (id, student_id, faculty_id, subject, subject_code, exam_type, raw_score, max_score, percentage, letter_grade, grade_points, credits, semester, academic_year, is_published, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (student_id, faculty_id, subject, exam_type, semester, academic_year) DO UPDATE
	SET subject_code = EXCLUDED.subject_code,
	    raw_score    = EXCLUDED.raw_score,
	    max_score    = EXCLUDED.max_score,
	    percentage   = EXCLUDED.percentage,
	    letter_grade = EXCLUDED.letter_grade,
	    grade_points = EXCLUDED.grade_points,
	    credits      = EXCLUDED.credits,
	    is_published = EXCLUDED.is_published,
	    updated_at   = EXCLUDED.updated_at
	RETURNING *`
	err := repo.db.GetContext(ctx, &row, q,
		rec.ID, rec.StudentID, rec.FacultyID, rec.Subject, rec.SubjectCode, rec.ExamType,
		rec.RawScore, rec.MaxScore, rec.Percentage, rec.LetterGrade, rec.GradePoints,
		rec.Credits, rec.Semester, rec.AcademicYear, rec.IsPublished, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return marks.Record{}, errors.Wrap(err, "upserting marks record")
	}
	return row.toRecord(), nil
}

func (repo *marksRepository) GetRecordByID(ctx context.Context, id string) (marks.Record, error) {
	var row marksRow
	q := `SELECT * FROM marks_records WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return marks.Record{}, marks.ErrNotFound
		}
		return marks.Record{}, errors.Wrap(err, "selecting marks record")
	}
	return row.toRecord(), nil
}

func (repo *marksRepository) FilterRecords(ctx context.Context, filter marks.QueryFilter) ([]marks.Record, error) {
	var c conds
	c.scope(filter.Scope, "student_id", "faculty_id", filter.AuthorID)
	if filter.PublishedOnly {
		c.exprs = append(c.exprs, "is_published")
	}
	if filter.StudentID != "" {
		c.add("student_id = $%d", filter.StudentID)
	}
	if filter.Subject != "" {
		c.add("subject = $%d", filter.Subject)
	}
	if filter.ExamType != "" {
		c.add("exam_type = $%d", filter.ExamType)
	}
	if filter.Semester != 0 {
		c.add("semester = $%d", filter.Semester)
	}
	if filter.AcademicYear != "" {
		c.add("academic_year = $%d", filter.AcademicYear)
	}

	var rows []marksRow
	q := `SELECT * FROM marks_records` + c.where() + ` ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, c.args...); err != nil {
		return nil, errors.Wrap(err, "filtering marks records")
	}

	recs := make([]marks.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toRecord())
	}
	return recs, nil
}

func (repo *marksRepository) UpdateRecord(ctx context.Context, rec marks.Record) (marks.Record, error) {
	q := `
	UPDATE marks_records
	SET raw_score = $2, max_score = $3, percentage = $4, letter_grade = $5, grade_points = $6,
	    credits = $7, is_published = $8, updated_at = $9
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		rec.ID, rec.RawScore, rec.MaxScore, rec.Percentage, rec.LetterGrade, rec.GradePoints,
		rec.Credits, rec.IsPublished, rec.UpdatedAt,
	)
	if err != nil {
		return marks.Record{}, errors.Wrap(err, "updating marks record")
	}
	if err = ensureFound(res); err != nil {
		return marks.Record{}, err
	}
	return rec, nil
}

func (repo *marksRepository) DeleteRecord(ctx context.Context, id string) error {
	q := `DELETE FROM marks_records WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting marks record")
	}
	return ensureFound(res)
}
