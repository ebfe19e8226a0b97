package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/attendance"
)

type attendanceRow struct {
	ID              string    `db:"id"`
	StudentID       string    `db:"student_id"`
	FacultyID       string    `db:"faculty_id"`
	Subject         string    `db:"subject"`
	SubjectCode     string    `db:"subject_code"`
	Date            time.Time `db:"date"`
	Status          string    `db:"status"`
	Semester        int       `db:"semester"`
	AcademicYear    string    `db:"academic_year"`
	ClassType       string    `db:"class_type"`
	DurationMinutes int       `db:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r attendanceRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:              r.ID,
		StudentID:       r.StudentID,
		FacultyID:       r.FacultyID,
		Subject:         r.Subject,
		SubjectCode:     r.SubjectCode,
		Date:            r.Date,
		Status:          attendance.Status(r.Status),
		Semester:        r.Semester,
		AcademicYear:    r.AcademicYear,
		ClassType:       r.ClassType,
		DurationMinutes: r.DurationMinutes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := `
	INSERT INTO attendance_records (id, student_id, faculty_id, subject, subject_code, date, status, semester, academic_year, class_type, duration_minutes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := repo.db.ExecContext(ctx, q,
		rec.ID, rec.StudentID, rec.FacultyID, rec.Subject, rec.SubjectCode, rec.Date, string(rec.Status),
		rec.Semester, rec.AcademicYear, rec.ClassType, rec.DurationMinutes, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, id string) (attendance.Record, error) {
	var row attendanceRow
	q := `SELECT * FROM attendance_records WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "selecting attendance record")
	}
	return row.toRecord(), nil
}

func (repo *attendanceRepository) FilterRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	var c conds
	c.scope(filter.Scope, "student_id", "faculty_id", filter.AuthorID)
	if filter.StudentID != "" {
		c.add("student_id = $%d", filter.StudentID)
	}
	if filter.Subject != "" {
		c.add("subject = $%d", filter.Subject)
	}
	if filter.Semester != 0 {
		c.add("semester = $%d", filter.Semester)
	}
	if filter.AcademicYear != "" {
		c.add("academic_year = $%d", filter.AcademicYear)
	}
	if !filter.DateFrom.IsZero() {
		c.add("date >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		c.add("date <= $%d", filter.DateTo)
	}

	var rows []attendanceRow
	q := `SELECT * FROM attendance_records` + c.where() + ` ORDER BY date, created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, c.args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendance records")
	}

	recs := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toRecord())
	}
	return recs, nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := `UPDATE attendance_records SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, rec.ID, string(rec.Status), rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	if err = ensureFound(res); err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	q := `DELETE FROM attendance_records WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return ensureFound(res)
}
