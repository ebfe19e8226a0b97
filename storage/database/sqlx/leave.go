package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core/leave"
)

type leaveRow struct {
	ID             string      `db:"id"`
	StudentID      string      `db:"student_id"`
	LeaveType      string      `db:"leave_type"`
	Reason         string      `db:"reason"`
	FromDate       time.Time   `db:"from_date"`
	ToDate         time.Time   `db:"to_date"`
	TotalDays      float64     `db:"total_days"`
	Status         string      `db:"status"`
	ReviewerID     null.String `db:"reviewer_id"`
	ReviewComments null.String `db:"review_comments"`
	ReviewedAt     null.Time   `db:"reviewed_at"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r leaveRow) toApplication() leave.Application {
	return leave.Application{
		ID:             r.ID,
		StudentID:      r.StudentID,
		LeaveType:      r.LeaveType,
		Reason:         r.Reason,
		FromDate:       r.FromDate,
		ToDate:         r.ToDate,
		TotalDays:      r.TotalDays,
		Status:         leave.Status(r.Status),
		ReviewerID:     r.ReviewerID,
		ReviewComments: r.ReviewComments,
		ReviewedAt:     r.ReviewedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type leaveRepository struct {
	db *sqlx.DB
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *sqlx.DB) leave.Repository {
	return &leaveRepository{db: db}
}

func (repo *leaveRepository) CreateApplication(ctx context.Context, app leave.Application) (leave.Application, error) {
	q := `
	INSERT INTO leave_applications (id, student_id, leave_type, reason, from_date, to_date, total_days, status, reviewer_id, review_comments, reviewed_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := repo.db.ExecContext(ctx, q,
		app.ID, app.StudentID, app.LeaveType, app.Reason, app.FromDate, app.ToDate,
		app.TotalDays, string(app.Status), app.ReviewerID, app.ReviewComments, app.ReviewedAt,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return leave.Application{}, errors.Wrap(err, "inserting leave application")
	}
	return app, nil
}

func (repo *leaveRepository) GetApplicationByID(ctx context.Context, id string) (leave.Application, error) {
	var row leaveRow
	q := `SELECT * FROM leave_applications WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.Application{}, leave.ErrNotFound
		}
		return leave.Application{}, errors.Wrap(err, "selecting leave application")
	}
	return row.toApplication(), nil
}

func (repo *leaveRepository) FilterApplications(ctx context.Context, filter leave.QueryFilter) ([]leave.Application, error) {
	var c conds
	c.scope(filter.Scope, "student_id", "", "")
	if filter.StudentID != "" {
		c.add("student_id = $%d", filter.StudentID)
	}
	if filter.Status != "" {
		c.add("status = $%d", string(filter.Status))
	}
	if filter.LeaveType != "" {
		c.add("leave_type = $%d", filter.LeaveType)
	}

	var rows []leaveRow
	q := `SELECT * FROM leave_applications` + c.where() + ` ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, c.args...); err != nil {
		return nil, errors.Wrap(err, "filtering leave applications")
	}

	apps := make([]leave.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toApplication())
	}
	return apps, nil
}

func (repo *leaveRepository) UpdateApplication(ctx context.Context, app leave.Application) (leave.Application, error) {
	q := `
	UPDATE leave_applications
	SET status = $2, reviewer_id = $3, review_comments = $4, reviewed_at = $5, updated_at = $6
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		app.ID, string(app.Status), app.ReviewerID, app.ReviewComments, app.ReviewedAt, app.UpdatedAt,
	)
	if err != nil {
		return leave.Application{}, errors.Wrap(err, "updating leave application")
	}
	if err = ensureFound(res); err != nil {
		return leave.Application{}, err
	}
	return app, nil
}
