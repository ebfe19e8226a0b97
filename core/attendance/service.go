package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/grading"
	"github.com/trezcool/chuo/core/scope"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		GetRecordByID(ctx context.Context, id string) (Record, error)
		FilterRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		DeleteRecord(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		scope *scope.Resolver
	}
)

func NewService(repo Repository, resolver *scope.Resolver) *Service {
	return &Service{repo: repo, scope: resolver}
}

// Create marks attendance for one student/session. The student must be in the
// writer's scope at write time: faculty may only mark their currently
// assigned students; admin is unrestricted.
func (svc *Service) Create(ctx context.Context, p core.Principal, nr NewRecord) (Record, error) {
	if p.IsStudent() {
		return Record{}, core.ErrAccessDenied
	}
	if _, err := svc.scope.Resolve(ctx, p, nr.StudentID); err != nil {
		return Record{}, err
	}

	facultyID := nr.FacultyID
	if p.IsFaculty() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return Record{}, err
		}
		facultyID = prof.ID
	}
	if facultyID == "" {
		return Record{}, core.NewValidationError(nil,
			core.FieldError{Field: "faculty_id", Error: "this field is required"})
	}

	now := time.Now().UTC()
	rec := Record{
		ID:              uuid.New().String(),
		StudentID:       nr.StudentID,
		FacultyID:       facultyID,
		Subject:         nr.Subject,
		SubjectCode:     nr.SubjectCode,
		Date:            nr.Date,
		Status:          nr.Status,
		Semester:        nr.Semester,
		AcademicYear:    nr.AcademicYear,
		ClassType:       nr.ClassType,
		DurationMinutes: nr.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	rec, err := svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "creating attendance record")
	}
	return rec, nil
}

// Filter lists attendance records within the caller's scope; for faculty the
// scope is unioned with their own authored records.
func (svc *Service) Filter(ctx context.Context, p core.Principal, filter QueryFilter) ([]Record, error) {
	sf, err := svc.scope.Resolve(ctx, p, filter.StudentID)
	if err != nil {
		return nil, err
	}
	filter.Scope = sf
	if p.IsFaculty() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		filter.AuthorID = prof.ID
	}
	return svc.repo.FilterRecords(ctx, filter)
}

// Summarize recomputes the attendance percentage for one student from the
// matching rows; nothing is cached, so an edit is visible on the next read.
func (svc *Service) Summarize(ctx context.Context, p core.Principal, filter QueryFilter) (Summary, error) {
	if filter.StudentID == "" && p.IsStudent() {
		prof, err := svc.scope.StudentProfile(ctx, p)
		if err != nil {
			return Summary{}, err
		}
		filter.StudentID = prof.ID
	}
	if filter.StudentID == "" {
		return Summary{}, core.NewValidationError(nil,
			core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	recs, err := svc.Filter(ctx, p, filter)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		StudentID:    filter.StudentID,
		Subject:      filter.Subject,
		AcademicYear: filter.AcademicYear,
	}
	for _, rec := range recs {
		if rec.StudentID != filter.StudentID {
			continue
		}
		sum.Total++
		if rec.Status.Attended() {
			sum.Attended++
		}
	}
	sum.Percentage = grading.AttendancePercent(sum.Attended, sum.Total)
	return sum, nil
}

// Update corrects a record's status; author faculty or admin only.
func (svc *Service) Update(ctx context.Context, p core.Principal, id string, status Status) (Record, error) {
	if !status.Valid() {
		return Record{}, core.NewValidationError(nil,
			core.FieldError{Field: "status", Error: "must be one of present, absent, late, excused"})
	}
	rec, err := svc.getOwned(ctx, p, id)
	if err != nil {
		return Record{}, err
	}
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *Service) Delete(ctx context.Context, p core.Principal, id string) error {
	rec, err := svc.getOwned(ctx, p, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteRecord(ctx, rec.ID)
}

func (svc *Service) getOwned(ctx context.Context, p core.Principal, id string) (Record, error) {
	rec, err := svc.repo.GetRecordByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if p.IsAdmin() {
		return rec, nil
	}
	if p.IsFaculty() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return Record{}, err
		}
		if rec.FacultyID == prof.ID {
			return rec, nil
		}
	}
	return Record{}, core.ErrAccessDenied
}
