package marks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/grading"
	"github.com/trezcool/chuo/core/scope"
	"github.com/trezcool/chuo/core/student"
)

var ErrNotFound = core.ErrNotFound

type (
	Repository interface {
		// UpsertRecord inserts rec or, when a row with the same Key exists,
		// updates it in place. Atomic: concurrent submissions of the same key
		// must not produce duplicates.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		GetRecordByID(ctx context.Context, id string) (Record, error)
		FilterRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		DeleteRecord(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		students student.Repository
		scope    *scope.Resolver
	}
)

func NewService(repo Repository, students student.Repository, resolver *scope.Resolver) *Service {
	return &Service{repo: repo, students: students, scope: resolver}
}

// Upsert submits marks for one student/exam, deriving percentage, letter
// grade and grade points before persisting. A resubmission of the same
// (student, faculty, subject, exam type, semester, year) tuple updates the
// existing row. The student must be in the writer's scope at write time.
func (svc *Service) Upsert(ctx context.Context, p core.Principal, nr NewRecord) (Record, error) {
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
		ID:           uuid.New().String(),
		StudentID:    nr.StudentID,
		FacultyID:    facultyID,
		Subject:      nr.Subject,
		SubjectCode:  nr.SubjectCode,
		ExamType:     nr.ExamType,
		RawScore:     nr.RawScore,
		MaxScore:     nr.MaxScore,
		Credits:      nr.Credits,
		Semester:     nr.Semester,
		AcademicYear: nr.AcademicYear,
		IsPublished:  nr.IsPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rec.derive()

	rec, err := svc.repo.UpsertRecord(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "upserting marks record")
	}

	// derived metrics are recomputed within the same logical operation as the
	// write that invalidated them; a reader right after observes the new GPA
	if err = svc.refreshCumulative(ctx, rec.StudentID); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// derive recomputes the denormalized fields from the raw score.
func (r *Record) derive() {
	r.Percentage = grading.Percentage(r.RawScore, r.MaxScore)
	g := grading.GradeFor(r.Percentage)
	r.LetterGrade = g.Letter
	r.GradePoints = g.Points
}

// Publish makes a marks record visible to its student and folds it into the
// GPA aggregates. Author faculty or admin only.
func (svc *Service) Publish(ctx context.Context, p core.Principal, id string) (Record, error) {
	rec, err := svc.getOwned(ctx, p, id)
	if err != nil {
		return Record{}, err
	}
	if !rec.IsPublished {
		rec.IsPublished = true
		rec.UpdatedAt = time.Now().UTC()
		if rec, err = svc.repo.UpdateRecord(ctx, rec); err != nil {
			return Record{}, errors.Wrap(err, "publishing marks record")
		}
		if err = svc.refreshCumulative(ctx, rec.StudentID); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// Delete removes a marks record and recomputes the student's aggregates.
func (svc *Service) Delete(ctx context.Context, p core.Principal, id string) error {
	rec, err := svc.getOwned(ctx, p, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteRecord(ctx, rec.ID); err != nil {
		return errors.Wrap(err, "deleting marks record")
	}
	return svc.refreshCumulative(ctx, rec.StudentID)
}

// Filter lists marks within the caller's scope. Students only ever see
// published rows; faculty additionally see rows they authored.
func (svc *Service) Filter(ctx context.Context, p core.Principal, filter QueryFilter) ([]Record, error) {
	sf, err := svc.scope.Resolve(ctx, p, filter.StudentID)
	if err != nil {
		return nil, err
	}
	filter.Scope = sf
	if p.IsStudent() {
		filter.PublishedOnly = true
	}
	if p.IsFaculty() {
		prof, err := svc.scope.FacultyProfile(ctx, p)
		if err != nil {
			return nil, err
		}
		filter.AuthorID = prof.ID
	}
	return svc.repo.FilterRecords(ctx, filter)
}

// GPA recomputes the term GPA for (student, semester, year) and returns it
// with the cumulative aggregates, all from published rows only.
func (svc *Service) GPA(ctx context.Context, p core.Principal, studentID string, semester int, academicYear string) (GPAReport, error) {
	if studentID == "" && p.IsStudent() {
		prof, err := svc.scope.StudentProfile(ctx, p)
		if err != nil {
			return GPAReport{}, err
		}
		studentID = prof.ID
	}
	if studentID == "" {
		return GPAReport{}, core.NewValidationError(nil,
			core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	if _, err := svc.scope.Resolve(ctx, p, studentID); err != nil {
		return GPAReport{}, err
	}

	published, err := svc.repo.FilterRecords(ctx, QueryFilter{
		Scope:         core.OwnerOnlyScope(studentID),
		StudentID:     studentID,
		PublishedOnly: true,
	})
	if err != nil {
		return GPAReport{}, err
	}

	var term, all []grading.CreditedPoints
	var credits float64
	for _, rec := range published {
		cp := grading.CreditedPoints{Credits: rec.Credits, Points: rec.GradePoints}
		all = append(all, cp)
		credits += rec.Credits
		if (semester == 0 || rec.Semester == semester) &&
			(academicYear == "" || rec.AcademicYear == academicYear) {
			term = append(term, cp)
		}
	}
	return GPAReport{
		StudentID:     studentID,
		Semester:      semester,
		AcademicYear:  academicYear,
		TermGPA:       grading.GPA(term),
		CumulativeGPA: grading.GPA(all),
		TotalCredits:  credits,
	}, nil
}

// refreshCumulative recomputes the credit-weighted cumulative GPA across all
// published marks of the student and persists it on the profile. Runs
// synchronously after every upsert/publish/delete so the profile aggregate is
// never read stale.
func (svc *Service) refreshCumulative(ctx context.Context, studentID string) error {
	published, err := svc.repo.FilterRecords(ctx, QueryFilter{
		Scope:         core.OwnerOnlyScope(studentID),
		StudentID:     studentID,
		PublishedOnly: true,
	})
	if err != nil {
		return errors.Wrap(err, "fetching published marks")
	}

	items := make([]grading.CreditedPoints, 0, len(published))
	var credits float64
	for _, rec := range published {
		items = append(items, grading.CreditedPoints{Credits: rec.Credits, Points: rec.GradePoints})
		credits += rec.Credits
	}

	if err = svc.students.UpdateAcademicStanding(ctx, studentID, grading.GPA(items), credits); err != nil {
		return errors.Wrap(err, "updating academic standing")
	}
	return nil
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
