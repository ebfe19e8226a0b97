package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/faculty"
	"github.com/trezcool/chuo/core/scope"
	"github.com/trezcool/chuo/core/student"
	dummydb "github.com/trezcool/chuo/storage/database/dummy"
)

type fixture struct {
	svc         *attendance.Service
	studentRepo student.Repository
	facultyRepo faculty.Repository
	resolver    *scope.Resolver

	admin core.Principal
	fac   core.Principal
	stu   core.Principal

	facProf faculty.Profile
	stuProf student.Profile
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := dummydb.NewDB()
	studentRepo := dummydb.NewStudentRepository(db)
	facultyRepo := dummydb.NewFacultyRepository(db)
	resolver := scope.NewResolver(studentRepo, facultyRepo)

	f := &fixture{
		svc:         attendance.NewService(dummydb.NewAttendanceRepository(db), resolver),
		studentRepo: studentRepo,
		facultyRepo: facultyRepo,
		resolver:    resolver,
		admin:       core.Principal{ID: "adm1", Role: core.RoleAdmin},
		fac:         core.Principal{ID: "fac1", Role: core.RoleFaculty},
		stu:         core.Principal{ID: "stu1", Role: core.RoleStudent},
	}

	var err error
	if f.stuProf, err = f.resolver.StudentProfile(ctx, f.stu); err != nil {
		t.Fatalf("StudentProfile() failed: %v", err)
	}
	if f.facProf, err = f.resolver.FacultyProfile(ctx, f.fac); err != nil {
		t.Fatalf("FacultyProfile() failed: %v", err)
	}
	if err = facultyRepo.Assign(ctx, f.facProf.ID, f.stuProf.ID); err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
	return f
}

func (f *fixture) newRecord(status attendance.Status, day int) attendance.NewRecord {
	return attendance.NewRecord{
		StudentID:    f.stuProf.ID,
		Subject:      "Algorithms",
		SubjectCode:  "cs301",
		Date:         time.Date(2026, 9, day, 9, 0, 0, 0, time.UTC),
		Status:       status,
		Semester:     5,
		AcademicYear: "2026-2027",
		ClassType:    attendance.ClassLecture,
	}
}

func TestService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, f.fac, f.newRecord(attendance.StatusPresent, 7))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if rec.FacultyID != f.facProf.ID {
		t.Errorf("FacultyID = %s, want %s", rec.FacultyID, f.facProf.ID)
	}

	// students never mark attendance
	if _, err = f.svc.Create(ctx, f.stu, f.newRecord(attendance.StatusPresent, 7)); err != core.ErrAccessDenied {
		t.Errorf("Create(student) error = %v, want %v", err, core.ErrAccessDenied)
	}

	// the student must be on the writer's roster
	other, err := f.studentRepo.GetOrCreateProfile(ctx, student.NewDefaultProfile("stu2"))
	if err != nil {
		t.Fatalf("GetOrCreateProfile() failed: %v", err)
	}
	nr := f.newRecord(attendance.StatusPresent, 7)
	nr.StudentID = other.ID
	if _, err = f.svc.Create(ctx, f.fac, nr); err != core.ErrAccessDenied {
		t.Errorf("Create(unassigned) error = %v, want %v", err, core.ErrAccessDenied)
	}

	// admin writes need an explicit faculty id
	if _, err = f.svc.Create(ctx, f.admin, nr); err == nil {
		t.Error("Create(admin, no faculty_id) expected a validation error")
	}
	nr.FacultyID = f.facProf.ID
	if _, err = f.svc.Create(ctx, f.admin, nr); err != nil {
		t.Errorf("Create(admin) failed: %v", err)
	}

	// two sessions on the same day are both kept
	if _, err = f.svc.Create(ctx, f.fac, f.newRecord(attendance.StatusLate, 7)); err != nil {
		t.Fatalf("Create() same-day session failed: %v", err)
	}
}

func TestService_Summarize(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// present + late attend; absent + excused do not
	for _, status := range []attendance.Status{
		attendance.StatusPresent, attendance.StatusLate, attendance.StatusAbsent, attendance.StatusExcused,
	} {
		if _, err := f.svc.Create(ctx, f.fac, f.newRecord(status, 7)); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	sum, err := f.svc.Summarize(ctx, f.stu, attendance.QueryFilter{})
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if sum.Total != 4 || sum.Attended != 2 || sum.Percentage != 50 {
		t.Errorf("Summarize() = %d/%d/%v, want 4/2/50", sum.Total, sum.Attended, sum.Percentage)
	}

	// an edit is visible on the next read, nothing is cached
	recs, err := f.svc.Filter(ctx, f.fac, attendance.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	var absentID string
	for _, rec := range recs {
		if rec.Status == attendance.StatusAbsent {
			absentID = rec.ID
		}
	}
	if _, err = f.svc.Update(ctx, f.fac, absentID, attendance.StatusPresent); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	sum, err = f.svc.Summarize(ctx, f.stu, attendance.QueryFilter{})
	if err != nil {
		t.Fatalf("Summarize() failed: %v", err)
	}
	if sum.Attended != 3 || sum.Percentage != 75 {
		t.Errorf("Summarize() after edit = %d/%v, want 3/75", sum.Attended, sum.Percentage)
	}

	// admin must name a student
	if _, err = f.svc.Summarize(ctx, f.admin, attendance.QueryFilter{}); err == nil {
		t.Error("Summarize(admin, no student) expected a validation error")
	}
}

func TestService_Update(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, f.fac, f.newRecord(attendance.StatusAbsent, 7))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err = f.svc.Update(ctx, f.fac, rec.ID, "asleep"); err == nil {
		t.Error("Update(bogus status) expected a validation error")
	}

	// only the author or an admin corrects a record
	stranger := core.Principal{ID: "fac2", Role: core.RoleFaculty}
	if _, err = f.svc.Update(ctx, stranger, rec.ID, attendance.StatusPresent); err != core.ErrAccessDenied {
		t.Errorf("Update(non-author) error = %v, want %v", err, core.ErrAccessDenied)
	}

	updated, err := f.svc.Update(ctx, f.admin, rec.ID, attendance.StatusExcused)
	if err != nil {
		t.Fatalf("Update(admin) failed: %v", err)
	}
	if updated.Status != attendance.StatusExcused {
		t.Errorf("Status = %s, want %s", updated.Status, attendance.StatusExcused)
	}

	if _, err = f.svc.Update(ctx, f.fac, "nope", attendance.StatusPresent); err != attendance.ErrNotFound {
		t.Errorf("Update(missing) error = %v, want %v", err, attendance.ErrNotFound)
	}
}

func TestService_Filter_scoped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.fac, f.newRecord(attendance.StatusPresent, 7)); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// the student sees their own records
	recs, err := f.svc.Filter(ctx, f.stu, attendance.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter(student) failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("Filter(student) count = %d, want 1", len(recs))
	}

	// another student sees nothing and cannot name the first
	other := core.Principal{ID: "stu2", Role: core.RoleStudent}
	recs, err = f.svc.Filter(ctx, other, attendance.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter(other student) failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Filter(other student) count = %d, want 0", len(recs))
	}
	if _, err = f.svc.Filter(ctx, other, attendance.QueryFilter{StudentID: f.stuProf.ID}); err != core.ErrAccessDenied {
		t.Errorf("Filter(foreign student_id) error = %v, want %v", err, core.ErrAccessDenied)
	}

	// unassigning hides roster records but never the faculty's own history
	if err = f.facultyRepo.Unassign(ctx, f.facProf.ID, f.stuProf.ID); err != nil {
		t.Fatalf("Unassign() failed: %v", err)
	}
	recs, err = f.svc.Filter(ctx, f.fac, attendance.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter(faculty) failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("Filter(faculty after unassign) count = %d, want 1 authored record", len(recs))
	}
}
