package resource_test

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/faculty"
	"github.com/trezcool/chuo/core/resource"
	"github.com/trezcool/chuo/core/scope"
	"github.com/trezcool/chuo/core/student"
	"github.com/trezcool/chuo/core/target"
	"github.com/trezcool/chuo/services/filestore"
	dummydb "github.com/trezcool/chuo/storage/database/dummy"
)

type fixture struct {
	svc      *resource.Service
	resolver *scope.Resolver

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
	files := filestore.NewLocalStore(&core.Config{MediaRoot: t.TempDir()})

	f := &fixture{
		svc:      resource.NewService(dummydb.NewResourceRepository(db), files, resolver),
		resolver: resolver,
		admin:    core.Principal{ID: "adm1", Role: core.RoleAdmin},
		fac:      core.Principal{ID: "fac1", Role: core.RoleFaculty},
		stu:      core.Principal{ID: "stu1", Role: core.RoleStudent},
	}

	var err error
	if f.stuProf, err = f.resolver.StudentProfile(ctx, f.stu); err != nil {
		t.Fatalf("StudentProfile() failed: %v", err)
	}
	if f.facProf, err = f.resolver.FacultyProfile(ctx, f.fac); err != nil {
		t.Fatalf("FacultyProfile() failed: %v", err)
	}
	return f
}

func newResource(isPublic bool, tgt target.Group) resource.NewResource {
	return resource.NewResource{
		Title:       "Lecture 7 slides",
		Description: "Graph algorithms",
		Subject:     "Algorithms",
		FileName:    "lecture7.pdf",
		ContentType: "application/pdf",
		IsPublic:    isPublic,
		Target:      tgt,
	}
}

func TestService_CreateAndDownload(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.fac, newResource(true, target.Group{}), strings.NewReader("%PDF-1.4 slides"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if r.OwnerFacultyID != f.facProf.ID {
		t.Errorf("OwnerFacultyID = %s, want %s", r.OwnerFacultyID, f.facProf.ID)
	}

	// a public resource is downloadable by any student
	got, rc, err := f.svc.Download(ctx, f.stu, r.ID)
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}
	defer rc.Close()
	content, err := ioutil.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading download failed: %v", err)
	}
	if string(content) != "%PDF-1.4 slides" {
		t.Errorf("content = %q, want the stored bytes back", content)
	}
	if got.FileName != "lecture7.pdf" {
		t.Errorf("FileName = %s, want lecture7.pdf", got.FileName)
	}

	if _, _, err = f.svc.Download(ctx, f.stu, "nope"); err != resource.ErrNotFound {
		t.Errorf("Download(missing) error = %v, want %v", err, resource.ErrNotFound)
	}
}

func TestService_Download_targetGated(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// targeted at a course the student is not enrolled in
	r, err := f.svc.Create(ctx, f.fac, newResource(false, target.Group{Courses: []string{"BCom"}}), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, _, err = f.svc.Download(ctx, f.stu, r.ID); err != core.ErrAccessDenied {
		t.Errorf("Download(untargeted student) error = %v, want %v", err, core.ErrAccessDenied)
	}

	// the owner and admin always may
	if _, rc, err := f.svc.Download(ctx, f.fac, r.ID); err != nil {
		t.Errorf("Download(owner) failed: %v", err)
	} else {
		rc.Close()
	}
	if _, rc, err := f.svc.Download(ctx, f.admin, r.ID); err != nil {
		t.Errorf("Download(admin) failed: %v", err)
	} else {
		rc.Close()
	}

	// another faculty member may not
	if _, _, err = f.svc.Download(ctx, core.Principal{ID: "fac2", Role: core.RoleFaculty}, r.ID); err != core.ErrAccessDenied {
		t.Errorf("Download(non-owner faculty) error = %v, want %v", err, core.ErrAccessDenied)
	}
}

func TestService_expiredPublicResourceIsHidden(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// IsPublic bypasses targeting, never expiry
	nr := newResource(true, target.Group{})
	nr.ExpiresAt = null.TimeFrom(time.Now().UTC().Add(-time.Hour))
	r, err := f.svc.Create(ctx, f.fac, nr, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, _, err = f.svc.Download(ctx, f.stu, r.ID); err != core.ErrAccessDenied {
		t.Errorf("Download(expired public) error = %v, want %v", err, core.ErrAccessDenied)
	}
	visible, err := f.svc.Query(ctx, f.stu, resource.QueryFilter{})
	if err != nil {
		t.Fatalf("Query(student) failed: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("Query(student) count = %d, want 0", len(visible))
	}

	// the owner keeps access to their own file
	if _, rc, err := f.svc.Download(ctx, f.fac, r.ID); err != nil {
		t.Errorf("Download(owner) failed: %v", err)
	} else {
		rc.Close()
	}
}

func TestService_Query_visibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	pub, err := f.svc.Create(ctx, f.fac, newResource(true, target.Group{}), strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	targeted, err := f.svc.Create(ctx, f.fac, newResource(false, target.Group{StudentIDs: []string{f.stuProf.ID}}), strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err = f.svc.Create(ctx, f.fac, newResource(false, target.Group{Courses: []string{"BCom"}}), strings.NewReader("c")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	visible, err := f.svc.Query(ctx, f.stu, resource.QueryFilter{})
	if err != nil {
		t.Fatalf("Query(student) failed: %v", err)
	}
	wantIDs := map[string]bool{pub.ID: true, targeted.ID: true}
	if len(visible) != 2 {
		t.Errorf("Query(student) count = %d, want 2", len(visible))
	}
	for _, r := range visible {
		if !wantIDs[r.ID] {
			t.Errorf("Query(student) leaked %s (%q)", r.ID, r.Title)
		}
	}

	all, err := f.svc.Query(ctx, f.admin, resource.QueryFilter{})
	if err != nil {
		t.Fatalf("Query(admin) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Query(admin) count = %d, want 3", len(all))
	}
}

func TestService_Delete_ownership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.fac, newResource(true, target.Group{}), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err = f.svc.Delete(ctx, core.Principal{ID: "fac2", Role: core.RoleFaculty}, r.ID); err != core.ErrAccessDenied {
		t.Errorf("Delete(non-owner) error = %v, want %v", err, core.ErrAccessDenied)
	}
	if err = f.svc.Delete(ctx, f.fac, r.ID); err != nil {
		t.Fatalf("Delete(owner) failed: %v", err)
	}
	if err = f.svc.Delete(ctx, f.admin, r.ID); err != resource.ErrNotFound {
		t.Errorf("Delete(deleted) error = %v, want %v", err, resource.ErrNotFound)
	}
}
