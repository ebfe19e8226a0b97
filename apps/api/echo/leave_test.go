package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/leave"
)

func newLeaveApplication() leave.NewApplication {
	return leave.NewApplication{
		LeaveType: leave.TypeSick,
		Reason:    "flu",
		FromDate:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		ToDate:    time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	}
}

func Test_leaveApi_apply(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)
	stuProf := ta.studentProfile(t, stu)

	tests := []httpTest{
		{
			name: "auth required", body: marchallObj(t, newLeaveApplication()),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "only students apply", token: getToken(t, ta.conf, fac), body: marchallObj(t, newLeaveApplication()),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/leave", tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("student applies", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/leave", getToken(t, ta.conf, stu), marchallObj(t, newLeaveApplication()))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("apply() code = %v: %s", rec.Code, rec.Body.String())
		}
		var app leave.Application
		decodeBody(t, rec, &app)
		if app.Status != leave.StatusPending || app.StudentID != stuProf.ID {
			t.Errorf("apply() = %+v; want a pending application for the caller", app)
		}
		if app.TotalDays != 3 {
			t.Errorf("TotalDays = %v; want 3 (inclusive)", app.TotalDays)
		}
	})
}

func Test_leaveApi_review(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stranger := ta.createUser(t, "Other", "other", "other@test.cd", core.RoleFaculty, true)
	admin := ta.createUser(t, "Admin", "admin", "admin@test.cd", core.RoleAdmin, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)

	facProf := ta.facultyProfile(t, fac)
	ta.facultyProfile(t, stranger)
	stuProf := ta.studentProfile(t, stu)
	ta.assign(t, facProf.ID, stuProf.ID)

	apply := func() leave.Application {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/v1/leave", getToken(t, ta.conf, stu), marchallObj(t, newLeaveApplication()))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("apply() code = %v: %s", rec.Code, rec.Body.String())
		}
		var app leave.Application
		decodeBody(t, rec, &app)
		return app
	}

	app := apply()
	approval := marchallObj(t, leave.Review{Approve: true, Comments: "rest well"})

	tests := []httpTest{
		{
			// not even their own application
			name: "students never review", path: "/v1/leave/" + app.ID + "/review", token: getToken(t, ta.conf, stu), body: approval,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "unassigned faculty reads as not found", path: "/v1/leave/" + app.ID + "/review", token: getToken(t, ta.conf, stranger), body: approval,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("assigned faculty approves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/leave/"+app.ID+"/review", getToken(t, ta.conf, fac), approval)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("review() code = %v: %s", rec.Code, rec.Body.String())
		}
		var decided leave.Application
		decodeBody(t, rec, &decided)
		if decided.Status != leave.StatusApproved || !decided.ReviewerID.Valid {
			t.Errorf("review() = %+v; want approved with a reviewer", decided)
		}
	})

	t.Run("decided applications are terminal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/leave/"+app.ID+"/review", getToken(t, ta.conf, admin), approval)
		ta.app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: leave.ErrInvalidTransition.Error()}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("admin rejects without an assignment", func(t *testing.T) {
		app := apply()
		rejection := marchallObj(t, leave.Review{Approve: false, Comments: "term exams"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/leave/"+app.ID+"/review", getToken(t, ta.conf, admin), rejection)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("review(admin) code = %v: %s", rec.Code, rec.Body.String())
		}
		var decided leave.Application
		decodeBody(t, rec, &decided)
		if decided.Status != leave.StatusRejected {
			t.Errorf("Status = %s; want %s", decided.Status, leave.StatusRejected)
		}
	})
}

func Test_leaveApi_cancel(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)
	other := ta.createUser(t, "Solo", "solo", "solo@test.cd", core.RoleStudent, true)

	ta.studentProfile(t, stu)
	ta.studentProfile(t, other)

	req, rec := newAuthRequest(http.MethodPost, "/v1/leave", getToken(t, ta.conf, stu), marchallObj(t, newLeaveApplication()))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply() code = %v: %s", rec.Code, rec.Body.String())
	}
	var app leave.Application
	decodeBody(t, rec, &app)

	tests := []httpTest{
		{
			name: "faculty never cancel", token: getToken(t, ta.conf, fac),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "another student reads as not found", token: getToken(t, ta.conf, other),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/leave/"+app.ID+"/cancel", tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("applicant cancels", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/leave/"+app.ID+"/cancel", getToken(t, ta.conf, stu))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("cancel() code = %v: %s", rec.Code, rec.Body.String())
		}
		var cancelled leave.Application
		decodeBody(t, rec, &cancelled)
		if cancelled.Status != leave.StatusCancelled {
			t.Errorf("Status = %s; want %s", cancelled.Status, leave.StatusCancelled)
		}
	})

	t.Run("cancelled applications are terminal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/leave/"+app.ID+"/cancel", getToken(t, ta.conf, stu))
		ta.app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: leave.ErrInvalidTransition.Error()}),
		}
		checkCodeAndData(t, tt, rec)
	})
}
