package echoapi

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/attendance"
)

func newAttendanceRecord(studentID string, status attendance.Status) attendance.NewRecord {
	return attendance.NewRecord{
		StudentID:    studentID,
		Subject:      "Algorithms",
		SubjectCode:  "cs301",
		Date:         time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		Status:       status,
		Semester:     5,
		AcademicYear: "2026-2027",
		ClassType:    attendance.ClassLecture,
	}
}

func Test_attendanceApi_create(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)
	outsider := ta.createUser(t, "Solo", "solo", "solo@test.cd", core.RoleStudent, true)
	admin := ta.createUser(t, "Admin", "admin", "admin@test.cd", core.RoleAdmin, true)

	facProf := ta.facultyProfile(t, fac)
	stuProf := ta.studentProfile(t, stu)
	outsiderProf := ta.studentProfile(t, outsider)
	ta.assign(t, facProf.ID, stuProf.ID)

	tests := []httpTest{
		{
			name: "auth required", body: marchallObj(t, newAttendanceRecord(stuProf.ID, attendance.StatusPresent)),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "students never mark attendance", token: getToken(t, ta.conf, stu),
			body:     marchallObj(t, newAttendanceRecord(stuProf.ID, attendance.StatusPresent)),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "student must be on the roster", token: getToken(t, ta.conf, fac),
			body:     marchallObj(t, newAttendanceRecord(outsiderProf.ID, attendance.StatusPresent)),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("faculty marks an assigned student", func(t *testing.T) {
		body := marchallObj(t, newAttendanceRecord(stuProf.ID, attendance.StatusPresent))
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, ta.conf, fac), body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create() code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var created attendance.Record
		decodeBody(t, rec, &created)
		if created.FacultyID != facProf.ID {
			t.Errorf("FacultyID = %s; want the author %s", created.FacultyID, facProf.ID)
		}
	})

	t.Run("admin writes need an explicit faculty id", func(t *testing.T) {
		adminToken := getToken(t, ta.conf, admin)

		body := marchallObj(t, newAttendanceRecord(stuProf.ID, attendance.StatusLate))
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", adminToken, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("create(admin, no faculty_id) code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}

		nr := newAttendanceRecord(stuProf.ID, attendance.StatusLate)
		nr.FacultyID = facProf.ID
		req, rec = newAuthRequest(http.MethodPost, "/v1/attendance", adminToken, marchallObj(t, nr))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Errorf("create(admin) code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})
}

func Test_attendanceApi_query(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)
	other := ta.createUser(t, "Solo", "solo", "solo@test.cd", core.RoleStudent, true)

	facProf := ta.facultyProfile(t, fac)
	stuProf := ta.studentProfile(t, stu)
	ta.studentProfile(t, other)
	ta.assign(t, facProf.ID, stuProf.ID)

	facToken := getToken(t, ta.conf, fac)
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", facToken, marchallObj(t, newAttendanceRecord(stuProf.ID, attendance.StatusPresent)))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create() code = %v: %s", rec.Code, rec.Body.String())
	}

	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "auth required", path: "/v1/attendance", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "another student sees nothing", path: "/v1/attendance", token: getToken(t, ta.conf, other), wantCode: http.StatusOK, wantData: empty},
		{
			// out-of-scope and missing ids are indistinguishable
			name: "foreign student_id reads as not found", path: "/v1/attendance?" + url.Values{"student_id": {stuProf.ID}}.Encode(),
			token: getToken(t, ta.conf, other), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "malformed date_from is a validation error", path: "/v1/attendance?date_from=yesterday",
			token: getToken(t, ta.conf, stu), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date_from": "must be a date in YYYY-MM-DD format"}),
		},
		{
			name: "malformed date_to is a validation error", path: "/v1/attendance?date_to=2026-13-45x",
			token: getToken(t, ta.conf, stu), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date_to": "must be a date in YYYY-MM-DD format"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("student sees own records", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", getToken(t, ta.conf, stu))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query() code = %v: %s", rec.Code, rec.Body.String())
		}
		var recs []attendance.Record
		decodeBody(t, rec, &recs)
		if len(recs) != 1 || recs[0].StudentID != stuProf.ID {
			t.Errorf("query(student) = %+v; want 1 own record", recs)
		}
	})
}

func Test_attendanceApi_summary(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)

	facProf := ta.facultyProfile(t, fac)
	stuProf := ta.studentProfile(t, stu)
	ta.assign(t, facProf.ID, stuProf.ID)

	facToken := getToken(t, ta.conf, fac)
	for _, status := range []attendance.Status{
		attendance.StatusPresent, attendance.StatusLate, attendance.StatusAbsent, attendance.StatusExcused,
	} {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", facToken, marchallObj(t, newAttendanceRecord(stuProf.ID, status)))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create(%s) code = %v: %s", status, rec.Code, rec.Body.String())
		}
	}

	getSummary := func() attendance.Summary {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/summary", getToken(t, ta.conf, stu))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("summary() code = %v: %s", rec.Code, rec.Body.String())
		}
		var sum attendance.Summary
		decodeBody(t, rec, &sum)
		return sum
	}

	sum := getSummary()
	if sum.Total != 4 || sum.Attended != 2 || sum.Percentage != 50 {
		t.Errorf("summary() = %d/%d/%v; want 4/2/50", sum.Total, sum.Attended, sum.Percentage)
	}

	// correcting a record moves the percentage on the next read
	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", facToken)
	ta.app.ServeHTTP(rec, req)
	var recs []attendance.Record
	decodeBody(t, rec, &recs)
	var absentID string
	for _, r := range recs {
		if r.Status == attendance.StatusAbsent {
			absentID = r.ID
		}
	}
	req, rec = newAuthRequest(http.MethodPut, "/v1/attendance/"+absentID, facToken, []byte(`{"status":"present"}`))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update() code = %v: %s", rec.Code, rec.Body.String())
	}

	if sum = getSummary(); sum.Attended != 3 || sum.Percentage != 75 {
		t.Errorf("summary() after edit = %d/%v; want 3/75", sum.Attended, sum.Percentage)
	}
}

func Test_attendanceApi_update(t *testing.T) {
	ta := setup(t)

	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stranger := ta.createUser(t, "Other", "other", "other@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)

	facProf := ta.facultyProfile(t, fac)
	ta.facultyProfile(t, stranger)
	stuProf := ta.studentProfile(t, stu)
	ta.assign(t, facProf.ID, stuProf.ID)

	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, ta.conf, fac), marchallObj(t, newAttendanceRecord(stuProf.ID, attendance.StatusAbsent)))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create() code = %v: %s", rec.Code, rec.Body.String())
	}
	var created attendance.Record
	decodeBody(t, rec, &created)

	body := []byte(`{"status":"present"}`)
	tests := []httpTest{
		{
			name: "students never correct records", path: "/v1/attendance/" + created.ID, token: getToken(t, ta.conf, stu), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			// non-authors get the same answer as for a missing record
			name: "non-author reads as not found", path: "/v1/attendance/" + created.ID, token: getToken(t, ta.conf, stranger), body: body,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "missing record", path: "/v1/attendance/nope", token: getToken(t, ta.conf, fac), body: body,
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

	t.Run("author corrects the record", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/attendance/"+created.ID, getToken(t, ta.conf, fac), body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("update() code = %v: %s", rec.Code, rec.Body.String())
		}
		var updated attendance.Record
		decodeBody(t, rec, &updated)
		if updated.Status != attendance.StatusPresent {
			t.Errorf("Status = %s; want %s", updated.Status, attendance.StatusPresent)
		}
	})
}
