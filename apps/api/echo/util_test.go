package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/faculty"
	"github.com/trezcool/chuo/core/leave"
	"github.com/trezcool/chuo/core/marks"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/resource"
	"github.com/trezcool/chuo/core/scope"
	"github.com/trezcool/chuo/core/student"
	"github.com/trezcool/chuo/core/user"
	emailsvc "github.com/trezcool/chuo/services/email"
	"github.com/trezcool/chuo/services/filestore"
	logsvc "github.com/trezcool/chuo/services/logger"
	dummydb "github.com/trezcool/chuo/storage/database/dummy"
)

var (
	errMissingToken     = httpErr{Error: "missing or malformed jwt"}
	errPermissionDenied = httpErr{Error: "permission denied"}
	errNotFound         = httpErr{Error: "not found"}
)

type testApp struct {
	app  Server
	conf *core.Config

	userRepo    user.Repository
	studentRepo student.Repository
	facultyRepo faculty.Repository
	resolver    *scope.Resolver
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		TestMode:  true,
		AppName:   "Chuo",
		SecretKey: "s3cr3t",
		MediaRoot: t.TempDir(),
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	// set up DB & repos
	db := dummydb.NewDB()
	userRepo := dummydb.NewUserRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	facultyRepo := dummydb.NewFacultyRepository(db)
	resolver := scope.NewResolver(studentRepo, facultyRepo)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	files := filestore.NewLocalStore(conf)

	// set up server
	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		Resolver:      resolver,
		UserSvc:       user.NewService(userRepo, mailSvc, conf, logger),
		StudentSvc:    student.NewService(studentRepo),
		FacultySvc:    faculty.NewService(facultyRepo),
		AttendanceSvc: attendance.NewService(dummydb.NewAttendanceRepository(db), resolver),
		MarksSvc:      marks.NewService(dummydb.NewMarksRepository(db), studentRepo, resolver),
		NoticeSvc:     notice.NewService(dummydb.NewNoticeRepository(db), resolver),
		ResourceSvc:   resource.NewService(dummydb.NewResourceRepository(db), files, resolver),
		LeaveSvc:      leave.NewService(dummydb.NewLeaveRepository(db), resolver, studentRepo, userRepo, mailSvc),
	})

	return &testApp{
		app:  app,
		conf: conf,

		userRepo:    userRepo,
		studentRepo: studentRepo,
		facultyRepo: facultyRepo,
		resolver:    resolver,
	}
}

func (ta *testApp) createUser(t *testing.T, name, uname, email, role string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Name:     name,
		Username: uname,
		Email:    email,
		Role:     role,
		IsActive: isActive,
	}
	if err := usr.SetPassword("Tr0ub4dor&3"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := ta.userRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// studentProfile lazily creates the student profile the way a first
// authenticated request would.
func (ta *testApp) studentProfile(t *testing.T, usr user.User) student.Profile {
	t.Helper()
	prof, err := ta.resolver.StudentProfile(context.Background(), usr.Principal())
	if err != nil {
		t.Fatalf("StudentProfile() failed: %v", err)
	}
	return prof
}

func (ta *testApp) facultyProfile(t *testing.T, usr user.User) faculty.Profile {
	t.Helper()
	prof, err := ta.resolver.FacultyProfile(context.Background(), usr.Principal())
	if err != nil {
		t.Fatalf("FacultyProfile() failed: %v", err)
	}
	return prof
}

func (ta *testApp) assign(t *testing.T, facultyID, studentID string) {
	t.Helper()
	if err := ta.facultyRepo.Assign(context.Background(), facultyID, studentID); err != nil {
		t.Fatalf("Assign() failed: %v", err)
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(conf, usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding response %q failed: %v", rec.Body.String(), err)
	}
}
