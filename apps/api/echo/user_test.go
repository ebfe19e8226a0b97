package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
)

func Test_userApi_login(t *testing.T) {
	ta := setup(t)

	active := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)
	naughty := ta.createUser(t, "N Dog", "ndog", "ndog@test.cd", core.RoleStudent, false)

	tests := []httpTest{
		{
			name: "unknown user", body: marchallObj(t, user.LoginRequest{Username: "ghost", Password: "Tr0ub4dor&3"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: marchallObj(t, user.LoginRequest{Username: active.Username, Password: "nope nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: marchallObj(t, user.LoginRequest{Username: naughty.Username, Password: "Tr0ub4dor&3"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login by username or email", func(t *testing.T) {
		for _, uname := range []string{active.Username, active.Email} {
			body := marchallObj(t, user.LoginRequest{Username: uname, Password: "Tr0ub4dor&3"})
			req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
			ta.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("login(%s) code = %v; want %v: %s", uname, rec.Code, http.StatusOK, rec.Body.String())
			}

			var resp LoginResponse
			decodeBody(t, rec, &resp)
			if resp.Token == "" {
				t.Fatal("login() returned an empty token")
			}

			// the token authenticates follow-up requests
			req, rec = newAuthRequest(http.MethodGet, "/v1/users/me", resp.Token)
			ta.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("me() code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var me user.User
			decodeBody(t, rec, &me)
			if me.ID != active.ID || me.LastLogin.IsZero() {
				t.Errorf("me() = %+v; want %s with lastLogin set", me, active.ID)
			}
		}
	})
}

func Test_userApi_me(t *testing.T) {
	ta := setup(t)

	usr := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "own account", token: getToken(t, ta.conf, usr),
			wantCode: http.StatusOK, wantData: marchallObj(t, usr),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	ta := setup(t)

	admin := ta.createUser(t, "Admin", "admin", "admin@test.cd", core.RoleAdmin, true)
	fac := ta.createUser(t, "Teacher", "teacher", "teacher@test.cd", core.RoleFaculty, true)
	stu := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)

	newUser := func(uname, email string) []byte {
		return marchallObj(t, user.NewUser{
			Name:            "Jane Awesome",
			Username:        uname,
			Email:           email,
			Role:            core.RoleStudent,
			Password:        "Tr0ub4dor&3",
			PasswordConfirm: "Tr0ub4dor&3",
		})
	}

	tests := []httpTest{
		{name: "auth required", body: newUser("jane", "jane@test.cd"), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student cannot register accounts", token: getToken(t, ta.conf, stu), body: newUser("jane", "jane@test.cd"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name: "faculty cannot register accounts", token: getToken(t, ta.conf, fac), body: newUser("jane", "jane@test.cd"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	adminToken := getToken(t, ta.conf, admin)

	t.Run("admin registers an account", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", adminToken, newUser("jane", "jane@test.cd"))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("register() code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var created user.User
		decodeBody(t, rec, &created)
		if created.Username != "jane" || created.Role != core.RoleStudent || !created.IsActive {
			t.Errorf("register() = %+v; want an active student account", created)
		}

		usr, err := ta.userRepo.GetUserByUsernameOrEmail(context.Background(), "jane")
		if err != nil {
			t.Fatalf("GetUserByUsernameOrEmail() failed: %v", err)
		}
		if err = usr.CheckPassword("Tr0ub4dor&3"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", adminToken, newUser("jane", "jane2@test.cd"))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("register(duplicate) code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	ta := setup(t)

	usr := ta.createUser(t, "Hero", "hero", "hero@test.cd", core.RoleStudent, true)
	naughty := ta.createUser(t, "N Dog", "ndog", "ndog@test.cd", core.RoleStudent, false)

	staleToken := func(usr user.User) string {
		t.Helper()
		oriat := time.Now().Add(-(ta.conf.Server.JWTRefreshExpirationDelta + time.Hour)).Unix()
		token, err := GenerateToken(GetUserClaims(ta.conf, usr, oriat))
		if err != nil {
			t.Fatalf("GenerateToken() failed: %v", err)
		}
		return token
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "deactivated account", token: getToken(t, ta.conf, naughty),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "refresh window expired", token: staleToken(usr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("active account refreshes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, ta.conf, usr))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("refresh() code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp LoginResponse
		decodeBody(t, rec, &resp)
		if resp.Token == "" {
			t.Error("refresh() returned an empty token")
		}
	})
}
