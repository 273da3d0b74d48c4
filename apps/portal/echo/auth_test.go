package echoapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/studentsphere/portal/core/user"
)

func Test_authAPI_login(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		pwd          string
		dirErr       error
		wantCode     int
		wantErr      string
		wantRole     user.Role
		wantRedirect string
	}{
		{name: "admin ok", email: "admin@example.com", pwd: "adminpass", wantCode: http.StatusOK, wantRole: user.RoleAdmin, wantRedirect: "/admin"},
		{name: "teacher ok", email: "teacher@example.com", pwd: "teacherpass", wantCode: http.StatusOK, wantRole: user.RoleTeacher, wantRedirect: "/teacher"},
		{name: "student ok", email: "student@example.com", pwd: "studentpass", wantCode: http.StatusOK, wantRole: user.RoleStudent, wantRedirect: "/student"},
		{name: "wrong password", email: "admin@example.com", pwd: "wrong", wantCode: http.StatusBadRequest, wantErr: "Invalid email or password"},
		{name: "unknown email", email: "nobody@example.com", pwd: "adminpass", wantCode: http.StatusBadRequest, wantErr: "Invalid email or password"},
		{name: "directory down", email: "admin@example.com", pwd: "adminpass", dirErr: errors.New("connection refused"), wantCode: http.StatusBadGateway, wantErr: "An error occurred during login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.dir.Err = tt.dirErr
			defer func() { app.dir.Err = nil }()

			req, rec := newRequest(http.MethodPost, "/login", marshallObj(t, loginRequest{Email: tt.email, Password: tt.pwd}))
			app.server.ServeHTTP(rec, req)
			checkCode(t, rec, tt.wantCode)

			if tt.wantErr != "" {
				var body httpErr
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decoding error body: %v", err)
				}
				if body.Error != tt.wantErr {
					t.Errorf("error = %q, want %q", body.Error, tt.wantErr)
				}
				if _, ok := app.mgr.Current(); ok {
					t.Error("a failed login must not create a session")
				}
				return
			}

			var res loginResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decoding login response: %v", err)
			}
			if res.Token == "" {
				t.Error("login response has no token")
			}
			if res.Role != tt.wantRole {
				t.Errorf("role = %v, want %v", res.Role, tt.wantRole)
			}
			if res.Redirect != tt.wantRedirect {
				t.Errorf("redirect = %q, want %q", res.Redirect, tt.wantRedirect)
			}
		})
	}
}

// Unknown email and wrong password must produce byte-identical responses.
func Test_authAPI_login_identicalFailures(t *testing.T) {
	app := newTestApp()

	req1, rec1 := newRequest(http.MethodPost, "/login", marshallObj(t, loginRequest{Email: "nobody@example.com", Password: "adminpass"}))
	app.server.ServeHTTP(rec1, req1)
	req2, rec2 := newRequest(http.MethodPost, "/login", marshallObj(t, loginRequest{Email: "admin@example.com", Password: "wrong"}))
	app.server.ServeHTTP(rec2, req2)

	if rec1.Code != rec2.Code {
		t.Errorf("codes differ: %v vs %v", rec1.Code, rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Errorf("bodies differ: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
}

func Test_authAPI_login_validation(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty body", body: []byte(`{}`)},
		{name: "bad email", body: []byte(`{"email":"lol","password":"adminpass"}`)},
		{name: "missing password", body: []byte(`{"email":"admin@example.com"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCode(t, rec, http.StatusBadRequest)
		})
	}
}

func Test_authAPI_session(t *testing.T) {
	app := newTestApp()
	token := app.doLogin(t, "student@example.com", "studentpass")

	t.Run("valid token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/session", token)
		app.server.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var res sessionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decoding session response: %v", err)
		}
		if res.Role != user.RoleStudent {
			t.Errorf("role = %v, want %v", res.Role, user.RoleStudent)
		}
		var hasStudentLink bool
		for _, link := range res.Links {
			if link.Route == "/student" {
				hasStudentLink = true
			}
		}
		if !hasStudentLink {
			t.Errorf("links = %v, want the student page link", res.Links)
		}
	})

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/session")
		app.server.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusUnauthorized)
	})

	t.Run("mismatched token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/session", "n0t-the-t0ken")
		app.server.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusUnauthorized)
	})
}

// The session survives a portal restart as long as the store kept the record.
func Test_authAPI_session_restoredFromStore(t *testing.T) {
	app := newTestApp()
	token := app.doLogin(t, "teacher@example.com", "teacherpass")

	// a second app over the same store models a reload
	reloaded := newTestApp(app.store)

	req, rec := newAuthRequest(http.MethodGet, "/session", token)
	reloaded.server.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)
}

func Test_authAPI_logout(t *testing.T) {
	app := newTestApp()
	token := app.doLogin(t, "admin@example.com", "adminpass")

	req, rec := newAuthRequest(http.MethodPost, "/logout", token)
	app.server.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusNoContent)

	if _, ok := app.mgr.Current(); ok {
		t.Error("logout did not clear the session")
	}
	if app.store.Len() != 0 {
		t.Errorf("store holds %d entries after logout, want 0", app.store.Len())
	}

	req, rec = newAuthRequest(http.MethodGet, "/session", token)
	app.server.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusUnauthorized)
}

func Test_authAPI_nav(t *testing.T) {
	app := newTestApp()

	t.Run("anonymous", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/nav")
		app.server.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var res navResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decoding nav response: %v", err)
		}
		labels := make([]string, 0, len(res.Links))
		for _, link := range res.Links {
			labels = append(labels, link.Label)
		}
		want := []string{"Home", "About", "Contact", "Login"}
		if len(labels) != len(want) {
			t.Fatalf("labels = %v, want %v", labels, want)
		}
		for i := range want {
			if labels[i] != want[i] {
				t.Errorf("labels = %v, want %v", labels, want)
				break
			}
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		token := app.doLogin(t, "admin@example.com", "adminpass")

		req, rec := newAuthRequest(http.MethodGet, "/nav", token)
		app.server.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var res navResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decoding nav response: %v", err)
		}
		var hasAdmin, hasLogin bool
		for _, link := range res.Links {
			switch link.Label {
			case "Admin Page":
				hasAdmin = true
			case "Login":
				hasLogin = true
			}
		}
		if !hasAdmin || hasLogin {
			t.Errorf("links = %v, want the admin page link and no login link", res.Links)
		}
	})
}
