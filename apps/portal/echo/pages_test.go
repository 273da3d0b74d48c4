package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func Test_publicPages(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		path      string
		wantTitle string
	}{
		{path: "/", wantTitle: "Home"},
		{path: "/about", wantTitle: "About"},
		{path: "/contact", wantTitle: "Contact"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCode(t, rec, http.StatusOK)

			var res pageResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decoding page response: %v", err)
			}
			if res.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", res.Title, tt.wantTitle)
			}
		})
	}
}

func Test_homePageWelcome(t *testing.T) {
	app := newTestApp()

	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var res pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding page response: %v", err)
	}
	if res.Message != "Welcome to Study Sphere App" {
		t.Errorf("message = %q, want the welcome banner", res.Message)
	}
}

func Test_rolePageGuards(t *testing.T) {
	app := newTestApp()

	logins := map[string]struct{ email, pwd string }{
		"admin":   {"admin@example.com", "adminpass"},
		"teacher": {"teacher@example.com", "teacherpass"},
		"student": {"student@example.com", "studentpass"},
	}

	tests := []struct {
		name         string
		path         string
		loginAs      string
		wantCode     int
		wantTitle    string
		wantLocation string
	}{
		{name: "anonymous to admin page", path: "/admin", wantCode: http.StatusSeeOther, wantLocation: "/login"},
		{name: "anonymous to teacher page", path: "/teacher", wantCode: http.StatusSeeOther, wantLocation: "/login"},
		{name: "anonymous to student page", path: "/student", wantCode: http.StatusSeeOther, wantLocation: "/login"},
		{name: "admin to admin page", path: "/admin", loginAs: "admin", wantCode: http.StatusOK, wantTitle: "Admin Page"},
		{name: "teacher to teacher page", path: "/teacher", loginAs: "teacher", wantCode: http.StatusOK, wantTitle: "Teacher Page"},
		{name: "student to student page", path: "/student", loginAs: "student", wantCode: http.StatusOK, wantTitle: "Student Page"},
		{name: "student to admin page", path: "/admin", loginAs: "student", wantCode: http.StatusSeeOther, wantLocation: "/"},
		{name: "teacher to student page", path: "/student", loginAs: "teacher", wantCode: http.StatusSeeOther, wantLocation: "/"},
		{name: "admin to teacher page", path: "/teacher", loginAs: "admin", wantCode: http.StatusSeeOther, wantLocation: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var token string
			if tt.loginAs != "" {
				creds := logins[tt.loginAs]
				token = app.doLogin(t, creds.email, creds.pwd)
			}

			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			app.server.ServeHTTP(rec, req)
			checkCode(t, rec, tt.wantCode)

			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
				return
			}

			var res pageResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decoding page response: %v", err)
			}
			if res.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", res.Title, tt.wantTitle)
			}
		})
	}
}

// A stale token from a cleared session gets no further than an anonymous visitor.
func Test_rolePageGuards_staleToken(t *testing.T) {
	app := newTestApp()
	token := app.doLogin(t, "admin@example.com", "adminpass")

	req, rec := newAuthRequest(http.MethodPost, "/logout", token)
	app.server.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusNoContent)

	req, rec = newAuthRequest(http.MethodGet, "/admin", token)
	app.server.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}
