package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/session"
	"github.com/studentsphere/portal/core/user"
	dummydir "github.com/studentsphere/portal/storage/directory/dummy"
	inmemstore "github.com/studentsphere/portal/storage/session/inmem"
)

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type httpErr struct {
	Error string `json:"error"`
}

type testApp struct {
	server *Server
	dir    *dummydir.Directory
	mgr    *session.Manager
	store  *inmemstore.Store
}

// newTestApp builds a full portal server over an in-memory directory and
// session store. Passing a store models a client whose storage already holds
// a session record.
func newTestApp(sharedStore ...*inmemstore.Store) *testApp {
	conf := &core.Config{
		AppName:  "Student Sphere",
		Env:      "TEST",
		TestMode: true,
		Server:   core.ServerConfig{PortalAddress: ":0"},
	}

	dir := dummydir.New()
	dir.AddUser(user.User{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}, "adminpass")
	dir.AddUser(user.User{ID: 2, Email: "teacher@example.com", Role: user.RoleTeacher}, "teacherpass")
	dir.AddUser(user.User{ID: 3, Email: "student@example.com", Role: user.RoleStudent}, "studentpass")

	store := inmemstore.NewStore()
	if len(sharedStore) > 0 {
		store = sharedStore[0]
	}
	mgr := session.NewManager(store, testLogger{})

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        testLogger{},
		Authenticator: user.NewAuthenticator(dir, testLogger{}),
		SessionMgr:    mgr,
		Validate:      validate,
		Translator:    translator,
	})
	return &testApp{server: server, dir: dir, mgr: mgr, store: store}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
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

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

// doLogin authenticates and returns the issued session token.
func (app *testApp) doLogin(t *testing.T, email, pwd string) string {
	req, rec := newRequest(http.MethodPost, "/login", marshallObj(t, loginRequest{Email: email, Password: pwd}))
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: code = %v, body = %s", rec.Code, rec.Body.String())
	}
	var res loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return res.Token
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) {
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, wantCode, rec.Body.String())
	}
}
