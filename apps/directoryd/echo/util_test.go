package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/user"
	dummydb "github.com/studentsphere/portal/storage/database/dummy"
)

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type captureEmailService struct {
	sent []*core.EmailMessage
}

func (svc *captureEmailService) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

type httpErr struct {
	Error string `json:"error"`
}

type testApp struct {
	server  *Server
	conf    *core.Config
	svc     *user.Service
	repo    user.Repository
	mailSvc *captureEmailService
}

func newTestApp() *testApp {
	conf := &core.Config{
		AppName:              "Student Sphere",
		Env:                  "TEST",
		TestMode:             true,
		SecretKey:            "secret",
		FrontendBaseURL:      "http://localhost:3000",
		VerificationTokenTTL: time.Hour,
		Server:               core.ServerConfig{DirectoryAddress: ":0"},
	}

	repo := dummydb.NewUserRepository()
	mailSvc := new(captureEmailService)
	svc := user.NewService(repo, mailSvc, user.NewTokenSigner(conf), conf)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{},
		UserSvc:    svc,
		Validate:   validate,
		Translator: translator,
	})
	return &testApp{server: server, conf: conf, svc: svc, repo: repo, mailSvc: mailSvc}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) {
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, wantCode, rec.Body.String())
	}
}

// registerUser creates a user straight through the service.
func (app *testApp) registerUser(t *testing.T, email, pwd string, role user.Role) user.User {
	usr, err := app.svc.Create(context.Background(), user.NewUser{
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return usr
}
