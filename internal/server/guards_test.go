package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/opencanteen/mensa/internal/auth"
	"github.com/opencanteen/mensa/internal/config"
	employeedomain "github.com/opencanteen/mensa/internal/employee/domain"
	"go.uber.org/zap"
)

const (
	testSecret        = "local-dev-secret"
	testUserAudience  = "mensa-user"
	testAdminAudience = "mensa-admin"
)

type fakeEmployeeService struct {
	roles   map[string]string
	created []employeedomain.CreateRequest
}

func (f *fakeEmployeeService) Create(_ context.Context, req employeedomain.CreateRequest) (*employeedomain.Response, error) {
	f.created = append(f.created, req)
	return &employeedomain.Response{Code: "ACM-0001", Name: req.Name, Role: req.Role, Email: req.Email}, nil
}

func (f *fakeEmployeeService) List(context.Context, employeedomain.ListRequest) ([]employeedomain.Response, error) {
	return []employeedomain.Response{}, nil
}

func (f *fakeEmployeeService) Get(_ context.Context, code string) (*employeedomain.Response, error) {
	role, ok := f.roles[code]
	if !ok {
		return nil, employeedomain.ErrNotFound
	}
	return &employeedomain.Response{Code: code, Role: role}, nil
}

func (f *fakeEmployeeService) Update(context.Context, employeedomain.UpdateRequest) (*employeedomain.Response, error) {
	return nil, employeedomain.ErrNotFound
}

func (f *fakeEmployeeService) Delete(context.Context, string) error { return nil }

func newTestServer(t *testing.T) (*Server, *fakeEmployeeService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		AuthLocalHSSecret: testSecret,
		AuthUserAudience:  testUserAudience,
		AuthAdminAudience: testAdminAudience,
	}
	verifiers := auth.New(auth.Params{Cfg: cfg, Log: zap.NewNop()})

	employees := &fakeEmployeeService{roles: map[string]string{
		"ACM-0001": "staff",
		"ACM-0002": "hr",
	}}
	srv := NewServer(ServerParams{
		Gin:           NewEngine(zap.NewNop()),
		Cfg:           cfg,
		Log:           zap.NewNop(),
		UserVerifier:  verifiers.User,
		AdminVerifier: verifiers.Admin,
		EmployeeSvc:   employees,
	})
	return srv, employees
}

func signToken(t *testing.T, audience string, claims map[string]any) string {
	t.Helper()
	payload := jwt.MapClaims{
		"aud": audience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range claims {
		payload[k] = v
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestGuardRejectsMissingToken(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/user", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Error.Type != "unauthorized" {
		t.Fatalf("unexpected error type %q", resp.Error.Type)
	}
}

func TestGuardRejectsExpiredToken(t *testing.T) {
	srv, _ := newTestServer(t)

	payload := jwt.MapClaims{
		"aud": testUserAudience,
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/user", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuardAdmitsUserToken(t *testing.T) {
	srv, _ := newTestServer(t)

	token := signToken(t, testUserAudience, map[string]any{"employee_code": "ACM-0001"})
	rec := doRequest(t, srv, http.MethodGet, "/user", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGuardAdmitsAdminTokenOnUserRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	// The admin audience fails the user verifier and falls through to the
	// admin one.
	token := signToken(t, testAdminAudience, map[string]any{"role": "admin"})
	rec := doRequest(t, srv, http.MethodGet, "/user", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRoleBlocksStaff(t *testing.T) {
	srv, _ := newTestServer(t)

	token := signToken(t, testUserAudience, map[string]any{"employee_code": "ACM-0001"})
	body := []byte(`{"name":"x","role":"staff","email":"x@example.com","organization_id":"1","salary":1000}`)
	rec := doRequest(t, srv, http.MethodPost, "/user", token, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRoleAdmitsHREmployee(t *testing.T) {
	srv, employees := newTestServer(t)

	token := signToken(t, testUserAudience, map[string]any{"employee_code": "ACM-0002"})
	body := []byte(`{"name":"New Hire","role":"staff","email":"hire@example.com","organization_id":"1","salary":90000}`)
	rec := doRequest(t, srv, http.MethodPost, "/user", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(employees.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(employees.created))
	}
}

func TestRequireRoleAdmitsAdminToken(t *testing.T) {
	srv, _ := newTestServer(t)

	token := signToken(t, testAdminAudience, map[string]any{"role": "admin"})
	body := []byte(`{"name":"New Hire","role":"staff","email":"hire@example.com","organization_id":"1","salary":90000}`)
	rec := doRequest(t, srv, http.MethodPost, "/user", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWrongAudienceRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	token := signToken(t, "some-other-service", map[string]any{"employee_code": "ACM-0001"})
	rec := doRequest(t, srv, http.MethodGet, "/user", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
