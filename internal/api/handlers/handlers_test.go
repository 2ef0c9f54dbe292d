package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/backend"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// fakeAuth stands in for the upstream client in auth handler tests
type fakeAuth struct {
	loginFn    func(ctx context.Context, username, password string) (*backend.LoginResult, error)
	registerFn func(ctx context.Context, role models.Role, req *models.RegisterRequest) error
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*backend.LoginResult, error) {
	return f.loginFn(ctx, username, password)
}

func (f *fakeAuth) Register(ctx context.Context, role models.Role, req *models.RegisterRequest) error {
	if f.registerFn != nil {
		return f.registerFn(ctx, role, req)
	}
	return nil
}

// stubBackend serves canned listings; the rest of the surface is unused here
type stubBackend struct {
	listings []models.JobListing
}

func (s *stubBackend) Listings(ctx context.Context) ([]models.JobListing, error) {
	return s.listings, nil
}

func (s *stubBackend) CompanyListings(ctx context.Context, companyID string) ([]models.JobListing, error) {
	return s.listings, nil
}

func (s *stubBackend) DepartmentListings(ctx context.Context, coordinatorID string) ([]models.JobListing, error) {
	return s.listings, nil
}

func (s *stubBackend) CreateListing(ctx context.Context, companyID string, req *models.CreateListingRequest) (*models.JobListing, error) {
	return nil, utils.NewUpstreamError("not wired")
}

func (s *stubBackend) UpdateListing(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.JobListing, error) {
	return nil, utils.NewUpstreamError("not wired")
}

func (s *stubBackend) DeleteListing(ctx context.Context, id string) error {
	return utils.NewUpstreamError("not wired")
}

func (s *stubBackend) ApproveListing(ctx context.Context, id, coordinatorID string) (*models.JobListing, error) {
	return nil, utils.NewUpstreamError("not wired")
}

func (s *stubBackend) RejectListing(ctx context.Context, id, coordinatorID, reason string) (*models.JobListing, error) {
	return nil, utils.NewUpstreamError("not wired")
}

func (s *stubBackend) Company(ctx context.Context, id string) (*models.CompanyProfile, error) {
	return nil, utils.NewNotFoundError("no such company")
}

func (s *stubBackend) StudentApplications(ctx context.Context, studentID string) ([]models.Application, error) {
	return nil, nil
}

func (s *stubBackend) ListingApplications(ctx context.Context, listingID string) ([]models.Application, error) {
	return nil, nil
}

func (s *stubBackend) CreateApplication(ctx context.Context, studentID string, req *models.CreateApplicationRequest) (*models.Application, error) {
	return nil, utils.NewUpstreamError("not wired")
}

func (s *stubBackend) SetApplicationStatus(ctx context.Context, id string, status models.Status, feedback string) (*models.Application, error) {
	return nil, utils.NewUpstreamError("not wired")
}

func (s *stubBackend) WithdrawApplication(ctx context.Context, id string) error {
	return utils.NewUpstreamError("not wired")
}

func (s *stubBackend) Notifications(ctx context.Context, userID string) (*models.NotificationsResponse, error) {
	return &models.NotificationsResponse{}, nil
}

func (s *stubBackend) MarkNotificationRead(ctx context.Context, id string) error {
	return nil
}

func (s *stubBackend) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return nil
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func studentSession() *models.Session {
	return &models.Session{
		Token:     "tok-student",
		Role:      models.RoleStudent,
		Student:   &models.StudentProfile{ID: "s-1", Course: "BS Computer Science"},
		CreatedAt: time.Now(),
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, username, password string) (*backend.LoginResult, error) {
			if username != "ana" || password != "secret123" {
				return nil, utils.NewUnauthorizedError("invalid credentials")
			}
			return &backend.LoginResult{
				Role:    models.RoleStudent,
				Student: &models.StudentProfile{ID: "s-1", Name: "Ana", Course: "BS Computer Science"},
			}, nil
		},
	}
	store := session.NewMemoryStore(time.Hour)

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"ana","password":"secret123"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := LoginHandler(auth, store)(c); err != nil {
		t.Fatalf("login handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if resp.Role != models.RoleStudent || resp.Student == nil || resp.Student.ID != "s-1" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	sess, err := store.Get(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if sess.Role != models.RoleStudent {
		t.Fatalf("persisted session role = %s", sess.Role)
	}
}

func TestLoginUpstreamRejectionPassesThrough(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, username, password string) (*backend.LoginResult, error) {
			return nil, utils.NewUnauthorizedError("invalid credentials")
		},
	}
	store := session.NewMemoryStore(time.Hour)

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"ana","password":"wrong-pass"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := LoginHandler(auth, store)(c); err != nil {
		t.Fatalf("login handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "unauthorized" {
		t.Fatalf("expected unauthorized slug, got %q", resp.Error)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/v1/auth/register/manager",
		`{"username":"x","password":"longenough","email":"x@example.com"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("manager")

	if err := RegisterHandler(&fakeAuth{})(c); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterEnforcesRoleFields(t *testing.T) {
	e := echo.New()
	// Student registration without course or year level
	req := jsonRequest(http.MethodPost, "/api/v1/auth/register/student",
		`{"username":"ana","password":"longenough","email":"ana@example.com","name":"Ana"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("role")
	c.SetParamValues("student")

	called := false
	auth := &fakeAuth{registerFn: func(ctx context.Context, role models.Role, req *models.RegisterRequest) error {
		called = true
		return nil
	}}

	if err := RegisterHandler(auth)(c); err != nil {
		t.Fatalf("register handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if called {
		t.Fatal("upstream register should not be called on invalid input")
	}
}

func TestLogoutEvictsDashboard(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := studentSession()
	if err := store.Put(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	registry := dashboard.NewRegistry(&stubBackend{}, logging.NewMultiLogger())
	registry.Bundle(sess)
	if registry.Size() != 1 {
		t.Fatalf("expected one live bundle, got %d", registry.Size())
	}

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/v1/auth/logout", "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", sess)

	if err := LogoutHandler(store, registry)(c); err != nil {
		t.Fatalf("logout handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if registry.Size() != 0 {
		t.Fatalf("expected bundle evicted, got %d live", registry.Size())
	}
	if _, err := store.Get(context.Background(), sess.Token); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected session deleted, got %v", err)
	}
}

func TestListListingsFiltersByStatus(t *testing.T) {
	stub := &stubBackend{listings: []models.JobListing{
		{ID: "l-1", Title: "QA Intern", Status: models.StatusApproved},
		{ID: "l-2", Title: "Backend Intern", Status: models.StatusApproved},
	}}
	registry := dashboard.NewRegistry(stub, logging.NewMultiLogger())
	sess := studentSession()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?status=approved", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", sess)

	if err := ListListingsHandler(registry)(c); err != nil {
		t.Fatalf("list handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ListingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected both approved listings, got %d", resp.Count)
	}

	// Students never see pending records, so the pending filter is empty
	req = httptest.NewRequest(http.MethodGet, "/api/v1/listings?status=pending", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("session", sess)

	if err := ListListingsHandler(registry)(c); err != nil {
		t.Fatalf("list handler: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("expected no pending listings for a student, got %d", resp.Count)
	}
}

func TestListListingsRejectsBadFilter(t *testing.T) {
	registry := dashboard.NewRegistry(&stubBackend{}, logging.NewMultiLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?status=archived", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", studentSession())

	if err := ListListingsHandler(registry)(c); err != nil {
		t.Fatalf("list handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
