package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

func seedSession(t *testing.T, store session.Store, role models.Role) *models.Session {
	t.Helper()
	sess := &models.Session{
		Token:     "tok-1",
		Role:      role,
		CreatedAt: time.Now(),
	}
	switch role {
	case models.RoleStudent:
		sess.Student = &models.StudentProfile{ID: "s-1", Course: "BS Computer Science"}
	case models.RoleCompany:
		sess.Company = &models.CompanyProfile{ID: "co-1"}
	case models.RoleCoordinator:
		sess.Coordinator = &models.CoordinatorProfile{ID: "c-9"}
	}
	if err := store.Put(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, *models.Session) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.Session
	handler := mw(func(c echo.Context) error {
		seen = CurrentSession(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, seen
}

func TestSessionAuthMissingToken(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	rec, seen := invoke(t, SessionAuth(store), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatal("handler should not run without a session")
	}
}

func TestSessionAuthUnknownToken(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	rec, _ := invoke(t, SessionAuth(store), "Bearer nope")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthInjectsSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	seedSession(t, store, models.RoleStudent)

	rec, seen := invoke(t, SessionAuth(store), "Bearer tok-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.Role != models.RoleStudent {
		t.Fatalf("expected student session in context, got %+v", seen)
	}
}

func TestSessionAuthPrefixIsCaseInsensitive(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	seedSession(t, store, models.RoleCompany)

	rec, _ := invoke(t, SessionAuth(store), "bearer tok-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role models.Role, allowed ...models.Role) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("session", &models.Session{Role: role})

		handler := RequireRole(allowed...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec.Code
	}

	if code := run(models.RoleCompany, models.RoleCompany); code != http.StatusOK {
		t.Fatalf("company on company route: expected 200, got %d", code)
	}
	if code := run(models.RoleStudent, models.RoleCompany); code != http.StatusForbidden {
		t.Fatalf("student on company route: expected 403, got %d", code)
	}
	if code := run(models.RoleStudent, models.RoleStudent, models.RoleCompany); code != http.StatusOK {
		t.Fatalf("student on shared route: expected 200, got %d", code)
	}
}
