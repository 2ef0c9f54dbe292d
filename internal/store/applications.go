package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// ApplicationBackend is the slice of the upstream client the application
// store uses
type ApplicationBackend interface {
	StudentApplications(ctx context.Context, studentID string) ([]models.Application, error)
	ListingApplications(ctx context.Context, listingID string) ([]models.Application, error)
	CreateApplication(ctx context.Context, studentID string, req *models.CreateApplicationRequest) (*models.Application, error)
	SetApplicationStatus(ctx context.Context, id string, status models.Status, feedback string) (*models.Application, error)
	WithdrawApplication(ctx context.Context, id string) error
}

// ApplicationStore holds the application collection visible to one session.
// A student session is bound to its own applications; a company session is
// bound to one listing at a time, switched with RefreshListing.
type ApplicationStore struct {
	mu         sync.Mutex
	backend    ApplicationBackend
	session    *models.Session
	apps       []models.Application
	listingID  string
	generation uint64
	logger     logging.Logger
}

// NewApplicationStore creates the application store bound to a session
func NewApplicationStore(backend ApplicationBackend, session *models.Session, logger logging.Logger) *ApplicationStore {
	return &ApplicationStore{
		backend: backend,
		session: session,
		logger:  logger,
	}
}

// Refresh fetches the authoritative collection for the current scope: the
// student's own applications, or the company's currently bound listing.
// Stale refreshes are discarded, as in the listing store.
func (s *ApplicationStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	start := s.generation
	listingID := s.listingID
	s.mu.Unlock()

	apps, err := s.fetch(ctx, listingID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != start {
		s.logger.Debug("Discarding stale application refresh", map[string]interface{}{
			"fetched_at_generation": start,
			"current_generation":    s.generation,
		})
		return nil
	}
	s.apps = apps
	return nil
}

// RefreshListing binds a company store to one listing's applications
func (s *ApplicationStore) RefreshListing(ctx context.Context, listingID string) error {
	if s.session.Role != models.RoleCompany {
		return utils.NewPermissionError("only companies browse a listing's applications")
	}

	s.mu.Lock()
	s.listingID = listingID
	start := s.generation
	s.mu.Unlock()

	apps, err := s.backend.ListingApplications(ctx, listingID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != start || s.listingID != listingID {
		return nil
	}
	s.apps = apps
	return nil
}

func (s *ApplicationStore) fetch(ctx context.Context, listingID string) ([]models.Application, error) {
	switch s.session.Role {
	case models.RoleStudent:
		return s.backend.StudentApplications(ctx, s.session.Student.ID)
	case models.RoleCompany:
		if listingID == "" {
			return []models.Application{}, nil
		}
		return s.backend.ListingApplications(ctx, listingID)
	}
	return nil, utils.NewPermissionError(fmt.Sprintf("role %q has no application scope", s.session.Role))
}

// Create submits an application for the session's student. The upstream
// answers with a validation error when the target listing is not approved;
// that error is surfaced unchanged.
func (s *ApplicationStore) Create(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error) {
	if s.session.Role != models.RoleStudent {
		return nil, utils.NewPermissionError("only students apply to listings")
	}

	created, err := s.backend.CreateApplication(ctx, s.session.Student.ID, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.upsertLocked(created)
	return created, nil
}

// SetStatus transitions a pending application to approved or rejected with
// optional feedback. A locally non-pending record fails fast without a
// round-trip.
func (s *ApplicationStore) SetStatus(ctx context.Context, id string, status models.Status, feedback string) (*models.Application, error) {
	if s.session.Role != models.RoleCompany {
		return nil, utils.NewPermissionError("only companies decide applications")
	}
	if !status.IsTerminal() {
		return nil, utils.NewValidationError(fmt.Sprintf("cannot set application status to %q", status))
	}
	if err := s.precheck(id, func(a *models.Application) error {
		if !a.Status.CanTransition(status) {
			return utils.NewConflictError(fmt.Sprintf("application is already %s", a.Status))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	updated, err := s.backend.SetApplicationStatus(ctx, id, status, feedback)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.upsertLocked(updated)
	return updated, nil
}

// Withdraw deletes a pending application. A 404 reconciles as "already
// gone". A 409 means the application was decided while the student looked at
// stale state: the authoritative collection is re-fetched before the conflict
// is surfaced, so the caller sees both the error and the true state.
func (s *ApplicationStore) Withdraw(ctx context.Context, id string) error {
	if s.session.Role != models.RoleStudent {
		return utils.NewPermissionError("only students withdraw their applications")
	}

	err := s.backend.WithdrawApplication(ctx, id)
	switch {
	case err == nil:
	case utils.IsNotFound(err):
		s.logger.Info("Application already gone upstream, reconciling local state", map[string]interface{}{
			"application_id": id,
		})
	case utils.IsConflict(err):
		s.logger.Warn("Withdraw conflicted with an upstream decision, re-fetching", map[string]interface{}{
			"application_id": id,
			"error":          err.Error(),
		})
		if refreshErr := s.refetchAuthoritative(ctx); refreshErr != nil {
			s.logger.Error("Re-fetch after withdraw conflict failed", map[string]interface{}{
				"application_id": id,
				"error":          refreshErr.Error(),
			})
		}
		return err
	default:
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.removeLocked(id)
	return nil
}

// refetchAuthoritative replaces the collection unconditionally; it runs after
// a conflict, so the local state is known stale
func (s *ApplicationStore) refetchAuthoritative(ctx context.Context) error {
	s.mu.Lock()
	listingID := s.listingID
	s.mu.Unlock()

	apps, err := s.fetch(ctx, listingID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.apps = apps
	return nil
}

func (s *ApplicationStore) precheck(id string, check func(*models.Application) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			return check(&s.apps[i])
		}
	}
	return nil
}

// Snapshot returns a copy of the current collection in server order
func (s *ApplicationStore) Snapshot() []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Application, len(s.apps))
	copy(out, s.apps)
	return out
}

// Get returns a copy of one application
func (s *ApplicationStore) Get(id string) (*models.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			a := s.apps[i]
			return &a, true
		}
	}
	return nil, false
}

func (s *ApplicationStore) upsertLocked(a *models.Application) {
	for i := range s.apps {
		if s.apps[i].ID == a.ID {
			s.apps[i] = *a
			return
		}
	}
	s.apps = append(s.apps, *a)
}

func (s *ApplicationStore) removeLocked(id string) {
	for i := range s.apps {
		if s.apps[i].ID == id {
			s.apps = append(s.apps[:i], s.apps[i+1:]...)
			return
		}
	}
}
