// Package store holds the per-dashboard collections. Each store serializes
// access with a mutex and reconciles its collection only from server
// representations: successful mutations replace or remove the affected record
// with what the server returned, never with an optimistic local guess.
//
// Every store carries a generation counter bumped on each applied mutation. A
// refresh that started before the latest mutation is discarded instead of
// clobbering the newer state.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/bmgvallo/hirearchy-gateway/internal/departments"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// ListingBackend is the slice of the upstream client the listing store uses
type ListingBackend interface {
	Listings(ctx context.Context) ([]models.JobListing, error)
	CompanyListings(ctx context.Context, companyID string) ([]models.JobListing, error)
	DepartmentListings(ctx context.Context, coordinatorID string) ([]models.JobListing, error)
	CreateListing(ctx context.Context, companyID string, req *models.CreateListingRequest) (*models.JobListing, error)
	UpdateListing(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.JobListing, error)
	DeleteListing(ctx context.Context, id string) error
	ApproveListing(ctx context.Context, id, coordinatorID string) (*models.JobListing, error)
	RejectListing(ctx context.Context, id, coordinatorID, reason string) (*models.JobListing, error)
	Company(ctx context.Context, id string) (*models.CompanyProfile, error)
}

// ListingStore holds the listing collection visible to one session
type ListingStore struct {
	mu         sync.Mutex
	backend    ListingBackend
	session    *models.Session
	listings   []models.JobListing
	generation uint64
	// degraded is set when the coordinator scope had to be derived
	// client-side by keyword matching because the department endpoint failed
	degraded     bool
	companyNames map[string]string
	logger       logging.Logger
}

// NewListingStore creates the listing store bound to a session's scope
func NewListingStore(backend ListingBackend, session *models.Session, logger logging.Logger) *ListingStore {
	return &ListingStore{
		backend:      backend,
		session:      session,
		companyNames: make(map[string]string),
		logger:       logger,
	}
}

// Refresh fetches the authoritative collection for the bound scope. A refresh
// racing a mutation loses: if any mutation applied after the fetch started,
// the fetched snapshot is discarded.
func (s *ListingStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	start := s.generation
	s.mu.Unlock()

	listings, degraded, err := s.fetchScoped(ctx)
	if err != nil {
		return err
	}
	s.enrichCompanyNames(ctx, listings)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != start {
		s.logger.Debug("Discarding stale listing refresh", map[string]interface{}{
			"fetched_at_generation": start,
			"current_generation":    s.generation,
		})
		return nil
	}
	s.listings = listings
	s.degraded = degraded
	return nil
}

// fetchScoped fetches and scope-filters per the session's role
func (s *ListingStore) fetchScoped(ctx context.Context) ([]models.JobListing, bool, error) {
	switch s.session.Role {
	case models.RoleCompany:
		listings, err := s.backend.CompanyListings(ctx, s.session.Company.ID)
		if err != nil {
			return nil, false, err
		}
		scoped := listings[:0]
		for _, l := range listings {
			if l.CompanyID == s.session.Company.ID {
				scoped = append(scoped, l)
			}
		}
		return scoped, false, nil

	case models.RoleStudent:
		listings, err := s.backend.Listings(ctx)
		if err != nil {
			return nil, false, err
		}
		course := s.session.Student.Course
		scoped := make([]models.JobListing, 0, len(listings))
		for _, l := range listings {
			if l.Status == models.StatusApproved && l.TargetsCourse(course) {
				scoped = append(scoped, l)
			}
		}
		return scoped, false, nil

	case models.RoleCoordinator:
		listings, err := s.backend.DepartmentListings(ctx, s.session.Coordinator.ID)
		if err == nil {
			return listings, false, nil
		}

		// Degraded mode: the department endpoint is down, so re-derive the
		// scope client-side. Keyword matching is lossy; listings with only
		// unclassifiable courses may be misattributed.
		s.logger.Warn("Department listing endpoint failed, deriving scope client-side", map[string]interface{}{
			"coordinator_id": s.session.Coordinator.ID,
			"error":          err.Error(),
		})
		all, fallbackErr := s.backend.Listings(ctx)
		if fallbackErr != nil {
			return nil, false, err
		}
		dept := departments.Code(s.session.Coordinator.Department)
		scoped := make([]models.JobListing, 0, len(all))
		for _, l := range all {
			if coordinatorSees(dept, &l) {
				scoped = append(scoped, l)
			}
		}
		return scoped, true, nil
	}

	return nil, false, utils.NewPermissionError(fmt.Sprintf("role %q has no listing scope", s.session.Role))
}

// coordinatorSees applies the department partition, falling back to keyword
// classification for courses missing from the static table
func coordinatorSees(dept departments.Code, l *models.JobListing) bool {
	if l.IsOpenToAll() {
		return true
	}
	if departments.Intersects(dept, l.Courses) {
		return true
	}
	for _, course := range l.Courses {
		if _, known := departments.DepartmentOf(course); known {
			continue
		}
		if guessed, ok := departments.GuessDepartment(course); ok && guessed == dept {
			return true
		}
	}
	return false
}

// enrichCompanyNames fills in company names the upstream omitted, caching
// lookups for the store's lifetime. A failed lookup leaves the name blank.
func (s *ListingStore) enrichCompanyNames(ctx context.Context, listings []models.JobListing) {
	for i := range listings {
		l := &listings[i]
		if l.CompanyName != "" || l.CompanyID == "" {
			continue
		}
		s.mu.Lock()
		name, cached := s.companyNames[l.CompanyID]
		s.mu.Unlock()
		if cached {
			l.CompanyName = name
			continue
		}
		company, err := s.backend.Company(ctx, l.CompanyID)
		if err != nil {
			s.logger.Warn("Failed to resolve company name", map[string]interface{}{
				"company_id": l.CompanyID,
				"error":      err.Error(),
			})
			continue
		}
		s.mu.Lock()
		s.companyNames[l.CompanyID] = company.CompanyName
		s.mu.Unlock()
		l.CompanyName = company.CompanyName
	}
}

// Create posts a new listing and appends the server's representation
func (s *ListingStore) Create(ctx context.Context, req *models.CreateListingRequest) (*models.JobListing, error) {
	if s.session.Role != models.RoleCompany {
		return nil, utils.NewPermissionError("only companies create listings")
	}

	created, err := s.backend.CreateListing(ctx, s.session.Company.ID, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.upsertLocked(created)
	return created, nil
}

// Update edits a pending listing owned by the session's company
func (s *ListingStore) Update(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.JobListing, error) {
	if s.session.Role != models.RoleCompany {
		return nil, utils.NewPermissionError("only the owning company edits a listing")
	}
	if err := s.precheck(id, func(l *models.JobListing) error {
		if l.CompanyID != s.session.Company.ID {
			return utils.NewPermissionError("listing belongs to another company")
		}
		if l.Status != models.StatusPending {
			return utils.NewConflictError(fmt.Sprintf("listing is %s; only pending listings can be edited", l.Status))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateListing(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.upsertLocked(updated)
	return updated, nil
}

// Delete removes a listing. A 404 from the upstream reconciles as "already
// gone": the local record is dropped and the delete reports success.
func (s *ListingStore) Delete(ctx context.Context, id string) error {
	if s.session.Role != models.RoleCompany {
		return utils.NewPermissionError("only the owning company deletes a listing")
	}
	if err := s.precheck(id, func(l *models.JobListing) error {
		if l.CompanyID != s.session.Company.ID {
			return utils.NewPermissionError("listing belongs to another company")
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.backend.DeleteListing(ctx, id); err != nil {
		if !utils.IsNotFound(err) {
			return err
		}
		s.logger.Info("Listing already gone upstream, reconciling local state", map[string]interface{}{
			"listing_id": id,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.removeLocked(id)
	return nil
}

// Approve transitions a pending listing to approved
func (s *ListingStore) Approve(ctx context.Context, id string) (*models.JobListing, error) {
	if err := s.reviewPrecheck(id); err != nil {
		return nil, err
	}

	approved, err := s.backend.ApproveListing(ctx, id, s.session.Coordinator.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.upsertLocked(approved)
	return approved, nil
}

// Reject transitions a pending listing to rejected with an optional reason
func (s *ListingStore) Reject(ctx context.Context, id, reason string) (*models.JobListing, error) {
	if err := s.reviewPrecheck(id); err != nil {
		return nil, err
	}

	rejected, err := s.backend.RejectListing(ctx, id, s.session.Coordinator.ID, reason)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.upsertLocked(rejected)
	return rejected, nil
}

// reviewPrecheck fails fast before a review round-trip: the actor must be a
// coordinator whose department covers the listing, and the local copy must
// still be pending. The upstream enforces the same rules authoritatively.
func (s *ListingStore) reviewPrecheck(id string) error {
	if s.session.Role != models.RoleCoordinator {
		return utils.NewPermissionError("only coordinators review listings")
	}
	return s.precheck(id, func(l *models.JobListing) error {
		if !l.Status.CanTransition(models.StatusApproved) {
			return utils.NewConflictError(fmt.Sprintf("listing is already %s", l.Status))
		}
		dept := departments.Code(s.session.Coordinator.Department)
		if !coordinatorSees(dept, l) {
			return utils.NewPermissionError("listing targets no program in your department")
		}
		return nil
	})
}

// precheck runs a validation against the local copy of a record when one
// exists. An id absent from the local collection passes: the server stays
// authoritative for records this store has not seen.
func (s *ListingStore) precheck(id string, check func(*models.JobListing) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listings {
		if s.listings[i].ID == id {
			return check(&s.listings[i])
		}
	}
	return nil
}

// Snapshot returns a copy of the current collection in server order
func (s *ListingStore) Snapshot() []models.JobListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.JobListing, len(s.listings))
	copy(out, s.listings)
	return out
}

// Get returns a copy of one listing
func (s *ListingStore) Get(id string) (*models.JobListing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listings {
		if s.listings[i].ID == id {
			l := s.listings[i]
			return &l, true
		}
	}
	return nil, false
}

// Degraded reports whether the current collection was scoped by the keyword
// fallback rather than the upstream department endpoint
func (s *ListingStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Stats counts the collection by status
func (s *ListingStore) Stats() models.StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.StatsResponse{Total: len(s.listings)}
	for i := range s.listings {
		switch s.listings[i].Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

func (s *ListingStore) upsertLocked(l *models.JobListing) {
	for i := range s.listings {
		if s.listings[i].ID == l.ID {
			s.listings[i] = *l
			return
		}
	}
	s.listings = append(s.listings, *l)
}

func (s *ListingStore) removeLocked(id string) {
	for i := range s.listings {
		if s.listings[i].ID == id {
			s.listings = append(s.listings[:i], s.listings[i+1:]...)
			return
		}
	}
}
