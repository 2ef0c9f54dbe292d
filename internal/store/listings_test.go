package store

import (
	"context"
	"testing"

	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

func testLogger() logging.Logger {
	return logging.NewMultiLogger()
}

func TestStudentRefreshScope(t *testing.T) {
	fake := newFakeBackend()
	fake.listingsFn = func(context.Context) ([]models.JobListing, error) {
		return []models.JobListing{
			{ID: "l-1", Title: "Backend Intern", Status: models.StatusApproved, Courses: []string{"BS Information Technology", "BS Computer Science"}},
			{ID: "l-2", Title: "Site Engineer", Status: models.StatusApproved, Courses: []string{"BS Civil Engineering"}},
			{ID: "l-3", Title: "Open Internship", Status: models.StatusApproved},
			{ID: "l-4", Title: "Unreviewed", Status: models.StatusPending, Courses: []string{"BS Computer Science"}},
		}, nil
	}

	store := NewListingStore(fake, studentSession("BS Computer Science"), testLogger())
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := store.Snapshot()
	if len(got) != 2 || got[0].ID != "l-1" || got[1].ID != "l-3" {
		t.Fatalf("student scope: got %+v", got)
	}
}

func TestCompanyRefreshScope(t *testing.T) {
	fake := newFakeBackend()
	fake.companyListingsFn = func(_ context.Context, companyID string) ([]models.JobListing, error) {
		if companyID != "co-1" {
			t.Errorf("companyID = %q", companyID)
		}
		return []models.JobListing{
			{ID: "l-1", CompanyID: "co-1", Status: models.StatusPending},
			{ID: "l-9", CompanyID: "co-other", Status: models.StatusApproved},
		}, nil
	}

	store := NewListingStore(fake, companySession(), testLogger())
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := store.Snapshot()
	if len(got) != 1 || got[0].ID != "l-1" {
		t.Fatalf("company scope must drop foreign records: %+v", got)
	}
}

func TestCoordinatorRefreshFallsBackToKeywordScope(t *testing.T) {
	fake := newFakeBackend()
	fake.departmentListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return nil, utils.NewUpstreamError("department endpoint down")
	}
	fake.listingsFn = func(context.Context) ([]models.JobListing, error) {
		return []models.JobListing{
			{ID: "l-1", Status: models.StatusPending, Courses: []string{"BS Information Technology"}},
			{ID: "l-2", Status: models.StatusPending, Courses: []string{"BS Civil Engineering"}},
			{ID: "l-3", Status: models.StatusPending, Courses: []string{"BS Software Design"}}, // unknown, keyword-unmatched for CCS
			{ID: "l-4", Status: models.StatusPending},                                          // open to all
		}, nil
	}

	store := NewListingStore(fake, coordinatorSession("CCS"), testLogger())
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !store.Degraded() {
		t.Error("store must report degraded scope after fallback")
	}

	got := store.Snapshot()
	if len(got) != 2 || got[0].ID != "l-1" || got[1].ID != "l-4" {
		t.Fatalf("fallback scope: got %+v", got)
	}
}

func TestCoordinatorRefreshPrefersDepartmentEndpoint(t *testing.T) {
	fake := newFakeBackend()
	fake.departmentListingsFn = func(_ context.Context, coordinatorID string) ([]models.JobListing, error) {
		if coordinatorID != "c-9" {
			t.Errorf("coordinatorID = %q", coordinatorID)
		}
		return []models.JobListing{{ID: "l-1", Status: models.StatusPending}}, nil
	}

	store := NewListingStore(fake, coordinatorSession("CCS"), testLogger())
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.Degraded() {
		t.Error("degraded must stay false when the department endpoint works")
	}
	if fake.callCount("Listings") != 0 {
		t.Error("full fetch must not run when the department endpoint works")
	}
}

func TestCreateThenRefreshYieldsRecordOnce(t *testing.T) {
	created := models.JobListing{ID: "l-new", CompanyID: "co-1", Title: "QA Intern", Status: models.StatusPending}
	fake := newFakeBackend()
	fake.createListingFn = func(context.Context, string, *models.CreateListingRequest) (*models.JobListing, error) {
		l := created
		return &l, nil
	}
	fake.companyListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return []models.JobListing{created}, nil
	}

	store := NewListingStore(fake, companySession(), testLogger())
	if _, err := store.Create(context.Background(), &models.CreateListingRequest{Title: "QA Intern"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := store.Snapshot()
	if len(got) != 1 || got[0].ID != "l-new" {
		t.Fatalf("record must appear exactly once, got %+v", got)
	}
}

func TestDeleteNotFoundReconcilesAsGone(t *testing.T) {
	fake := newFakeBackend()
	fake.companyListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return []models.JobListing{{ID: "l-1", CompanyID: "co-1", Status: models.StatusPending}}, nil
	}
	fake.deleteListingFn = func(context.Context, string) error {
		return utils.NewNotFoundError("no such listing")
	}

	store := NewListingStore(fake, companySession(), testLogger())
	store.Refresh(context.Background())

	if err := store.Delete(context.Background(), "l-1"); err != nil {
		t.Fatalf("404 on delete must reconcile as success, got %v", err)
	}
	if _, ok := store.Get("l-1"); ok {
		t.Error("record must be removed locally")
	}
}

func TestApproveFailsFastOnDecidedListing(t *testing.T) {
	fake := newFakeBackend()
	fake.departmentListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return []models.JobListing{{ID: "l-1", Status: models.StatusRejected, Courses: []string{"BS Computer Science"}}}, nil
	}

	store := NewListingStore(fake, coordinatorSession("CCS"), testLogger())
	store.Refresh(context.Background())

	_, err := store.Approve(context.Background(), "l-1")
	if !utils.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if fake.callCount("ApproveListing") != 0 {
		t.Error("decided listing must fail fast without a round-trip")
	}
}

func TestApproveOutOfDepartmentFailsWithPermission(t *testing.T) {
	fake := newFakeBackend()
	fake.departmentListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		// upstream over-delivered a foreign listing
		return []models.JobListing{{ID: "l-2", Status: models.StatusPending, Courses: []string{"BS Civil Engineering"}}}, nil
	}

	store := NewListingStore(fake, coordinatorSession("CCS"), testLogger())
	store.Refresh(context.Background())

	_, err := store.Approve(context.Background(), "l-2")
	if !utils.IsPermission(err) {
		t.Fatalf("err = %v, want permission denied", err)
	}
	if fake.callCount("ApproveListing") != 0 {
		t.Error("out-of-scope review must not reach the upstream")
	}
}

func TestRejectReplacesWithServerRepresentation(t *testing.T) {
	fake := newFakeBackend()
	fake.departmentListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return []models.JobListing{{ID: "l-1", Status: models.StatusPending, Courses: []string{"BS Computer Science"}}}, nil
	}
	fake.rejectListingFn = func(_ context.Context, id, coordinatorID, reason string) (*models.JobListing, error) {
		if coordinatorID != "c-9" || reason != "deadline passed" {
			t.Errorf("reject args: %q %q", coordinatorID, reason)
		}
		return &models.JobListing{ID: id, Status: models.StatusRejected, RejectionReason: reason, Courses: []string{"BS Computer Science"}}, nil
	}

	store := NewListingStore(fake, coordinatorSession("CCS"), testLogger())
	store.Refresh(context.Background())

	rejected, err := store.Reject(context.Background(), "l-1", "deadline passed")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.RejectionReason != "deadline passed" {
		t.Errorf("reason lost: %+v", rejected)
	}

	local, _ := store.Get("l-1")
	if local.Status != models.StatusRejected {
		t.Errorf("local copy not reconciled: %+v", local)
	}
}

func TestUpdateRejectedOnNonPendingListing(t *testing.T) {
	fake := newFakeBackend()
	fake.companyListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return []models.JobListing{{ID: "l-1", CompanyID: "co-1", Status: models.StatusApproved}}, nil
	}

	store := NewListingStore(fake, companySession(), testLogger())
	store.Refresh(context.Background())

	title := "New title"
	_, err := store.Update(context.Background(), "l-1", &models.UpdateListingRequest{Title: &title})
	if !utils.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if fake.callCount("UpdateListing") != 0 {
		t.Error("non-pending edit must fail fast")
	}
}

func TestStaleRefreshDoesNotClobberMutation(t *testing.T) {
	fake := newFakeBackend()
	store := NewListingStore(fake, companySession(), testLogger())

	created := models.JobListing{ID: "l-new", CompanyID: "co-1", Status: models.StatusPending}
	fake.createListingFn = func(context.Context, string, *models.CreateListingRequest) (*models.JobListing, error) {
		l := created
		return &l, nil
	}
	// the fetch resolves after a create applied, returning a snapshot that
	// predates the new record
	fake.companyListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		if _, err := store.Create(context.Background(), &models.CreateListingRequest{Title: "x"}); err != nil {
			t.Fatalf("Create during refresh: %v", err)
		}
		return []models.JobListing{}, nil
	}

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, ok := store.Get("l-new"); !ok {
		t.Error("stale refresh clobbered a newer mutation")
	}
}

func TestRefreshEnrichesCompanyNamesWithCache(t *testing.T) {
	fake := newFakeBackend()
	fake.listingsFn = func(context.Context) ([]models.JobListing, error) {
		return []models.JobListing{
			{ID: "l-1", CompanyID: "co-7", Status: models.StatusApproved},
			{ID: "l-2", CompanyID: "co-7", Status: models.StatusApproved},
		}, nil
	}
	fake.companyFn = func(_ context.Context, id string) (*models.CompanyProfile, error) {
		return &models.CompanyProfile{ID: id, CompanyName: "Globex"}, nil
	}

	store := NewListingStore(fake, studentSession("BS Computer Science"), testLogger())
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got := store.Snapshot()
	if got[0].CompanyName != "Globex" || got[1].CompanyName != "Globex" {
		t.Fatalf("names not enriched: %+v", got)
	}
	if fake.callCount("Company") != 1 {
		t.Errorf("Company called %d times, want 1 (cached)", fake.callCount("Company"))
	}
}

func TestStats(t *testing.T) {
	fake := newFakeBackend()
	fake.companyListingsFn = func(context.Context, string) ([]models.JobListing, error) {
		return []models.JobListing{
			{ID: "l-1", CompanyID: "co-1", Status: models.StatusPending},
			{ID: "l-2", CompanyID: "co-1", Status: models.StatusApproved},
			{ID: "l-3", CompanyID: "co-1", Status: models.StatusApproved},
			{ID: "l-4", CompanyID: "co-1", Status: models.StatusRejected},
		}, nil
	}

	store := NewListingStore(fake, companySession(), testLogger())
	store.Refresh(context.Background())

	stats := store.Stats()
	if stats.Total != 4 || stats.Pending != 1 || stats.Approved != 2 || stats.Rejected != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
