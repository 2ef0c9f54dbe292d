package store

import (
	"context"
	"errors"
	"sync"

	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// fakeBackend implements the store backend interfaces with overridable
// function fields and per-method call counts
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	listingsFn           func(ctx context.Context) ([]models.JobListing, error)
	companyListingsFn    func(ctx context.Context, companyID string) ([]models.JobListing, error)
	departmentListingsFn func(ctx context.Context, coordinatorID string) ([]models.JobListing, error)
	createListingFn      func(ctx context.Context, companyID string, req *models.CreateListingRequest) (*models.JobListing, error)
	updateListingFn      func(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.JobListing, error)
	deleteListingFn      func(ctx context.Context, id string) error
	approveListingFn     func(ctx context.Context, id, coordinatorID string) (*models.JobListing, error)
	rejectListingFn      func(ctx context.Context, id, coordinatorID, reason string) (*models.JobListing, error)
	companyFn            func(ctx context.Context, id string) (*models.CompanyProfile, error)

	studentApplicationsFn  func(ctx context.Context, studentID string) ([]models.Application, error)
	listingApplicationsFn  func(ctx context.Context, listingID string) ([]models.Application, error)
	createApplicationFn    func(ctx context.Context, studentID string, req *models.CreateApplicationRequest) (*models.Application, error)
	setApplicationStatusFn func(ctx context.Context, id string, status models.Status, feedback string) (*models.Application, error)
	withdrawApplicationFn  func(ctx context.Context, id string) error

	notificationsFn            func(ctx context.Context, userID string) (*models.NotificationsResponse, error)
	markNotificationReadFn     func(ctx context.Context, id string) error
	markAllNotificationsReadFn func(ctx context.Context, userID string) error
}

var errFakeUnset = errors.New("fake backend method not configured")

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *fakeBackend) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) Listings(ctx context.Context) ([]models.JobListing, error) {
	f.record("Listings")
	if f.listingsFn == nil {
		return nil, errFakeUnset
	}
	return f.listingsFn(ctx)
}

func (f *fakeBackend) CompanyListings(ctx context.Context, companyID string) ([]models.JobListing, error) {
	f.record("CompanyListings")
	if f.companyListingsFn == nil {
		return nil, errFakeUnset
	}
	return f.companyListingsFn(ctx, companyID)
}

func (f *fakeBackend) DepartmentListings(ctx context.Context, coordinatorID string) ([]models.JobListing, error) {
	f.record("DepartmentListings")
	if f.departmentListingsFn == nil {
		return nil, errFakeUnset
	}
	return f.departmentListingsFn(ctx, coordinatorID)
}

func (f *fakeBackend) CreateListing(ctx context.Context, companyID string, req *models.CreateListingRequest) (*models.JobListing, error) {
	f.record("CreateListing")
	if f.createListingFn == nil {
		return nil, errFakeUnset
	}
	return f.createListingFn(ctx, companyID, req)
}

func (f *fakeBackend) UpdateListing(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.JobListing, error) {
	f.record("UpdateListing")
	if f.updateListingFn == nil {
		return nil, errFakeUnset
	}
	return f.updateListingFn(ctx, id, req)
}

func (f *fakeBackend) DeleteListing(ctx context.Context, id string) error {
	f.record("DeleteListing")
	if f.deleteListingFn == nil {
		return errFakeUnset
	}
	return f.deleteListingFn(ctx, id)
}

func (f *fakeBackend) ApproveListing(ctx context.Context, id, coordinatorID string) (*models.JobListing, error) {
	f.record("ApproveListing")
	if f.approveListingFn == nil {
		return nil, errFakeUnset
	}
	return f.approveListingFn(ctx, id, coordinatorID)
}

func (f *fakeBackend) RejectListing(ctx context.Context, id, coordinatorID, reason string) (*models.JobListing, error) {
	f.record("RejectListing")
	if f.rejectListingFn == nil {
		return nil, errFakeUnset
	}
	return f.rejectListingFn(ctx, id, coordinatorID, reason)
}

func (f *fakeBackend) Company(ctx context.Context, id string) (*models.CompanyProfile, error) {
	f.record("Company")
	if f.companyFn == nil {
		return nil, errFakeUnset
	}
	return f.companyFn(ctx, id)
}

func (f *fakeBackend) StudentApplications(ctx context.Context, studentID string) ([]models.Application, error) {
	f.record("StudentApplications")
	if f.studentApplicationsFn == nil {
		return nil, errFakeUnset
	}
	return f.studentApplicationsFn(ctx, studentID)
}

func (f *fakeBackend) ListingApplications(ctx context.Context, listingID string) ([]models.Application, error) {
	f.record("ListingApplications")
	if f.listingApplicationsFn == nil {
		return nil, errFakeUnset
	}
	return f.listingApplicationsFn(ctx, listingID)
}

func (f *fakeBackend) CreateApplication(ctx context.Context, studentID string, req *models.CreateApplicationRequest) (*models.Application, error) {
	f.record("CreateApplication")
	if f.createApplicationFn == nil {
		return nil, errFakeUnset
	}
	return f.createApplicationFn(ctx, studentID, req)
}

func (f *fakeBackend) SetApplicationStatus(ctx context.Context, id string, status models.Status, feedback string) (*models.Application, error) {
	f.record("SetApplicationStatus")
	if f.setApplicationStatusFn == nil {
		return nil, errFakeUnset
	}
	return f.setApplicationStatusFn(ctx, id, status, feedback)
}

func (f *fakeBackend) WithdrawApplication(ctx context.Context, id string) error {
	f.record("WithdrawApplication")
	if f.withdrawApplicationFn == nil {
		return errFakeUnset
	}
	return f.withdrawApplicationFn(ctx, id)
}

func (f *fakeBackend) Notifications(ctx context.Context, userID string) (*models.NotificationsResponse, error) {
	f.record("Notifications")
	if f.notificationsFn == nil {
		return nil, errFakeUnset
	}
	return f.notificationsFn(ctx, userID)
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, id string) error {
	f.record("MarkNotificationRead")
	if f.markNotificationReadFn == nil {
		return errFakeUnset
	}
	return f.markNotificationReadFn(ctx, id)
}

func (f *fakeBackend) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	f.record("MarkAllNotificationsRead")
	if f.markAllNotificationsReadFn == nil {
		return errFakeUnset
	}
	return f.markAllNotificationsReadFn(ctx, userID)
}

func studentSession(course string) *models.Session {
	return &models.Session{
		Token: "tok-student",
		Role:  models.RoleStudent,
		Student: &models.StudentProfile{
			ID:     "s-1",
			Name:   "Jane Doe",
			Course: course,
		},
	}
}

func companySession() *models.Session {
	return &models.Session{
		Token: "tok-company",
		Role:  models.RoleCompany,
		Company: &models.CompanyProfile{
			ID:          "co-1",
			CompanyName: "Acme Corp",
		},
	}
}

func coordinatorSession(department string) *models.Session {
	return &models.Session{
		Token: "tok-coordinator",
		Role:  models.RoleCoordinator,
		Coordinator: &models.CoordinatorProfile{
			ID:         "c-9",
			Name:       "Sam Reyes",
			Department: department,
		},
	}
}
