package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bmgvallo/hirearchy-gateway/internal/config"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// maxResponseBytes caps how much of an upstream response body is read
const maxResponseBytes = 4 << 20

// Client is the typed HTTP client for the upstream job-board API. All calls
// honor the caller's context, pass a shared outbound rate limiter, and map
// non-2xx responses to CustomError by status. Idempotent GETs retry on
// transport failure with exponential backoff; mutations are never retried and
// instead carry an Idempotency-Key header.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxRetries   int
	retryBackoff time.Duration
	logger       logging.Logger
}

// NewClient creates a client for the upstream API from config
func NewClient(cfg *config.Config, logger logging.Logger) *Client {
	timeout := cfg.Backend.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	rpm := cfg.Backend.RateLimit
	if rpm <= 0 {
		rpm = 120
	}
	// Rate limit: requests per minute converted to requests per second
	rps := rate.Limit(float64(rpm) / 60.0)
	burst := 5

	backoff := cfg.Backend.RetryBackoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rps, burst),
		maxRetries:   cfg.Backend.MaxRetries,
		retryBackoff: backoff,
		logger:       logger,
	}
}

// LoginResult carries the authenticated identity resolved from the upstream
// auth response. Exactly one of the profile fields is non-nil, matching Role.
type LoginResult struct {
	Role        models.Role
	Student     *models.StudentProfile
	Company     *models.CompanyProfile
	Coordinator *models.CoordinatorProfile
}

// UserID returns the identifier of whichever profile is populated
func (r *LoginResult) UserID() string {
	switch r.Role {
	case models.RoleStudent:
		if r.Student != nil {
			return r.Student.ID
		}
	case models.RoleCompany:
		if r.Company != nil {
			return r.Company.ID
		}
	case models.RoleCoordinator:
		if r.Coordinator != nil {
			return r.Coordinator.ID
		}
	}
	return ""
}

// authUserPayload mirrors the upstream auth user record, which uses its own
// field names. Some deployments flatten it into the login response, others
// nest it under "user"; both shapes are accepted.
type authUserPayload struct {
	ID                    string `json:"id"`
	Username              string `json:"username"`
	Email                 string `json:"email"`
	StudName              string `json:"studName"`
	StudYrLevel           string `json:"studYrLevel"`
	Course                string `json:"course"`
	StudProgram           string `json:"studProgram"`
	CompanyName           string `json:"companyName"`
	ContactPerson         string `json:"contactPerson"`
	ContactPhone          string `json:"contactPhone"`
	CoordinatorName       string `json:"coordinatorName"`
	CoordinatorDepartment string `json:"coordinatorDepartment"`
}

type loginPayload struct {
	authUserPayload

	Role string           `json:"role"`
	User *authUserPayload `json:"user"`
}

// resolve merges the flat and nested shapes, flat fields winning
func (p *loginPayload) resolve() authUserPayload {
	merged := p.authUserPayload
	if p.User == nil {
		return merged
	}
	pick := func(flat, nested string) string {
		if flat != "" {
			return flat
		}
		return nested
	}
	merged.ID = pick(merged.ID, p.User.ID)
	merged.Username = pick(merged.Username, p.User.Username)
	merged.Email = pick(merged.Email, p.User.Email)
	merged.StudName = pick(merged.StudName, p.User.StudName)
	merged.StudYrLevel = pick(merged.StudYrLevel, p.User.StudYrLevel)
	merged.Course = pick(merged.Course, pick(p.User.Course, p.User.StudProgram))
	merged.CompanyName = pick(merged.CompanyName, p.User.CompanyName)
	merged.ContactPerson = pick(merged.ContactPerson, p.User.ContactPerson)
	merged.ContactPhone = pick(merged.ContactPhone, p.User.ContactPhone)
	merged.CoordinatorName = pick(merged.CoordinatorName, p.User.CoordinatorName)
	merged.CoordinatorDepartment = pick(merged.CoordinatorDepartment, p.User.CoordinatorDepartment)
	return merged
}

// Login authenticates against the upstream and resolves the caller's profile
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var payload loginPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &payload); err != nil {
		return nil, err
	}

	roleCode := payload.Role
	if roleCode == "" {
		roleCode = models.RoleCodeStudent
	}
	role, ok := models.RoleFromCode(roleCode)
	if !ok {
		return nil, utils.NewUpstreamError(fmt.Sprintf("unknown role code %q in login response", roleCode))
	}

	user := payload.resolve()
	result := &LoginResult{Role: role}
	switch role {
	case models.RoleStudent:
		course := user.Course
		if course == "" {
			course = user.StudProgram
		}
		result.Student = &models.StudentProfile{
			ID:        user.ID,
			Name:      user.StudName,
			Email:     user.Email,
			Course:    course,
			YearLevel: user.StudYrLevel,
		}
	case models.RoleCompany:
		result.Company = &models.CompanyProfile{
			ID:            user.ID,
			CompanyName:   user.CompanyName,
			ContactPerson: user.ContactPerson,
			Email:         user.Email,
			ContactPhone:  user.ContactPhone,
		}
	case models.RoleCoordinator:
		result.Coordinator = &models.CoordinatorProfile{
			ID:         user.ID,
			Name:       user.CoordinatorName,
			Email:      user.Email,
			Department: user.CoordinatorDepartment,
		}
	}

	return result, nil
}

// Register creates an account for the given role. The upstream signs the
// password as a query parameter on this endpoint, not as a body field.
func (c *Client) Register(ctx context.Context, role models.Role, req *models.RegisterRequest) error {
	var path string
	body := map[string]string{
		"username": req.Username,
		"email":    req.Email,
	}

	switch role {
	case models.RoleStudent:
		path = "/api/auth/register/student"
		body["studName"] = req.Name
		body["studYrLevel"] = req.YearLevel
		body["course"] = req.Course
	case models.RoleCompany:
		path = "/api/auth/register/company"
		body["companyName"] = req.CompanyName
		body["contactPerson"] = req.ContactPerson
		body["contactPhone"] = req.ContactPhone
	case models.RoleCoordinator:
		path = "/api/auth/register/coordinator"
		body["coordinatorName"] = req.Name
		body["coordinatorDepartment"] = req.Department
	default:
		return utils.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	query := url.Values{"password": {req.Password}}
	return c.do(ctx, http.MethodPost, path, query, body, nil)
}

// Listings fetches the full listing collection
func (c *Client) Listings(ctx context.Context) ([]models.JobListing, error) {
	var listings []models.JobListing
	if err := c.do(ctx, http.MethodGet, "/api/listings", nil, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// CompanyListings fetches the listings owned by a company
func (c *Client) CompanyListings(ctx context.Context, companyID string) ([]models.JobListing, error) {
	var listings []models.JobListing
	path := "/api/listings/company/" + url.PathEscape(companyID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// DepartmentListings fetches the listings scoped to a coordinator's department
func (c *Client) DepartmentListings(ctx context.Context, coordinatorID string) ([]models.JobListing, error) {
	var listings []models.JobListing
	query := url.Values{"coordinatorId": {coordinatorID}}
	if err := c.do(ctx, http.MethodGet, "/api/coordinator/department/jobs", query, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

type createListingPayload struct {
	models.CreateListingRequest

	CompanyID string `json:"company_id"`
}

// CreateListing posts a new listing on behalf of the owning company
func (c *Client) CreateListing(ctx context.Context, companyID string, req *models.CreateListingRequest) (*models.JobListing, error) {
	body := createListingPayload{CreateListingRequest: *req, CompanyID: companyID}
	var listing models.JobListing
	if err := c.do(ctx, http.MethodPost, "/api/listings", nil, body, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListing applies a partial edit to a listing
func (c *Client) UpdateListing(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.JobListing, error) {
	var listing models.JobListing
	path := "/api/listings/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// DeleteListing removes a listing
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	path := "/api/listings/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

type reviewPayload struct {
	Reason string `json:"reason,omitempty"`
	// ExpectedStatus is a precondition: the upstream rejects the transition
	// with 409 when the record is no longer in this status, so a double
	// submission fails instead of double-applying.
	ExpectedStatus models.Status `json:"expected_status"`
}

// ApproveListing transitions a pending listing to approved
func (c *Client) ApproveListing(ctx context.Context, id, coordinatorID string) (*models.JobListing, error) {
	path := "/api/coordinator/jobs/" + url.PathEscape(id) + "/approve"
	query := url.Values{"coordinatorId": {coordinatorID}}
	body := reviewPayload{ExpectedStatus: models.StatusPending}

	var listing models.JobListing
	if err := c.do(ctx, http.MethodPost, path, query, body, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// RejectListing transitions a pending listing to rejected with an optional reason
func (c *Client) RejectListing(ctx context.Context, id, coordinatorID, reason string) (*models.JobListing, error) {
	path := "/api/coordinator/jobs/" + url.PathEscape(id) + "/reject"
	query := url.Values{"coordinatorId": {coordinatorID}}
	body := reviewPayload{Reason: reason, ExpectedStatus: models.StatusPending}

	var listing models.JobListing
	if err := c.do(ctx, http.MethodPost, path, query, body, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// StudentApplications fetches a student's applications
func (c *Client) StudentApplications(ctx context.Context, studentID string) ([]models.Application, error) {
	var apps []models.Application
	path := "/api/applications/student/" + url.PathEscape(studentID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ListingApplications fetches the applications submitted against a listing
func (c *Client) ListingApplications(ctx context.Context, listingID string) ([]models.Application, error) {
	var apps []models.Application
	path := "/api/applications/listing/" + url.PathEscape(listingID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

type createApplicationPayload struct {
	models.CreateApplicationRequest

	StudentID string `json:"student_id"`
}

// CreateApplication submits a student's application. The upstream rejects the
// submission with a validation error when the target listing is not approved.
func (c *Client) CreateApplication(ctx context.Context, studentID string, req *models.CreateApplicationRequest) (*models.Application, error) {
	body := createApplicationPayload{CreateApplicationRequest: *req, StudentID: studentID}
	var app models.Application
	if err := c.do(ctx, http.MethodPost, "/api/applications", nil, body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

type applicationStatusPayload struct {
	Status         models.Status `json:"status"`
	Feedback       string        `json:"feedback,omitempty"`
	ExpectedStatus models.Status `json:"expected_status"`
}

// SetApplicationStatus transitions a pending application to approved or rejected
func (c *Client) SetApplicationStatus(ctx context.Context, id string, status models.Status, feedback string) (*models.Application, error) {
	body := applicationStatusPayload{
		Status:         status,
		Feedback:       feedback,
		ExpectedStatus: models.StatusPending,
	}

	var app models.Application
	path := "/api/applications/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// WithdrawApplication deletes a pending application. The upstream answers 409
// when the application has already been decided.
func (c *Client) WithdrawApplication(ctx context.Context, id string) error {
	path := "/api/applications/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Company fetches a company's profile, used to enrich listings that arrive
// without nested company data
func (c *Client) Company(ctx context.Context, id string) (*models.CompanyProfile, error) {
	var company models.CompanyProfile
	path := "/api/companies/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// Notifications fetches a user's notifications with the unread count
func (c *Client) Notifications(ctx context.Context, userID string) (*models.NotificationsResponse, error) {
	var query url.Values
	if userID != "" {
		query = url.Values{"userId": {userID}}
	}

	var resp models.NotificationsResponse
	if err := c.do(ctx, http.MethodGet, "/api/notifications", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkNotificationRead marks a single notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := "/api/notifications/" + url.PathEscape(id) + "/read"
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// MarkAllNotificationsRead marks every notification of a user as read
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	var query url.Values
	if userID != "" {
		query = url.Values{"userId": {userID}}
	}
	return c.do(ctx, http.MethodPost, "/api/notifications/mark-all-read", query, nil, nil)
}

// errorPayload is the upstream error body shape, best-effort
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do executes one logical request against the upstream. Only GETs are
// retried, and only on transport failure; an HTTP error status is returned
// immediately regardless of method.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return utils.NewInternalServerError(fmt.Sprintf("failed to encode request body: %v", err))
		}
	}

	idempotencyKey := ""
	retries := 0
	if method == http.MethodGet {
		retries = c.maxRetries
	} else {
		idempotencyKey = utils.GenerateIdempotencyKey()
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			backoff := c.retryBackoff << (attempt - 1)
			c.logger.Warn("Retrying upstream request", map[string]interface{}{
				"method":  method,
				"path":    path,
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return utils.NewTimeoutError(fmt.Sprintf("%s %s: %v", method, path, ctx.Err()))
			case <-timer.C:
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return utils.NewTimeoutError(fmt.Sprintf("%s %s: %v", method, path, err))
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return utils.NewInternalServerError(fmt.Sprintf("failed to build request: %v", err))
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return utils.NewTimeoutError(fmt.Sprintf("%s %s: %v", method, path, ctx.Err()))
			}
			lastErr = err
			continue
		}

		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out != nil && len(data) > 0 {
				if err := json.Unmarshal(data, out); err != nil {
					return utils.NewUpstreamError(fmt.Sprintf("%s %s: malformed response: %v", method, path, err))
				}
			}
			c.logger.Debug("Upstream request completed", map[string]interface{}{
				"method": method,
				"path":   path,
				"status": resp.StatusCode,
			})
			return nil
		}

		return c.statusError(method, path, resp.StatusCode, data)
	}

	c.logger.Error("Upstream request failed after retries", map[string]interface{}{
		"method":   method,
		"path":     path,
		"attempts": retries + 1,
		"error":    lastErr.Error(),
	})
	return utils.NewUpstreamError(fmt.Sprintf("%s %s: %v", method, path, lastErr))
}

// statusError maps an upstream HTTP error status to the gateway error taxonomy
func (c *Client) statusError(method, path string, status int, body []byte) error {
	detail := upstreamDetail(body)
	if detail == "" {
		detail = fmt.Sprintf("%s %s failed with status %d", method, path, status)
	}

	c.logger.Warn("Upstream returned error status", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": status,
		"detail": detail,
	})

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return utils.NewValidationError(detail)
	case status == http.StatusUnauthorized:
		return utils.NewUnauthorizedError(detail)
	case status == http.StatusForbidden:
		return utils.NewPermissionError(detail)
	case status == http.StatusNotFound:
		return utils.NewNotFoundError(detail)
	case status == http.StatusConflict:
		return utils.NewConflictError(detail)
	case status == http.StatusRequestTimeout:
		return utils.NewTimeoutError(detail)
	case status >= 500:
		return utils.NewUpstreamError(detail)
	default:
		return utils.NewBadRequestError(detail)
	}
}

// upstreamDetail extracts a human-readable message from an error body
func upstreamDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
