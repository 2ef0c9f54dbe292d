package models

import "time"

// LoginResponse represents the response to a successful login
type LoginResponse struct {
	Token       string              `json:"token"`
	Role        Role                `json:"role"`
	Student     *StudentProfile     `json:"student,omitempty"`
	Company     *CompanyProfile     `json:"company,omitempty"`
	Coordinator *CoordinatorProfile `json:"coordinator,omitempty"`
}

// ListingsResponse represents a filtered collection of listings
type ListingsResponse struct {
	Listings []JobListing `json:"listings"`
	Count    int          `json:"count"`
}

// ApplicationsResponse represents a filtered collection of applications
type ApplicationsResponse struct {
	Applications []Application `json:"applications"`
	Count        int           `json:"count"`
}

// NotificationsResponse represents the notification feed with its unread count
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// StatsResponse represents the dashboard counters shown above each collection
type StatsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// UploadResponse represents the result of a resume upload
type UploadResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	SizeBytes int64     `json:"size_bytes"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
