package models

import "time"

// Application represents a student's submission against an approved listing.
// An application is born pending and is approved or rejected exactly once by
// the company that owns the listing. The student may withdraw it only while
// it is still pending.
type Application struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	StudentID   string    `json:"student_id"`
	AppliedDate time.Time `json:"applied_date"`
	Status      Status    `json:"status"`
	CoverLetter string    `json:"cover_letter"`
	ResumeURL   string    `json:"resume_url"`
	Feedback    string    `json:"feedback,omitempty"`

	// Denormalized listing fields the backend includes for display
	JobTitle    string  `json:"job_title,omitempty"`
	CompanyName string  `json:"company,omitempty"`
	Location    string  `json:"location,omitempty"`
	Salary      float64 `json:"salary,omitempty"`
}
