package models

import "time"

// LoginRequest represents the credentials payload for session establishment
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the union of per-role registration fields. The
// shared fields validate here; role-specific requirements are enforced in the
// handler once the target role is known.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`

	// Student fields
	Name      string `json:"name,omitempty"`
	Course    string `json:"course,omitempty"`
	YearLevel string `json:"year_level,omitempty"`

	// Company fields
	CompanyName   string `json:"company_name,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`

	// Coordinator fields
	Department string `json:"department,omitempty"`
}

// CreateListingRequest represents the payload for posting a new job listing.
// New listings always enter review as pending.
type CreateListingRequest struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	Requirements string    `json:"requirements,omitempty"`
	Location     string    `json:"location" validate:"required"`
	Modality     Modality  `json:"modality" validate:"required,oneof=on-site remote hybrid"`
	Duration     Duration  `json:"duration" validate:"required,oneof=full-time part-time contract internship"`
	Salary       float64   `json:"salary" validate:"gte=0"`
	PostDate     time.Time `json:"post_date" validate:"required"`
	Deadline     time.Time `json:"deadline" validate:"required,gtefield=PostDate"`
	Courses      []string  `json:"courses,omitempty" validate:"dive,required"`
}

// UpdateListingRequest represents a partial edit to a pending listing. Nil
// fields are left untouched.
type UpdateListingRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	Requirements *string    `json:"requirements,omitempty"`
	Location     *string    `json:"location,omitempty" validate:"omitempty,min=1"`
	Modality     *Modality  `json:"modality,omitempty" validate:"omitempty,oneof=on-site remote hybrid"`
	Duration     *Duration  `json:"duration,omitempty" validate:"omitempty,oneof=full-time part-time contract internship"`
	Salary       *float64   `json:"salary,omitempty" validate:"omitempty,gte=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Courses      []string   `json:"courses,omitempty" validate:"dive,required"`
}

// RejectListingRequest represents a coordinator's rejection. The reason is
// free text and may be empty.
type RejectListingRequest struct {
	Reason string `json:"reason"`
}

// CreateApplicationRequest represents a student's submission against a listing
type CreateApplicationRequest struct {
	ListingID   string `json:"listing_id" validate:"required"`
	CoverLetter string `json:"cover_letter" validate:"required"`
	ResumeURL   string `json:"resume_url" validate:"required"`
}

// ApplicationStatusRequest represents a company's decision on an application
type ApplicationStatusRequest struct {
	Status   Status `json:"status" validate:"required,oneof=approved rejected"`
	Feedback string `json:"feedback"`
}
