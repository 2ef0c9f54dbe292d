package models

import "time"

// Modality represents where the work happens
type Modality string

const (
	ModalityOnSite Modality = "on-site"
	ModalityRemote Modality = "remote"
	ModalityHybrid Modality = "hybrid"
)

// Duration represents the employment arrangement of a listing
type Duration string

const (
	DurationFullTime   Duration = "full-time"
	DurationPartTime   Duration = "part-time"
	DurationContract   Duration = "contract"
	DurationInternship Duration = "internship"
)

// JobListing represents a job or internship posting created by a company.
// A listing is born pending and is approved or rejected exactly once by a
// coordinator whose department covers the listing's target courses.
type JobListing struct {
	ID           string   `json:"id"`
	CompanyID    string   `json:"company_id"`
	CompanyName  string   `json:"company,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements,omitempty"`
	Location     string   `json:"location"`
	Modality     Modality `json:"modality"`
	Duration     Duration `json:"duration"`
	// Salary is the offered monthly salary in PHP
	Salary   float64   `json:"salary"`
	PostDate time.Time `json:"post_date"`
	Deadline time.Time `json:"deadline"`
	Status   Status    `json:"status"`
	// Courses lists the target programs. An empty list means the listing is
	// open to all programs.
	Courses         []string `json:"courses"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
}

// IsOpenToAll checks if the listing targets every program
func (l *JobListing) IsOpenToAll() bool {
	return len(l.Courses) == 0
}

// TargetsCourse checks if the listing is visible to students of the given program
func (l *JobListing) TargetsCourse(course string) bool {
	if l.IsOpenToAll() {
		return true
	}
	for _, c := range l.Courses {
		if c == course {
			return true
		}
	}
	return false
}
