package models

// Role identifies the dashboard a session belongs to
type Role string

const (
	RoleStudent     Role = "student"
	RoleCompany     Role = "company"
	RoleCoordinator Role = "coordinator"
)

// Upstream role codes as used by the auth endpoints
const (
	RoleCodeCoordinator = "25-101"
	RoleCodeCompany     = "25-102"
	RoleCodeStudent     = "25-103"
)

// RoleFromCode maps an upstream role code to a Role
func RoleFromCode(code string) (Role, bool) {
	switch code {
	case RoleCodeCoordinator:
		return RoleCoordinator, true
	case RoleCodeCompany:
		return RoleCompany, true
	case RoleCodeStudent:
		return RoleStudent, true
	}
	return "", false
}

// Code returns the upstream wire code for the role
func (r Role) Code() string {
	switch r {
	case RoleCoordinator:
		return RoleCodeCoordinator
	case RoleCompany:
		return RoleCodeCompany
	case RoleStudent:
		return RoleCodeStudent
	}
	return ""
}

// IsValid checks if the role is one of the three dashboard roles
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleCompany || r == RoleCoordinator
}

// StudentProfile represents a student account. Read-mostly; edited only by
// the student themselves.
type StudentProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Course    string `json:"course"`
	YearLevel string `json:"year_level"`
	ResumeURL string `json:"resume_url,omitempty"`
}

// CompanyProfile represents a company account
type CompanyProfile struct {
	ID            string `json:"id"`
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	ContactPhone  string `json:"contact_phone,omitempty"`
}

// CoordinatorProfile represents an academic-department reviewer. The
// department determines which listings the coordinator may approve or reject.
type CoordinatorProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}
