package models

import "time"

// Session represents an authenticated dashboard session. Exactly one of the
// profile fields is set, matching the role.
type Session struct {
	Token       string              `json:"token"`
	Role        Role                `json:"role"`
	Student     *StudentProfile     `json:"student,omitempty"`
	Company     *CompanyProfile     `json:"company,omitempty"`
	Coordinator *CoordinatorProfile `json:"coordinator,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// UserID returns the profile identifier for the session's role
func (s *Session) UserID() string {
	switch s.Role {
	case RoleStudent:
		if s.Student != nil {
			return s.Student.ID
		}
	case RoleCompany:
		if s.Company != nil {
			return s.Company.ID
		}
	case RoleCoordinator:
		if s.Coordinator != nil {
			return s.Coordinator.ID
		}
	}
	return ""
}
