// Package filter implements the in-memory predicates behind the dashboard
// list views. Filtering walks the full collection on every call and preserves
// input order; this is acceptable only while collections stay small (dozens
// of records per dashboard). TODO: revisit with server-side pagination if
// collection sizes outgrow that assumption.
package filter

import (
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// StatusFilter selects records by review status. The zero value means "all".
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusPending  StatusFilter = StatusFilter(models.StatusPending)
	StatusApproved StatusFilter = StatusFilter(models.StatusApproved)
	StatusRejected StatusFilter = StatusFilter(models.StatusRejected)
)

// ParseStatusFilter normalizes a query-string value to a StatusFilter
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(s) {
	case "", StatusAll:
		return StatusAll, true
	case StatusPending, StatusApproved, StatusRejected:
		return StatusFilter(s), true
	}
	return "", false
}

func (f StatusFilter) matches(status models.Status) bool {
	return f == "" || f == StatusAll || StatusFilter(status) == f
}

// Query combines the two dashboard filters. Search matches case-insensitively
// as a substring against title, company name, and location; an empty search
// matches everything.
type Query struct {
	Status StatusFilter
	Search string
}

// Listings returns the listings matching the query, in input order
func Listings(listings []models.JobListing, q Query) []models.JobListing {
	out := make([]models.JobListing, 0, len(listings))
	for _, l := range listings {
		if !q.Status.matches(l.Status) {
			continue
		}
		if q.Search != "" && !matchesSearch(q.Search, l.Title, l.CompanyName, l.Location) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Applications returns the applications matching the query, in input order.
// Search runs against the denormalized listing fields carried on each record.
func Applications(apps []models.Application, q Query) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if !q.Status.matches(a.Status) {
			continue
		}
		if q.Search != "" && !matchesSearch(q.Search, a.JobTitle, a.CompanyName, a.Location) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesSearch(search string, fields ...string) bool {
	for _, f := range fields {
		if utils.ContainsFold(f, search) {
			return true
		}
	}
	return false
}
