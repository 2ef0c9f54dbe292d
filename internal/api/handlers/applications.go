package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/filter"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// ListApplicationsHandler returns the filtered application collection. A
// student sees their own applications; a company passes ?listing_id= to
// browse one listing's applicants.
func ListApplicationsHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, ok := filter.ParseStatusFilter(c.QueryParam("status"))
		if !ok {
			return respondBadRequest(c, "invalid_filter", "status must be all, pending, approved, or rejected")
		}

		sess := middleware.CurrentSession(c)
		bundle := registry.Bundle(sess)

		var err error
		if listingID := c.QueryParam("listing_id"); listingID != "" {
			err = bundle.Applications.RefreshListing(c.Request().Context(), listingID)
		} else {
			if sess.Role == models.RoleCompany {
				return respondBadRequest(c, "missing_listing", "Companies browse applications per listing; pass listing_id")
			}
			err = bundle.Applications.Refresh(c.Request().Context())
		}
		if err != nil {
			return respondError(c, err)
		}

		apps := filter.Applications(bundle.Applications.Snapshot(), filter.Query{
			Status: status,
			Search: searchParam(c),
		})
		return c.JSON(http.StatusOK, models.ApplicationsResponse{
			Applications: apps,
			Count:        len(apps),
		})
	}
}

// CreateApplicationHandler submits the session student's application
func CreateApplicationHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateApplicationRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return respondBadRequest(c, "validation_failed", err.Error())
		}

		bundle := registry.Bundle(middleware.CurrentSession(c))
		created, err := bundle.Applications.Create(c.Request().Context(), &req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}
}

// ApplicationStatusHandler decides a pending application
func ApplicationStatusHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ApplicationStatusRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return respondBadRequest(c, "validation_failed", err.Error())
		}

		bundle := registry.Bundle(middleware.CurrentSession(c))
		updated, err := bundle.Applications.SetStatus(c.Request().Context(), c.Param("id"), req.Status, req.Feedback)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

// WithdrawApplicationHandler withdraws the session student's pending
// application. A conflict with an upstream decision is surfaced after the
// local collection has been reconciled with the authoritative state.
func WithdrawApplicationHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Applications.Withdraw(c.Request().Context(), c.Param("id")); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
