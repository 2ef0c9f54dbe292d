package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/filter"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// ListListingsHandler refreshes the session's listing scope and returns the
// filtered collection. Query params: status (all|pending|approved|rejected),
// search (case-insensitive substring over title, company, location).
func ListListingsHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, ok := filter.ParseStatusFilter(c.QueryParam("status"))
		if !ok {
			return respondBadRequest(c, "invalid_filter", "status must be all, pending, approved, or rejected")
		}

		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Listings.Refresh(c.Request().Context()); err != nil {
			return respondError(c, err)
		}

		listings := filter.Listings(bundle.Listings.Snapshot(), filter.Query{
			Status: status,
			Search: searchParam(c),
		})

		if bundle.Listings.Degraded() {
			c.Response().Header().Set("X-Scope-Degraded", "true")
		}
		return c.JSON(http.StatusOK, models.ListingsResponse{
			Listings: listings,
			Count:    len(listings),
		})
	}
}

// CreateListingHandler posts a new listing for the session's company
func CreateListingHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateListingRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return respondBadRequest(c, "validation_failed", err.Error())
		}

		bundle := registry.Bundle(middleware.CurrentSession(c))
		created, err := bundle.Listings.Create(c.Request().Context(), &req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}
}

// UpdateListingHandler edits a pending listing owned by the session's company
func UpdateListingHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateListingRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return respondBadRequest(c, "validation_failed", err.Error())
		}

		bundle := registry.Bundle(middleware.CurrentSession(c))
		updated, err := bundle.Listings.Update(c.Request().Context(), c.Param("id"), &req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}
}

// DeleteListingHandler removes a listing owned by the session's company
func DeleteListingHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Listings.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// ApproveListingHandler transitions a pending listing to approved
func ApproveListingHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		approved, err := bundle.Listings.Approve(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, approved)
	}
}

// RejectListingHandler transitions a pending listing to rejected
func RejectListingHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.RejectListingRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}

		bundle := registry.Bundle(middleware.CurrentSession(c))
		rejected, err := bundle.Listings.Reject(c.Request().Context(), c.Param("id"), req.Reason)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, rejected)
	}
}

// StatsHandler returns status counts over the session's current listing scope
func StatsHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Listings.Refresh(c.Request().Context()); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, bundle.Listings.Stats())
	}
}
