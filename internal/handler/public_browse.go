package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homigo/booking-api/internal/availability"
	"github.com/homigo/booking-api/internal/model"
	"github.com/homigo/booking-api/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: property
// listings, property detail and the availability calendar.
type PublicHandler struct {
	Properties *repository.PropertyRepo
	Avail      *repository.AvailabilityRepo
	Reviews    *repository.ReviewRepo
}

func NewPublicHandler(p *repository.PropertyRepo, a *repository.AvailabilityRepo, rv *repository.ReviewRepo) *PublicHandler {
	return &PublicHandler{Properties: p, Avail: a, Reviews: rv}
}

// ListProperties returns all listings, newest first.
func (h *PublicHandler) ListProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Properties.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list properties failed"})
	}
	if items == nil {
		items = []*model.Property{}
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": items})
}

// GetProperty returns a single listing with its reviews.
func (h *PublicHandler) GetProperty(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	reviews, err := h.Reviews.ListByProperty(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reviews failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"property": p, "reviews": reviews})
}

// Availability returns a property's occupied date ranges. With optional
// start and end query parameters (YYYY-MM-DD) it also answers whether
// that specific range is free.
func (h *PublicHandler) Availability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	occupied, err := h.Avail.OccupiedRanges(ctx, id)
	if err != nil {
		if errors.Is(err, availability.ErrPropertyUnknown) {
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load availability failed"})
	}

	resp := echo.Map{"property_id": id, "occupied": occupied}

	start, end := c.QueryParam("start"), c.QueryParam("end")
	if start != "" || end != "" {
		rng, err := model.ParseDateRange(start, end)
		if err != nil {
			return validationJSON(c, "dates", "start and end must be dates in YYYY-MM-DD format with start before end")
		}
		free, err := h.Avail.IsRangeFree(ctx, id, rng)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
		}
		resp["requested"] = rng
		resp["available"] = free
	}
	return c.JSON(http.StatusOK, resp)
}
