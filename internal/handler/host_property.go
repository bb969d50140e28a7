package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homigo/booking-api/internal/model"
	"github.com/homigo/booking-api/internal/repository"
)

// HostPropertyHandler exposes listing management endpoints for hosts.
// Every operation is scoped to the authenticated host: a host can never
// read or mutate another host's listings through these routes.
type HostPropertyHandler struct {
	Properties *repository.PropertyRepo
}

func NewHostPropertyHandler(p *repository.PropertyRepo) *HostPropertyHandler {
	return &HostPropertyHandler{Properties: p}
}

type propertyReq struct {
	Title            string `json:"title"`
	Location         string `json:"location"`
	Description      string `json:"description"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	ImageURL         string `json:"image_url"`
}

func (req *propertyReq) validate() (string, string) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" {
		return "title", "required"
	}
	if req.Location == "" {
		return "location", "required"
	}
	if req.NightlyRateCents <= 0 {
		return "nightly_rate_cents", "must be a positive amount"
	}
	return "", ""
}

// Create adds a new listing for the authenticated host.
func (h *HostPropertyHandler) Create(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "error": "invalid body"})
	}
	if field, reason := req.validate(); field != "" {
		return validationJSON(c, field, reason)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &model.Property{
		HostID:           hostID,
		Title:            req.Title,
		Location:         req.Location,
		Description:      req.Description,
		NightlyRateCents: req.NightlyRateCents,
		ImageURL:         req.ImageURL,
	}
	if err := h.Properties.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the host's own listings.
func (h *HostPropertyHandler) List(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Properties.ListByHost(ctx, hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list properties failed"})
	}
	if items == nil {
		items = []*model.Property{}
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": items})
}

// Get returns one of the host's listings.
func (h *HostPropertyHandler) Get(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByIDAndHost(ctx, id, hostID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update rewrites a listing's fields. Booked dates are untouched; price
// changes only affect future quotes.
func (h *HostPropertyHandler) Update(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "error": "invalid body"})
	}
	if field, reason := req.validate(); field != "" {
		return validationJSON(c, field, reason)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &model.Property{
		ID:               id,
		Title:            req.Title,
		Location:         req.Location,
		Description:      req.Description,
		NightlyRateCents: req.NightlyRateCents,
		ImageURL:         req.ImageURL,
	}
	if err := h.Properties.Update(ctx, p, hostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update property failed"})
	}

	stored, err := h.Properties.GetByIDAndHost(ctx, id, hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Delete removes a listing together with its reservations and reviews.
func (h *HostPropertyHandler) Delete(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Properties.DeleteByIDAndHost(ctx, id, hostID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"code": "FORBIDDEN", "error": "not your property"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete property failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
