package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homigo/booking-api/internal/model"
	"github.com/homigo/booking-api/internal/repository"
)

// ReviewHandler lets authenticated guests review properties.
type ReviewHandler struct {
	Reviews    *repository.ReviewRepo
	Properties *repository.PropertyRepo
}

func NewReviewHandler(rv *repository.ReviewRepo, p *repository.PropertyRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: rv, Properties: p}
}

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create posts a review for the property in the path.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || propertyID == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return validationJSON(c, "rating", "must be between 1 and 5")
	}
	req.Comment = strings.TrimSpace(req.Comment)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Properties.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}

	rev := &model.Review{
		PropertyID: propertyID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, rev)
}
