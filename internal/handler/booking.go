package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homigo/booking-api/internal/booking"
	"github.com/homigo/booking-api/internal/model"
	"github.com/homigo/booking-api/internal/queue"
	"github.com/homigo/booking-api/internal/repository"
	queuepublisher "github.com/homigo/booking-api/internal/service"
)

// BookingHandler exposes guest-facing booking endpoints on top of the
// booking engine.
type BookingHandler struct {
	Engine       *booking.Engine
	Reservations *repository.ReservationRepo
	Properties   *repository.PropertyRepo
}

func NewBookingHandler(e *booking.Engine, r *repository.ReservationRepo, p *repository.PropertyRepo) *BookingHandler {
	return &BookingHandler{Engine: e, Reservations: r, Properties: p}
}

type createBookingReq struct {
	PropertyID    uint64 `json:"propertyId"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	GuestCount    int    `json:"guestCount"`
	PaymentMethod string `json:"paymentMethod"`
}

type createBookingResp struct {
	ReservationID uint64 `json:"reservationId"`
	TotalPrice    int64  `json:"totalPrice"`
	Status        string `json:"status"`
}

func validationJSON(c echo.Context, field, reason string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"code":  "VALIDATION_ERROR",
		"field": field,
		"error": reason,
	})
}

// Create books a stay. Availability is checked and committed atomically
// per property; losing a race for the same dates yields 409 DATE_CONFLICT.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "error": "invalid body"})
	}
	if req.PropertyID == 0 {
		return validationJSON(c, "propertyId", "required")
	}
	checkIn, err := time.ParseInLocation(model.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return validationJSON(c, "startDate", "must be a date in YYYY-MM-DD format")
	}
	checkOut, err := time.ParseInLocation(model.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return validationJSON(c, "endDate", "must be a date in YYYY-MM-DD format")
	}
	stay, err := model.NewDateRange(checkIn, checkOut)
	if err != nil {
		return validationJSON(c, "dates", "check-in must be before check-out")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.Reserve(ctx, booking.ReserveRequest{
		UserID:        userID,
		PropertyID:    req.PropertyID,
		Range:         stay,
		GuestCount:    req.GuestCount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		var ve *booking.ValidationError
		switch {
		case errors.As(err, &ve):
			return validationJSON(c, ve.Field, ve.Reason)
		case errors.Is(err, booking.ErrDateConflict):
			return c.JSON(http.StatusConflict, echo.Map{
				"code":  "DATE_CONFLICT",
				"error": "Selected dates are not available for this property",
			})
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "property not found"})
		default:
			log.Printf("booking: reserve failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	go h.publishConfirmed(res)

	return c.JSON(http.StatusCreated, createBookingResp{
		ReservationID: res.ID,
		TotalPrice:    res.TotalPriceCents,
		Status:        res.Status,
	})
}

// publishConfirmed emits the booking.confirmed event. Broker failures are
// logged inside the publisher and never affect the HTTP response.
func (h *BookingHandler) publishConfirmed(res *model.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		ReservationID:   res.ID,
		UserID:          res.UserID,
		PropertyID:      res.PropertyID,
		CheckIn:         res.Range.CheckIn.Format(model.DateLayout),
		CheckOut:        res.Range.CheckOut.Format(model.DateLayout),
		Nights:          res.Range.Nights(),
		GuestCount:      res.GuestCount,
		PaymentMethod:   res.PaymentMethod,
		TotalPriceCents: res.TotalPriceCents,
		ConfirmedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	if prop, err := h.Properties.GetByID(ctx, res.PropertyID); err == nil {
		ev.PropertyTitle = prop.Title
		ev.Location = prop.Location
	}
	_ = queuepublisher.PublishBookingConfirmed(ctx, ev)
}

// ListMine returns the caller's bookings, newest first, with property
// details attached.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// Get returns a single booking. Guests can only see their own; a booking
// owned by someone else is reported as 403.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"code": "FORBIDDEN", "error": "not your booking"})
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel cancels the caller's booking and frees its dates. Cancelling an
// already-cancelled booking succeeds without changes.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return validationJSON(c, "id", "must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Load before cancelling so the event can carry the stay dates.
	res, loadErr := h.Reservations.GetByID(ctx, id)

	if err := h.Engine.Cancel(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "error": "booking not found"})
		case errors.Is(err, booking.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"code": "FORBIDDEN", "error": "not your booking"})
		default:
			log.Printf("booking: cancel failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}

	if loadErr == nil && res.Status != model.StatusCancelled {
		go func(res *model.Reservation) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queuepublisher.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
				ReservationID: res.ID,
				UserID:        res.UserID,
				PropertyID:    res.PropertyID,
				CheckIn:       res.Range.CheckIn.Format(model.DateLayout),
				CheckOut:      res.Range.CheckOut.Format(model.DateLayout),
				CancelledAt:   time.Now().UTC().Format(time.RFC3339),
			})
		}(res)
	}
	return c.NoContent(http.StatusNoContent)
}
