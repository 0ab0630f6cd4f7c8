package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/service"
)

// TestRideHandler exposes the booking lifecycle.
type TestRideHandler struct {
	svc *service.BookingService
}

func NewTestRideHandler(svc *service.BookingService) *TestRideHandler {
	return &TestRideHandler{svc: svc}
}

type createTestRideReq struct {
	BikeID      flexID `json:"bike_id"`
	BookingDate string `json:"booking_date"`
}

// Create books a test ride for the caller.
func (h *TestRideHandler) Create(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	var body createTestRideReq
	if err := bind(c, &body); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	ride, err := h.svc.Create(ctx, req.ID, service.CreateBookingInput{
		BikeID:      int64(body.BikeID),
		BookingDate: body.BookingDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Test ride booked successfully",
		"booking": ride,
	})
}

// ListForUser lists the bookings of :userId.
func (h *TestRideHandler) ListForUser(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	target, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.ListForUser(ctx, req, target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list, "count": len(list)})
}

// ListAll lists every booking (admin).
func (h *TestRideHandler) ListAll(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.ListAll(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list, "count": len(list)})
}

// Cancel cancels :bookingId.
func (h *TestRideHandler) Cancel(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Cancel(ctx, req, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Booking cancelled successfully",
		"bookingId": id,
	})
}

// Confirm confirms :bookingId (admin).
func (h *TestRideHandler) Confirm(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Confirm(ctx, req, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Booking confirmed successfully",
		"bookingId": id,
	})
}
