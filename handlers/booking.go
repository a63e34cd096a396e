package handlers

import (
	"context"
	"net/http"

	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/service"

	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings *service.BookingService
	out      Responder
}

func NewBookingHandler(bookings *service.BookingService, out Responder) *BookingHandler {
	return &BookingHandler{bookings: bookings, out: out}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	var req models.CreateBookingRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	booking, err := h.bookings.Create(ctx, actor, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Booking created", zap.Int64("booking_id", booking.ID), zap.Int64("space_id", booking.SpaceID))
	h.out.JSON(ctx, w, http.StatusCreated, booking)
}

// GetMyBookings handles GET /bookings/mybookings
func (h *BookingHandler) GetMyBookings(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	list, err := h.bookings.ListMine(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	h.out.JSON(ctx, w, http.StatusOK, list)
}

// GetBookings handles GET /bookings (admin)
func (h *BookingHandler) GetBookings(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	list, err := h.bookings.ListAll(ctx, actor)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	logRequest(ctx, "info", "Bookings retrieved", zap.Int("count", len(list)))
	h.out.JSON(ctx, w, http.StatusOK, list)
}

// UpdateBookingStatus handles PUT /bookings/{id} (admin)
func (h *BookingHandler) UpdateBookingStatus(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	var req models.UpdateBookingRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	booking, err := h.bookings.UpdateStatus(ctx, actor, id, req.Status)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Booking status updated", zap.Int64("booking_id", id), zap.String("status", req.Status))
	h.out.JSON(ctx, w, http.StatusOK, booking)
}

// DeleteBooking handles DELETE /bookings/{id}
func (h *BookingHandler) DeleteBooking(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	if err := h.bookings.Delete(ctx, actor, id); err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Booking removed", zap.Int64("booking_id", id))
	h.out.Message(w, http.StatusOK, "Booking removed")
}
