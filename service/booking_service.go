package service

import (
	"context"
	"errors"
	"fmt"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/database"
	"hoyspace-api/metrics"
	"hoyspace-api/models"
	"hoyspace-api/repository"

	"github.com/jmoiron/sqlx"
)

// BookingService owns the booking lifecycle. Every state change and the
// notification it produces are written in one transaction.
type BookingService struct {
	db       *sqlx.DB
	bookings *repository.BookingRepository
	spaces   *repository.SpaceRepository
	notes    *NotificationService
}

func NewBookingService(db *sqlx.DB, notes *NotificationService) *BookingService {
	return &BookingService{
		db:       db,
		bookings: repository.NewBookingRepository(db),
		spaces:   repository.NewSpaceRepository(db),
		notes:    notes,
	}
}

func (s *BookingService) Create(ctx context.Context, actor auth.Identity, req models.CreateBookingRequest) (*models.Booking, error) {
	if actor.IsAdmin() {
		return nil, apperr.Forbidden("Admins cannot book spaces.")
	}
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Validation("Please provide all booking details")
	}

	checkIn, err := models.ParseDate(req.CheckIn)
	if err != nil {
		return nil, apperr.Validation("Invalid check-in date")
	}
	checkOut, err := models.ParseDate(req.CheckOut)
	if err != nil {
		return nil, apperr.Validation("Invalid check-out date")
	}
	if !checkOut.After(checkIn) {
		return nil, apperr.Validation("Check-out date must be after check-in date")
	}

	if _, err := s.spaces.FindByID(ctx, req.SpaceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Space not found")
		}
		return nil, apperr.Internal("load space", err)
	}

	booking := &models.Booking{
		UserID:     actor.ID,
		SpaceID:    req.SpaceID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: req.TotalPrice,
		Status:     models.BookingPending,
	}
	note := &models.Notification{
		UserID:  actor.ID,
		Title:   "Booking Request Sent",
		Message: fmt.Sprintf("Your booking request for space ID #%d has been sent.", req.SpaceID),
		Type:    models.NotificationBooking,
	}
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := repository.NewBookingRepository(tx).Create(ctx, booking); err != nil {
			return err
		}
		return s.notes.emit(ctx, tx, note)
	})
	if err != nil {
		return nil, apperr.Internal("create booking", err)
	}

	metrics.IncBookingCreated()
	s.notes.push(*note)
	return booking, nil
}

// ListMine returns the actor's bookings with their space, newest first.
func (s *BookingService) ListMine(ctx context.Context, actor auth.Identity) ([]models.BookingDetail, error) {
	list, err := s.bookings.FindByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list bookings", err)
	}
	return list, nil
}

func (s *BookingService) ListAll(ctx context.Context, actor auth.Identity) ([]models.BookingDetail, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	list, err := s.bookings.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list bookings", err)
	}
	return list, nil
}

// UpdateStatus moves a booking to status and notifies its owner once.
func (s *BookingService) UpdateStatus(ctx context.Context, actor auth.Identity, id int64, status string) (*models.BookingDetail, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if !models.IsBookingStatus(status) {
		return nil, apperr.Validation("Invalid booking status")
	}

	current, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Booking not found")
	}
	if err != nil {
		return nil, apperr.Internal("load booking", err)
	}
	if !models.CanTransition(current.Status, status) {
		return nil, apperr.Validation(fmt.Sprintf("Cannot change booking from %s to %s", current.Status, status))
	}

	var (
		updated *models.BookingDetail
		note    *models.Notification
	)
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		updated, note, err = s.transition(ctx, tx, id, current.Status, status)
		return err
	})
	if err != nil {
		return nil, wrapInternal("update booking", err)
	}

	metrics.IncBookingStatus(status)
	s.notes.push(*note)
	return updated, nil
}

// transition applies a compare-and-set status change inside tx and records
// the owner's notification. A lost race is a conflict unless the booking is
// gone, which is reported as not found.
func (s *BookingService) transition(ctx context.Context, tx *sqlx.Tx, id int64, from, to string) (*models.BookingDetail, *models.Notification, error) {
	repo := repository.NewBookingRepository(tx)
	n, err := repo.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return nil, nil, err
	}

	updated, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperr.NotFound("Booking not found")
	}
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, apperr.Conflict("Booking was changed by another request")
	}

	spaceName := "a space"
	if updated.Space != nil && updated.Space.Title != "" {
		spaceName = updated.Space.Title
	}
	note := &models.Notification{
		UserID:  updated.UserID,
		Title:   "Booking " + models.StatusTitle(to),
		Message: fmt.Sprintf("Your booking for %s has been %s.", spaceName, to),
		Type:    models.NotificationBooking,
	}
	if err := s.notes.emit(ctx, tx, note); err != nil {
		return nil, nil, err
	}
	return updated, note, nil
}

// Delete removes a booking. Only an admin or the booking's owner may do so.
func (s *BookingService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	booking, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Booking not found")
	}
	if err != nil {
		return apperr.Internal("load booking", err)
	}
	if !actor.IsAdmin() && booking.UserID != actor.ID {
		return apperr.Forbidden("Not authorized to delete this booking")
	}

	n, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete booking", err)
	}
	if n == 0 {
		return apperr.NotFound("Booking not found")
	}
	return nil
}
