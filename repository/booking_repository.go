package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hoyspace-api/models"

	"github.com/jmoiron/sqlx"
)

const bookingSelect = `SELECT b.id, b.user_id, b.space_id, b.check_in, b.check_out, b.total_price,
	b.status, b.created_at, b.updated_at,
	s.title AS space_title, s.location AS space_location, s.images AS space_images,
	u.name AS user_name, u.email AS user_email
	FROM bookings b
	LEFT JOIN spaces s ON b.space_id = s.id
	LEFT JOIN users u ON b.user_id = u.id`

const bookingOrder = " ORDER BY b.created_at DESC, b.id DESC"

type bookingRow struct {
	models.Booking
	SpaceTitle    sql.NullString `db:"space_title"`
	SpaceLocation sql.NullString `db:"space_location"`
	SpaceImages   sql.NullString `db:"space_images"`
	UserName      sql.NullString `db:"user_name"`
	UserEmail     sql.NullString `db:"user_email"`
}

// joinShape picks which joined summaries a listing exposes.
type joinShape struct {
	spaceImages bool
	user        bool
}

var (
	shapeMine   = joinShape{spaceImages: true}
	shapeDetail = joinShape{user: true}
)

func (row bookingRow) toDetail(shape joinShape) (models.BookingDetail, error) {
	d := models.BookingDetail{Booking: row.Booking}
	if row.SpaceTitle.Valid {
		d.Space = &models.BookingSpace{
			ID:       row.SpaceID,
			Title:    row.SpaceTitle.String,
			Location: row.SpaceLocation.String,
		}
		if shape.spaceImages {
			var images models.StringList
			if err := images.Scan(row.SpaceImages.String); err != nil {
				return d, err
			}
			d.Space.Images = images
		}
	}
	if shape.user && row.UserName.Valid {
		d.User = &models.UserSummary{
			ID:    row.UserID,
			Name:  row.UserName.String,
			Email: row.UserEmail.String,
		}
	}
	return d, nil
}

// BookingRepository provides access to the bookings table.
type BookingRepository struct {
	q sqlx.ExtContext
}

func NewBookingRepository(q sqlx.ExtContext) *BookingRepository {
	return &BookingRepository{q: q}
}

// Create inserts b and fills in ID and timestamps. An empty status is stored as pending.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO bookings (user_id, space_id, check_in, check_out, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.SpaceID, b.CheckIn, b.CheckOut, b.TotalPrice, b.Status, ts, ts)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, ts, ts
	return nil
}

// FindByID returns the booking joined with its space and user.
func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*models.BookingDetail, error) {
	var row bookingRow
	err := sqlx.GetContext(ctx, r.q, &row, bookingSelect+" WHERE b.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	d, err := row.toDetail(shapeDetail)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &d, nil
}

// FindByUser lists a renter's bookings with the space title, images and location.
func (r *BookingRepository) FindByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	return r.list(ctx, shapeMine, bookingSelect+" WHERE b.user_id = ?"+bookingOrder, userID)
}

// GetAll lists every booking with space and user summaries.
func (r *BookingRepository) GetAll(ctx context.Context) ([]models.BookingDetail, error) {
	return r.list(ctx, shapeDetail, bookingSelect+bookingOrder)
}

func (r *BookingRepository) list(ctx context.Context, shape joinShape, query string, args ...interface{}) ([]models.BookingDetail, error) {
	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]models.BookingDetail, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDetail(shape)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Update rewrites only the fields set in upd. An empty update touches nothing
// and reports zero rows.
func (r *BookingRepository) Update(ctx context.Context, id int64, upd models.BookingUpdate) (int64, error) {
	var set setClause
	if upd.Status != nil {
		set.add("status", *upd.Status)
	}
	if set.empty() {
		return 0, nil
	}
	set.add("updated_at", now())

	res, err := r.q.ExecContext(ctx, "UPDATE bookings SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return 0, fmt.Errorf("update booking: %w", err)
	}
	return res.RowsAffected()
}

// TransitionStatus moves the booking to "to" only if it is still in "from".
// Zero rows means another writer got there first (or the row is gone).
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from, to string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		to, now(), id, from)
	if err != nil {
		return 0, fmt.Errorf("transition booking: %w", err)
	}
	return res.RowsAffected()
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	return res.RowsAffected()
}

func (r *BookingRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, "SELECT COUNT(*) FROM bookings WHERE user_id = ?", userID); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
