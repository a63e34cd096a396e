package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hoyspace-api/models"

	"github.com/jmoiron/sqlx"
)

const spaceSelect = `SELECT s.id, s.title, s.description, s.price, s.location, s.images, s.amenities,
	s.category, s.host_id, s.created_at, s.updated_at,
	u.name AS host_name, u.email AS host_email, u.image AS host_image
	FROM spaces s
	LEFT JOIN users u ON s.host_id = u.id`

// spaceRow is a space plus the nullable host columns of the LEFT JOIN.
type spaceRow struct {
	models.Space
	HostName  sql.NullString `db:"host_name"`
	HostEmail sql.NullString `db:"host_email"`
	HostImage sql.NullString `db:"host_image"`
}

func (row spaceRow) toSpace() models.Space {
	s := row.Space
	if s.HostID != nil && row.HostName.Valid {
		s.Host = &models.UserSummary{
			ID:    *s.HostID,
			Name:  row.HostName.String,
			Email: row.HostEmail.String,
			Image: row.HostImage.String,
		}
	}
	if s.Images == nil {
		s.Images = models.StringList{}
	}
	if s.Amenities == nil {
		s.Amenities = models.StringList{}
	}
	return s
}

// SpaceRepository provides access to the spaces table.
type SpaceRepository struct {
	q sqlx.ExtContext
}

func NewSpaceRepository(q sqlx.ExtContext) *SpaceRepository {
	return &SpaceRepository{q: q}
}

func (r *SpaceRepository) Create(ctx context.Context, s *models.Space) error {
	if s.Category == "" {
		s.Category = models.DefaultCategory
	}
	if s.Images == nil {
		s.Images = models.StringList{}
	}
	if s.Amenities == nil {
		s.Amenities = models.StringList{}
	}
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO spaces (title, description, price, location, images, amenities, category, host_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Title, s.Description, s.Price, s.Location, s.Images, s.Amenities, s.Category, s.HostID, ts, ts)
	if err != nil {
		return fmt.Errorf("insert space: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert space: %w", err)
	}
	s.ID, s.CreatedAt, s.UpdatedAt = id, ts, ts
	return nil
}

func (r *SpaceRepository) FindByID(ctx context.Context, id int64) (*models.Space, error) {
	var row spaceRow
	err := sqlx.GetContext(ctx, r.q, &row, spaceSelect+" WHERE s.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get space: %w", err)
	}
	s := row.toSpace()
	return &s, nil
}

// GetAll lists spaces matching every non-empty filter field.
func (r *SpaceRepository) GetAll(ctx context.Context, f models.SpaceFilter) ([]models.Space, error) {
	query := spaceSelect + " WHERE 1 = 1"
	args := []interface{}{}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query += " AND (s.title LIKE ? OR s.description LIKE ? OR s.location LIKE ?)"
		args = append(args, like, like, like)
	}
	if f.Location != "" {
		query += " AND s.location LIKE ?"
		args = append(args, "%"+f.Location+"%")
	}
	if f.Category != "" {
		query += " AND s.category = ?"
		args = append(args, f.Category)
	}
	query += " ORDER BY s.created_at DESC, s.id DESC"

	var rows []spaceRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	spaces := make([]models.Space, 0, len(rows))
	for _, row := range rows {
		spaces = append(spaces, row.toSpace())
	}
	return spaces, nil
}

// Update rewrites only the fields set in upd. An empty update touches nothing
// and reports zero rows.
func (r *SpaceRepository) Update(ctx context.Context, id int64, upd models.SpaceUpdate) (int64, error) {
	var set setClause
	if upd.Title != nil {
		set.add("title", *upd.Title)
	}
	if upd.Description != nil {
		set.add("description", *upd.Description)
	}
	if upd.Price != nil {
		set.add("price", *upd.Price)
	}
	if upd.Location != nil {
		set.add("location", *upd.Location)
	}
	if upd.Category != nil {
		set.add("category", *upd.Category)
	}
	if upd.Images != nil {
		set.add("images", *upd.Images)
	}
	if upd.Amenities != nil {
		set.add("amenities", *upd.Amenities)
	}
	if set.empty() {
		return 0, nil
	}
	set.add("updated_at", now())

	res, err := r.q.ExecContext(ctx, "UPDATE spaces SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return 0, fmt.Errorf("update space: %w", err)
	}
	return res.RowsAffected()
}

func (r *SpaceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM spaces WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete space: %w", err)
	}
	return res.RowsAffected()
}

// IDsByHost lists the ids of the spaces hosted by a user.
func (r *SpaceRepository) IDsByHost(ctx context.Context, hostID int64) ([]int64, error) {
	ids := []int64{}
	if err := sqlx.SelectContext(ctx, r.q, &ids, "SELECT id FROM spaces WHERE host_id = ? ORDER BY id", hostID); err != nil {
		return nil, fmt.Errorf("list hosted spaces: %w", err)
	}
	return ids, nil
}
