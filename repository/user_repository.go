package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hoyspace-api/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password, phone, role, image,
	reset_password_otp, reset_password_expire, created_at, updated_at`

// UserRepository provides access to the users table.
type UserRepository struct {
	q sqlx.ExtContext
}

func NewUserRepository(q sqlx.ExtContext) *UserRepository {
	return &UserRepository{q: q}
}

// Create inserts the user and fills in ID and timestamps. Role and image fall
// back to their defaults when empty.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Image == "" {
		u.Image = models.DefaultAvatar
	}
	ts := now()
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO users (name, email, password, phone, role, image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		u.Name, u.Email, u.Password, u.Phone, u.Role, u.Image, ts, ts)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, ts, ts
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// FindByOTP returns the user whose reset code matches and has not expired at t.
func (r *UserRepository) FindByOTP(ctx context.Context, email, otp string, t time.Time) (*models.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? AND reset_password_otp = ? AND reset_password_expire > ?",
		email, otp, t.UTC())
}

// FirstByRole returns the oldest account with the given role.
func (r *UserRepository) FirstByRole(ctx context.Context, role string) (*models.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY id LIMIT 1", role)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, r.q, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := sqlx.SelectContext(ctx, r.q, &users, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update rewrites only the fields set in upd. An empty update touches nothing
// and reports zero rows.
func (r *UserRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (int64, error) {
	var set setClause
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Email != nil {
		set.add("email", *upd.Email)
	}
	if upd.Phone != nil {
		set.add("phone", *upd.Phone)
	}
	if upd.Image != nil {
		set.add("image", *upd.Image)
	}
	if upd.Role != nil {
		set.add("role", *upd.Role)
	}
	if upd.Password != nil {
		set.add("password", *upd.Password)
	}
	if upd.ClearResetCode {
		set.add("reset_password_otp", nil)
		set.add("reset_password_expire", nil)
	}
	if set.empty() {
		return 0, nil
	}
	set.add("updated_at", now())

	res, err := r.q.ExecContext(ctx, "UPDATE users SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return res.RowsAffected()
}

// SaveOTP stores a password-reset code valid until expire.
func (r *UserRepository) SaveOTP(ctx context.Context, id int64, otp string, expire time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE users SET reset_password_otp = ?, reset_password_expire = ? WHERE id = ?",
		otp, expire.UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("save otp: %w", err)
	}
	return res.RowsAffected()
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.RowsAffected()
}
