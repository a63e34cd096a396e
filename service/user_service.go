package service

import (
	"context"
	"errors"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/repository"

	"github.com/jmoiron/sqlx"
)

// UserService covers profile management and user administration.
type UserService struct {
	users    *repository.UserRepository
	bookings *repository.BookingRepository
	hasher   *auth.Hasher
}

func NewUserService(db *sqlx.DB, hasher *auth.Hasher) *UserService {
	return &UserService{
		users:    repository.NewUserRepository(db),
		bookings: repository.NewBookingRepository(db),
		hasher:   hasher,
	}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	return u, nil
}

// FirstAdmin returns the oldest admin account.
func (s *UserService) FirstAdmin(ctx context.Context) (*models.User, error) {
	u, err := s.users.FirstByRole(ctx, models.RoleAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("No admin user found")
	}
	if err != nil {
		return nil, apperr.Internal("load admin", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, actor auth.Identity) ([]models.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return users, nil
}

func (s *UserService) Stats(ctx context.Context, actor auth.Identity) (*models.UserStats, error) {
	n, err := s.bookings.CountByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("count bookings", err)
	}
	return &models.UserStats{Bookings: n}, nil
}

// CreateUser is the admin path for adding an account with any role.
func (s *UserService) CreateUser(ctx context.Context, actor auth.Identity, req models.CreateUserRequest) (*models.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Validation("Invalid user data")
	}
	return s.create(ctx, req.Name, req.Email, req.Password, "", req.Role)
}

func (s *UserService) create(ctx context.Context, name, email, password, phone, role string) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("User already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("load user", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u := &models.User{Name: name, Email: email, Password: hash, Phone: phone, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		if apperr.IsDuplicateKey(err) {
			return nil, apperr.Validation("User already exists")
		}
		return nil, apperr.Internal("create user", err)
	}
	return u, nil
}

// UpdateProfile applies the non-empty fields of req to the actor's account.
func (s *UserService) UpdateProfile(ctx context.Context, actor auth.Identity, req models.ProfileUpdateRequest) (*models.User, error) {
	var upd models.UserUpdate
	if req.Name != "" {
		upd.Name = &req.Name
	}
	if req.Email != "" {
		upd.Email = &req.Email
	}
	if req.Phone != "" {
		upd.Phone = &req.Phone
	}
	if req.Image != "" {
		upd.Image = &req.Image
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, apperr.Validation("Password must be at least 6 characters")
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, apperr.Internal("hash password", err)
		}
		upd.Password = &hash
	}
	return s.update(ctx, actor.ID, upd)
}

// AdminUpdate lets an admin change another account's name, email or role.
func (s *UserService) AdminUpdate(ctx context.Context, actor auth.Identity, id int64, req models.AdminUserUpdateRequest) (*models.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, apperr.Validation("Invalid role")
	}
	var upd models.UserUpdate
	if req.Name != "" {
		upd.Name = &req.Name
	}
	if req.Email != "" {
		upd.Email = &req.Email
	}
	if req.Role != "" {
		upd.Role = &req.Role
	}
	return s.update(ctx, id, upd)
}

func (s *UserService) update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.users.Update(ctx, id, upd); err != nil {
		if apperr.IsDuplicateKey(err) {
			return nil, apperr.Validation("Email already in use")
		}
		return nil, apperr.Internal("update user", err)
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete user", err)
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// EnsureAdmin creates an admin account, or promotes the existing account with
// that email. created reports whether a new row was inserted.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (u *models.User, created bool, err error) {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			role := models.RoleAdmin
			if _, err := s.users.Update(ctx, existing.ID, models.UserUpdate{Role: &role}); err != nil {
				return nil, false, apperr.Internal("promote user", err)
			}
			existing.Role = role
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, apperr.Internal("load user", err)
	}

	if len(password) < 6 {
		return nil, false, apperr.Validation("Password must be at least 6 characters")
	}
	u, err = s.create(ctx, name, email, password, "", models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
