package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAvatar is stored for users created without an image.
const DefaultAvatar = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde"

// User represents a user in the system
// Password is stored hashed (bcrypt); never return plain in JSON responses
type User struct {
	ID                  int64      `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Email               string     `json:"email" db:"email"`
	Password            string     `json:"-" db:"password"`
	Phone               string     `json:"phone" db:"phone"`
	Role                string     `json:"role" db:"role"`
	Image               string     `json:"image" db:"image"`
	ResetPasswordOTP    *string    `json:"-" db:"reset_password_otp"`
	ResetPasswordExpire *time.Time `json:"-" db:"reset_password_expire"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSummary is the nested shape used when a user is joined onto another entity.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// UserUpdate lists the columns a partial update may touch; nil means untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Image    *string
	Role     *string
	Password *string // already hashed
	// ClearResetCode nulls the OTP columns.
	ClearResetCode bool
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

// CreateUserRequest is the admin variant; role defaults to user
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginRequest for /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest for PUT /users/profile; empty fields are left alone
type ProfileUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Image    string `json:"image"`
	Password string `json:"password"`
}

// AdminUserUpdateRequest for PUT /users/{id}
type AdminUserUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// AuthResponse is returned by register/login; Token is empty on profile reads.
type AuthResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	Image string `json:"image"`
	Token string `json:"token,omitempty"`
}

// UserStats backs GET /users/stats
type UserStats struct {
	Bookings int `json:"bookings"`
	Reviews  int `json:"reviews"`
	Saved    int `json:"saved"`
}
