package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hoyspace-api/apperr"
	"hoyspace-api/models"
	"hoyspace-api/repository"

	"github.com/umakantv/go-utils/httpserver"
)

// Identity is the authenticated caller as seen by the services.
type Identity struct {
	ID   int64
	Role string
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// UserFinder loads the user a token was issued for.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Guard resolves bearer tokens into identities. The role is read from the
// user row on every request so demotions apply immediately.
type Guard struct {
	tokens *TokenIssuer
	users  UserFinder
}

func NewGuard(tokens *TokenIssuer, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate reads the Authorization header, falling back to the token
// query parameter used by websocket clients.
func (g *Guard) Authenticate(r *http.Request) (Identity, error) {
	token := bearerToken(r)
	if token == "" {
		return Identity{}, apperr.Unauthenticated("Not authorized, no token")
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		return Identity{}, apperr.Unauthenticated("Not authorized, token failed")
	}

	user, err := g.users.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return Identity{}, apperr.Unauthenticated("Not authorized, user not found")
	}
	if err != nil {
		return Identity{}, apperr.Internal("load user", err)
	}
	return Identity{ID: user.ID, Role: user.Role}, nil
}

// CheckAuth is the httpserver auth hook. It only annotates the request with
// the token's user; rejection happens in the handler chain so that a 401
// carries the same {"message"} body as every other error.
func (g *Guard) CheckAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	token := bearerToken(r)
	if token == "" {
		return true, httpserver.RequestAuth{Type: "bearer"}
	}
	id, err := g.tokens.Verify(token)
	if err != nil {
		return true, httpserver.RequestAuth{Type: "bearer"}
	}
	return true, httpserver.RequestAuth{
		Type:   "bearer",
		Client: "user:" + strconv.FormatInt(id, 10),
		Claims: map[string]interface{}{"user_id": id},
	}
}

type identityKey struct{}

// WithIdentity attaches an authenticated caller to ctx.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFromContext returns the caller attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || ident.ID <= 0 {
		return Identity{}, apperr.Unauthenticated("Not authorized, no token")
	}
	return ident, nil
}

// RequireAdmin fails with Forbidden unless ident is an admin.
func RequireAdmin(ident Identity) error {
	if !ident.IsAdmin() {
		return apperr.Forbidden("Not authorized as an admin")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return r.URL.Query().Get("token")
}
