package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/database/dbtest"
	"hoyspace-api/models"
	"hoyspace-api/notify"
	"hoyspace-api/repository"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{CallerKey: "file", TimeKey: "timestamp", CallerSkip: 1})
	os.Exit(m.Run())
}

type published struct {
	userID int64
	event  notify.Event
}

// recorder is a notify.Publisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(userID int64, ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{userID, ev})
}

func (r *recorder) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

type fixture struct {
	db       *sqlx.DB
	pub      *recorder
	notes    *NotificationService
	bookings *BookingService
	spaces   *SpaceService
	users    *UserService
	chat     *ChatService
	hasher   *auth.Hasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	pub := &recorder{}
	notes := NewNotificationService(db, pub)
	hasher := auth.NewHasher(4)
	return &fixture{
		db:       db,
		pub:      pub,
		notes:    notes,
		bookings: NewBookingService(db, notes),
		spaces:   NewSpaceService(db),
		users:    NewUserService(db, hasher),
		chat:     NewChatService(db, pub),
		hasher:   hasher,
	}
}

func (f *fixture) user(t *testing.T, email, role string) auth.Identity {
	t.Helper()
	hash, _ := f.hasher.Hash("password123")
	u := &models.User{Name: "User " + email, Email: email, Password: hash, Role: role}
	if err := repository.NewUserRepository(f.db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return auth.Identity{ID: u.ID, Role: u.Role}
}

func (f *fixture) space(t *testing.T, host auth.Identity, title string) *models.Space {
	t.Helper()
	price := 100.0
	s, err := f.spaces.Create(context.Background(), host, models.SpaceRequest{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("create space: %v", err)
	}
	return s
}

func (f *fixture) notifications(t *testing.T, userID int64) []models.Notification {
	t.Helper()
	list, err := repository.NewNotificationRepository(f.db).FindByUser(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := f.db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatal(err)
	}
	return n
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("error kind = %v, want %v (%v)", got, kind, err)
	}
}

func TestWrapInternal(t *testing.T) {
	nf := apperr.NotFound("x")
	if wrapInternal("ctx", nf) != nf {
		t.Fatal("classified error was rewrapped")
	}
	err := wrapInternal("ctx", errors.New("boom"))
	assertKind(t, err, apperr.KindInternal)
}

type failingMailer struct{}

func (failingMailer) SendResetCode(context.Context, string, string, string) error {
	return errors.New("smtp down")
}

type captureMailer struct {
	code string
}

func (m *captureMailer) SendResetCode(_ context.Context, _, _, code string) error {
	m.code = code
	return nil
}

func newAuthService(f *fixture, mailer auth.Mailer, devMode bool) *AuthService {
	return NewAuthService(f.db, f.users, auth.NewTokenIssuer("secret", time.Hour), f.hasher, mailer,
		AuthOptions{OTPTTL: 10 * time.Minute, DevMode: devMode})
}
