package server

import (
	"time"

	"hoyspace-api/auth"
	"hoyspace-api/config"
	"hoyspace-api/notify"
	"hoyspace-api/repository"
	"hoyspace-api/service"

	"github.com/jmoiron/sqlx"
)

// App holds the services built over one database handle.
type App struct {
	Config        *config.Config
	DB            *sqlx.DB
	Guard         *auth.Guard
	Notifications *service.NotificationService
	Bookings      *service.BookingService
	Spaces        *service.SpaceService
	Users         *service.UserService
	Auth          *service.AuthService
	Chat          *service.ChatService
}

// NewApp wires the services. pub receives live events; nil discards them.
func NewApp(cfg *config.Config, dbConn *sqlx.DB, pub notify.Publisher, mailer auth.Mailer) *App {
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	if mailer == nil {
		mailer = auth.LogMailer{}
	}

	notes := service.NewNotificationService(dbConn, pub)
	users := service.NewUserService(dbConn, hasher)
	return &App{
		Config:        cfg,
		DB:            dbConn,
		Guard:         auth.NewGuard(tokens, repository.NewUserRepository(dbConn)),
		Notifications: notes,
		Bookings:      service.NewBookingService(dbConn, notes),
		Spaces:        service.NewSpaceService(dbConn),
		Users:         users,
		Auth: service.NewAuthService(dbConn, users, tokens, hasher, mailer, service.AuthOptions{
			OTPTTL:  time.Duration(cfg.Auth.OTPTTLMinutes) * time.Minute,
			DevMode: cfg.Auth.DevMode,
		}),
		Chat: service.NewChatService(dbConn, pub),
	}
}
