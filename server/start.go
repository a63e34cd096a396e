package server

import (
	"context"
	"net/http"
	"os"
	"time"

	cachepackage "hoyspace-api/cache"
	"hoyspace-api/config"
	"hoyspace-api/database"
	"hoyspace-api/handlers"
	"hoyspace-api/metrics"
	"hoyspace-api/notify"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

type route struct {
	httpserver.Route
	handler httpserver.HandlerFunc
}

func public(name, method, path string, h httpserver.HandlerFunc) route {
	return route{httpserver.Route{Name: name, Method: method, Path: path, AuthType: "none"}, h}
}

// bearer registers a route that needs a signed-in caller. The handler chain
// rejects anonymous requests itself so the 401 body matches other errors.
func (h handlerSet) bearer(name, method, path string, fn httpserver.HandlerFunc) route {
	return route{
		httpserver.Route{Name: name, Method: method, Path: path, AuthType: "bearer"},
		handlers.Authenticated(h.guard, h.out, fn),
	}
}

// InitLogger sets up the process-wide logger.
func InitLogger() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
}

func StartServer(configPath string) {
	InitLogger()
	logger.Info("Starting HoySpace API...")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err), zap.String("path", configPath))
		os.Exit(1)
	}

	dbConn, err := database.InitializeDatabase(cfg.Database)
	if err != nil {
		os.Exit(1)
	}
	defer dbConn.Close()

	cache, err := cachepackage.InitializeCache(cfg.Cache)
	if err != nil {
		os.Exit(1)
	}
	defer cache.Close()

	metrics.Register()
	hub := notify.NewHub(cfg.Server.AllowedOrigins)
	app := NewApp(cfg, dbConn, hub, nil)
	out := handlers.Responder{LegacyIDs: cfg.Server.LegacyIDs}

	spaces := handlers.NewSpaceHandler(app.Spaces, cache,
		time.Duration(cfg.Cache.ListTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.ItemTTLSeconds)*time.Second, out)
	routes := buildRoutes(handlerSet{
		service:       cfg.App.Name,
		guard:         app.Guard,
		out:           out,
		bookings:      handlers.NewBookingHandler(app.Bookings, out),
		notifications: handlers.NewNotificationHandler(app.Notifications, out),
		spaces:        spaces,
		users:         handlers.NewUserHandler(app.Users, spaces, out),
		auth:          handlers.NewAuthHandler(app.Auth, out),
		chat:          handlers.NewChatHandler(app.Chat, hub, out),
	})

	server := httpserver.New(cfg.Server.Port, app.Guard.CheckAuth)
	for _, rt := range routes {
		server.Register(rt.Route, handlers.Instrument(rt.Route, rt.handler))
	}

	logger.Info("HoySpace API started", zap.String("port", cfg.Server.Port), zap.Int("routes", len(routes)))
	logger.Info("Health check: GET /health")

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}

type handlerSet struct {
	service       string
	guard         handlers.Authenticator
	out           handlers.Responder
	bookings      *handlers.BookingHandler
	notifications *handlers.NotificationHandler
	spaces        *handlers.SpaceHandler
	users         *handlers.UserHandler
	auth          *handlers.AuthHandler
	chat          *handlers.ChatHandler
}

// buildRoutes returns the route table. Literal paths come before their {id}
// siblings so the router never hands "profile" or "mybookings" to an id route.
func buildRoutes(h handlerSet) []route {
	bearer := h.bearer
	return []route{
		public("HealthCheck", "GET", "/health", health(h.service)),
		public("Metrics", "GET", "/metrics", func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		}),

		public("Register", "POST", "/auth/register", h.auth.Register),
		public("Login", "POST", "/auth/login", h.auth.Login),
		public("ForgotPassword", "POST", "/auth/forgot-password", h.auth.ForgotPassword),
		public("VerifyOTP", "POST", "/auth/verify-otp", h.auth.VerifyOTP),
		public("ResetPassword", "POST", "/auth/reset-password", h.auth.ResetPassword),
		bearer("Me", "GET", "/auth/me", h.auth.Me),

		bearer("ListUsers", "GET", "/users", h.users.GetUsers),
		bearer("CreateUser", "POST", "/users", h.users.CreateUser),
		bearer("UserStats", "GET", "/users/stats", h.users.GetStats),
		bearer("UpdateProfile", "PUT", "/users/profile", h.users.UpdateProfile),
		bearer("UpdateUser", "PUT", "/users/{id}", h.users.UpdateUser),
		bearer("DeleteUser", "DELETE", "/users/{id}", h.users.DeleteUser),

		public("ListSpaces", "GET", "/spaces", h.spaces.GetSpaces),
		public("GetSpace", "GET", "/spaces/{id}", h.spaces.GetSpace),
		bearer("CreateSpace", "POST", "/spaces", h.spaces.CreateSpace),
		bearer("UpdateSpace", "PUT", "/spaces/{id}", h.spaces.UpdateSpace),
		bearer("DeleteSpace", "DELETE", "/spaces/{id}", h.spaces.DeleteSpace),

		bearer("CreateBooking", "POST", "/bookings", h.bookings.CreateBooking),
		bearer("MyBookings", "GET", "/bookings/mybookings", h.bookings.GetMyBookings),
		bearer("ListBookings", "GET", "/bookings", h.bookings.GetBookings),
		bearer("UpdateBooking", "PUT", "/bookings/{id}", h.bookings.UpdateBookingStatus),
		bearer("DeleteBooking", "DELETE", "/bookings/{id}", h.bookings.DeleteBooking),

		bearer("ListNotifications", "GET", "/notifications", h.notifications.GetNotifications),
		bearer("CreateNotification", "POST", "/notifications", h.notifications.CreateNotification),
		bearer("UnreadNotificationCount", "GET", "/notifications/unread-count", h.notifications.UnreadCount),
		bearer("ReadAllNotifications", "PUT", "/notifications/read-all", h.notifications.MarkAllRead),
		bearer("ReadNotification", "PUT", "/notifications/{id}/read", h.notifications.MarkRead),

		bearer("SendMessage", "POST", "/chat", h.chat.SendMessage),
		bearer("Conversations", "GET", "/chat/conversations", h.chat.GetConversations),
		bearer("Thread", "GET", "/chat/{userId}", h.chat.GetThread),
		bearer("ReadThread", "PUT", "/chat/{userId}/read", h.chat.MarkRead),

		bearer("Live", "GET", "/ws", h.chat.Live),
	}
}

func health(service string) httpserver.HandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "` + service + `"}`))
	}
}
