package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs with the route details held in the request context.
// Calls look like logger.Info("msg", fields...), e.g. zap.Error(err) for errors.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName, method, path, client := routeDetails(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if client != "" {
		logMsg += " - client:" + client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		allFields = append(allFields, zap.String("request_id", id))
	}

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// Responder writes JSON bodies. With LegacyIDs set, every object carrying an
// "id" also gets an "_id" with the same value.
type Responder struct {
	LegacyIDs bool
}

func (o Responder) encode(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || !o.LegacyIDs {
		return b, err
	}
	return withLegacyIDs(b)
}

func (o Responder) JSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	body, err := o.encode(v)
	if err != nil {
		logRequest(ctx, "error", "Failed to encode response", zap.Error(err))
		o.Error(ctx, w, apperr.Internal("encode response", err))
		return
	}
	writeBody(w, status, body)
}

// Message writes {"message": msg}.
func (o Responder) Message(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// Error maps err onto its status code. Internal errors are logged and
// replaced by a generic message.
func (o Responder) Error(ctx context.Context, w http.ResponseWriter, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logRequest(ctx, "error", "Request failed", zap.Error(err))
	} else {
		logRequest(ctx, "info", apperr.PublicMessage(err), zap.Int("status", status))
	}
	o.Message(w, status, apperr.PublicMessage(err))
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.Validation("Invalid JSON")
}

// pathID parses the named mux path variable as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid " + name)
	}
	return id, nil
}

// cachedBytes unwraps a cached response body.
func cachedBytes(v interface{}) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}

type requestIDKey struct{}

type routeKey struct{}

// routeDetails prefers the route stored by Instrument and falls back to the
// httpserver context.
func routeDetails(ctx context.Context) (name, method, path, client string) {
	rt, ok := ctx.Value(routeKey{}).(httpserver.Route)
	if !ok {
		name, method, path = httpserver.GetRouteName(ctx), httpserver.GetRouteMethod(ctx), httpserver.GetRoutePath(ctx)
		if ra := httpserver.GetRequestAuth(ctx); ra != nil {
			client = ra.Client
		}
		return name, method, path, client
	}
	if ident, err := auth.IdentityFromContext(ctx); err == nil {
		client = "user:" + strconv.FormatInt(ident.ID, 10)
	}
	return rt.Name, rt.Method, rt.Path, client
}

func withRoute(ctx context.Context, rt httpserver.Route) context.Context {
	return context.WithValue(ctx, routeKey{}, rt)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// Instrument tags the request with an id and its route, and records its
// latency by route.
func Instrument(rt httpserver.Route, next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		ctx = context.WithValue(withRoute(ctx, rt), requestIDKey{}, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(ctx, rec, r)
		metrics.ObserveRequest(rt.Name, rec.status, time.Since(start))
	}
}

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (auth.Identity, error)
}

// Authenticated rejects requests without a valid caller and hands the
// identity to next through the context.
func Authenticated(a Authenticator, out Responder, next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		ident, err := a.Authenticate(r)
		if err != nil {
			out.Error(ctx, w, err)
			return
		}
		next(auth.WithIdentity(ctx, ident), w, r)
	}
}
