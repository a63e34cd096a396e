package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/service"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const spaceListKey = "spaces:list"

func spaceKey(id int64) string { return "space:" + strconv.FormatInt(id, 10) }

// SpaceHandler serves listings. Unfiltered lists and single spaces are cached
// as rendered JSON until a write invalidates them.
type SpaceHandler struct {
	spaces  *service.SpaceService
	cache   cache.Cache
	listTTL time.Duration
	itemTTL time.Duration
	out     Responder
}

func NewSpaceHandler(spaces *service.SpaceService, c cache.Cache, listTTL, itemTTL time.Duration, out Responder) *SpaceHandler {
	return &SpaceHandler{spaces: spaces, cache: c, listTTL: listTTL, itemTTL: itemTTL, out: out}
}

// GetSpaces handles GET /spaces?search=&location=&category=
func (h *SpaceHandler) GetSpaces(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.SpaceFilter{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		Category: q.Get("category"),
	}

	if filter.IsZero() && h.serveCached(ctx, w, spaceListKey) {
		return
	}

	list, err := h.spaces.List(ctx, filter)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	body, err := h.out.encode(list)
	if err != nil {
		h.out.JSON(ctx, w, http.StatusOK, list)
		return
	}
	if filter.IsZero() {
		h.store(ctx, spaceListKey, body, h.listTTL)
	}

	logRequest(ctx, "info", "Spaces retrieved", zap.Int("count", len(list)))
	writeBody(w, http.StatusOK, body)
}

// GetSpace handles GET /spaces/{id}
func (h *SpaceHandler) GetSpace(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if h.serveCached(ctx, w, spaceKey(id)) {
		return
	}

	space, err := h.spaces.Get(ctx, id)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	body, err := h.out.encode(space)
	if err != nil {
		h.out.JSON(ctx, w, http.StatusOK, space)
		return
	}
	h.store(ctx, spaceKey(id), body, h.itemTTL)
	writeBody(w, http.StatusOK, body)
}

// CreateSpace handles POST /spaces (admin)
func (h *SpaceHandler) CreateSpace(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	var req models.SpaceRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	space, err := h.spaces.Create(ctx, actor, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	h.invalidate(space.ID)
	logRequest(ctx, "info", "Space created", zap.Int64("space_id", space.ID))
	h.out.JSON(ctx, w, http.StatusCreated, space)
}

// UpdateSpace handles PUT /spaces/{id} (admin)
func (h *SpaceHandler) UpdateSpace(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	var req models.SpaceRequest
	if err := decode(r, &req); err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	space, err := h.spaces.Update(ctx, actor, id, req)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	h.invalidate(id)
	logRequest(ctx, "info", "Space updated", zap.Int64("space_id", id))
	h.out.JSON(ctx, w, http.StatusOK, space)
}

// DeleteSpace handles DELETE /spaces/{id} (admin)
func (h *SpaceHandler) DeleteSpace(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	actor, err := auth.IdentityFromContext(ctx)
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.out.Error(ctx, w, err)
		return
	}
	if err := h.spaces.Delete(ctx, actor, id); err != nil {
		h.out.Error(ctx, w, err)
		return
	}

	h.invalidate(id)
	logRequest(ctx, "info", "Space removed", zap.Int64("space_id", id))
	h.out.Message(w, http.StatusOK, "Space removed")
}

func (h *SpaceHandler) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	if h.cache == nil {
		return false
	}
	cached, err := h.cache.Get(key)
	if err != nil {
		return false
	}
	body, ok := cachedBytes(cached)
	if !ok {
		return false
	}
	logRequest(ctx, "debug", "Serving from cache", zap.String("key", key))
	writeBody(w, http.StatusOK, body)
	return true
}

func (h *SpaceHandler) store(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	h.cache.Set(key, body, ttl)
	logRequest(ctx, "debug", "Cached response", zap.String("key", key))
}

// ForgetHost drops the cached bodies that embed a user's host summary.
func (h *SpaceHandler) ForgetHost(ctx context.Context, hostID int64) {
	if h.cache == nil {
		return
	}
	ids, err := h.spaces.HostedBy(ctx, hostID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list hosted spaces", zap.Error(err), zap.Int64("host_id", hostID))
	}
	h.cache.Delete(spaceListKey)
	for _, id := range ids {
		h.cache.Delete(spaceKey(id))
	}
}

func (h *SpaceHandler) invalidate(id int64) {
	if h.cache == nil {
		return
	}
	h.cache.Delete(spaceListKey)
	h.cache.Delete(spaceKey(id))
}
