package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/identity"
	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
	"github.com/weiawesome/room-lobby/pkg/log"
	"github.com/weiawesome/room-lobby/pkg/response"
)

// DefaultMaxSessions bounds the per-actor screens kept in memory.
const DefaultMaxSessions = 1024

// Handler handles HTTP requests for the lobby.
type Handler struct {
	lobby       service.LobbyService
	resolver    *identity.Resolver
	viewOpts    view.Options
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	sess     *service.Session
	lastSeen time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxSessions caps the number of actor screens. The least recently used
// one is dropped when a new actor arrives at the cap. n <= 0 keeps the default.
func WithMaxSessions(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxSessions = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a new HTTP handler. opts.Viewer is ignored; each
// request's acting identity is used instead.
func NewHandler(lobby service.LobbyService, resolver *identity.Resolver, opts view.Options, hopts ...Option) *Handler {
	h := &Handler{
		lobby:       lobby,
		resolver:    resolver,
		viewOpts:    opts,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}
	for _, opt := range hopts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/health", h.Health)

	pages := r.Group("/", identity.Middleware(h.resolver))
	{
		pages.GET("", h.Page)
		pages.POST("/rooms", h.CreatePage)
		pages.GET("/rooms/:id/edit", h.EditPage)
		pages.POST("/rooms/:id/edit", h.SavePage)
		pages.POST("/rooms/:id/cancel", h.CancelPage)
		pages.POST("/rooms/:id/delete", h.DeletePage)
		pages.POST("/rooms/:id/join", h.JoinPage)
	}

	api := r.Group("/api/v1", identity.Middleware(h.resolver))
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/:id", h.GetRoom)
			rooms.POST("", h.CreateRoom)
			rooms.PATCH("/:id", h.RenameRoom)
			rooms.DELETE("/:id", h.DeleteRoom)
			rooms.POST("/:id/join", h.JoinRoom)
		}
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// session returns the actor's screen, synced with storage.
func (h *Handler) session(ctx context.Context, actor string) *service.Session {
	h.mu.Lock()
	entry, ok := h.sessions[actor]
	if !ok {
		if len(h.sessions) >= h.maxSessions {
			h.evictOldest()
		}
		opts := h.viewOpts
		opts.Viewer = actor
		entry = &sessionEntry{sess: service.NewSession(h.lobby, opts)}
		h.sessions[actor] = entry
	}
	entry.lastSeen = h.now()
	sess := entry.sess
	h.mu.Unlock()

	if !ok {
		sess.Open(ctx)
	}
	if _, err := sess.Refresh(ctx); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("showing last known rooms")
	}
	return sess
}

// evictOldest drops the least recently used screen. Callers hold h.mu.
func (h *Handler) evictOldest() {
	var (
		oldest string
		seen   time.Time
		found  bool
	)
	for actor, e := range h.sessions {
		if !found || e.lastSeen.Before(seen) {
			oldest, seen, found = actor, e.lastSeen, true
		}
	}
	if found {
		delete(h.sessions, oldest)
	}
}

// Sessions returns the number of actor screens held.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ListRooms lists every room in creation order.
func (h *Handler) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()
	actor := identity.Actor(c)

	rooms := h.lobby.ListRooms(ctx)
	resp := domain.ListRoomsResponse{
		Rooms: make([]domain.RoomResponse, len(rooms)),
		Total: len(rooms),
	}
	for i := range rooms {
		resp.Rooms[i] = rooms[i].ToResponse(actor)
	}

	response.Success(c, resp)
}

// GetRoom retrieves a room by ID.
func (h *Handler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	roomID := c.Param("id")

	room, err := h.lobby.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get room")
		response.InternalError(c, "failed to get room")
		return
	}

	response.Success(c, room.ToResponse(identity.Actor(c)))
}

// CreateRoom creates a new room.
func (h *Handler) CreateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	actor := identity.Actor(c)

	var req domain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create room request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.lobby.CreateRoom(ctx, actor, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrEmptyName) {
			response.EmptyName(c, service.MsgEmptyName)
			return
		}
		l.Error().Err(err).Msg("failed to create room")
		response.InternalError(c, "failed to create room")
		return
	}

	response.Created(c, room.ToResponse(actor))
}

// RenameRoom renames a room the caller created.
func (h *Handler) RenameRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	actor := identity.Actor(c)
	roomID := c.Param("id")

	var req domain.RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind rename room request")
		response.BadRequest(c, err.Error())
		return
	}

	ok, err := h.lobby.RenameRoom(ctx, actor, roomID, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrEmptyName) {
			response.EmptyName(c, service.MsgEmptyName)
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to rename room")
		response.InternalError(c, "failed to rename room")
		return
	}
	if !ok {
		// Missing and not-yours look the same from here.
		response.NotFound(c, "room not found")
		return
	}

	h.GetRoom(c)
}

// DeleteRoom deletes a room the caller created. It needs ?confirm=true.
func (h *Handler) DeleteRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	roomID := c.Param("id")

	confirm := service.NeverConfirm
	if c.Query("confirm") == "true" {
		confirm = service.AlwaysConfirm
	}

	ok, err := h.lobby.DeleteRoom(ctx, identity.Actor(c), roomID, confirm)
	if err != nil {
		if errors.Is(err, service.ErrNotConfirmed) {
			response.PreconditionRequired(c, service.MsgConfirmDelete)
			return
		}
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to delete room")
		response.InternalError(c, "failed to delete room")
		return
	}
	if !ok {
		response.NotFound(c, "room not found")
		return
	}

	response.Success(c, gin.H{"message": "room deleted successfully"})
}

// JoinRoom returns the join notice for a room.
func (h *Handler) JoinRoom(c *gin.Context) {
	ctx := c.Request.Context()
	roomID := c.Param("id")

	msg, err := h.lobby.JoinRoom(ctx, identity.Actor(c), roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, "room not found")
			return
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to join room")
		response.InternalError(c, "failed to join room")
		return
	}

	response.Success(c, domain.JoinRoomResponse{RoomID: roomID, Message: msg})
}
