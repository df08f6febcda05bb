package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/identity"
	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
	"github.com/weiawesome/room-lobby/pkg/log"
)

type confirmPrompt struct {
	RoomID  string
	Message string
}

type pageData struct {
	Viewer      string
	Cards       []view.Card
	Placeholder string
	Alerts      []string
	Confirm     *confirmPrompt
}

func (h *Handler) render(c *gin.Context, status int, sess *service.Session, alerts []string, confirm *confirmPrompt) {
	snap := sess.Snapshot()
	c.HTML(status, lobbyPageName, pageData{
		Viewer:      snap.Viewer,
		Cards:       snap.Cards,
		Placeholder: snap.Placeholder,
		Alerts:      alerts,
		Confirm:     confirm,
	})
}

func backToLobby(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// pageError renders the lobby with a failure status. Not-found and
// not-permitted show no notice.
func (h *Handler) pageError(c *gin.Context, sess *service.Session, err error) {
	l := log.Ctx(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		h.render(c, http.StatusNotFound, sess, nil, nil)
	case errors.Is(err, view.ErrNotPermitted):
		h.render(c, http.StatusForbidden, sess, nil, nil)
	case errors.Is(err, view.ErrInvalidTransition):
		h.render(c, http.StatusConflict, sess, nil, nil)
	default:
		l.Error().Err(err).Msg("lobby action failed")
		h.render(c, http.StatusInternalServerError, sess, []string{"Something went wrong. Please try again."}, nil)
	}
}

// Page renders the lobby.
func (h *Handler) Page(c *gin.Context) {
	sess := h.session(c.Request.Context(), identity.Actor(c))
	h.render(c, http.StatusOK, sess, nil, nil)
}

// CreatePage creates a room from the form.
func (h *Handler) CreatePage(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.session(ctx, identity.Actor(c))

	var req domain.CreateRoomRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("failed to bind create room form")
	}

	rec := &service.Recorder{}
	if _, err := sess.Create(ctx, req.Name, rec); err != nil {
		if errors.Is(err, store.ErrEmptyName) {
			h.render(c, http.StatusUnprocessableEntity, sess, rec.Alerts, nil)
			return
		}
		h.pageError(c, sess, err)
		return
	}

	backToLobby(c)
}

// EditPage opens the edit form on a card.
func (h *Handler) EditPage(c *gin.Context) {
	sess := h.session(c.Request.Context(), identity.Actor(c))

	if err := sess.Edit(c.Param("id")); err != nil && !errors.Is(err, view.ErrInvalidTransition) {
		h.pageError(c, sess, err)
		return
	}

	h.render(c, http.StatusOK, sess, nil, nil)
}

// SavePage submits the edit form.
func (h *Handler) SavePage(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.session(ctx, identity.Actor(c))
	roomID := c.Param("id")

	var req domain.RenameRoomRequest
	if err := c.ShouldBind(&req); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("failed to bind rename room form")
	}

	// The form may outlive the session that opened it.
	if err := sess.Edit(roomID); err != nil && !errors.Is(err, view.ErrInvalidTransition) {
		h.pageError(c, sess, err)
		return
	}

	rec := &service.Recorder{}
	if _, err := sess.Save(ctx, roomID, req.Name, rec); err != nil {
		if errors.Is(err, store.ErrEmptyName) {
			h.render(c, http.StatusUnprocessableEntity, sess, rec.Alerts, nil)
			return
		}
		h.pageError(c, sess, err)
		return
	}

	backToLobby(c)
}

// CancelPage closes the edit form.
func (h *Handler) CancelPage(c *gin.Context) {
	sess := h.session(c.Request.Context(), identity.Actor(c))

	if err := sess.Cancel(c.Param("id")); err != nil && !errors.Is(err, view.ErrInvalidTransition) {
		h.pageError(c, sess, err)
		return
	}

	backToLobby(c)
}

// DeletePage deletes a room once the form carries confirm=yes. Without an
// answer it shows the confirmation prompt; confirm=no goes back unchanged.
func (h *Handler) DeletePage(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.session(ctx, identity.Actor(c))
	roomID := c.Param("id")
	answer := c.PostForm("confirm")

	rec := &service.Recorder{Answer: answer == "yes"}
	if _, err := sess.Delete(ctx, roomID, rec); err != nil {
		if errors.Is(err, service.ErrNotConfirmed) {
			if answer == "no" {
				backToLobby(c)
				return
			}
			h.render(c, http.StatusOK, sess, nil, &confirmPrompt{RoomID: roomID, Message: rec.Asked[0]})
			return
		}
		h.pageError(c, sess, err)
		return
	}

	backToLobby(c)
}

// JoinPage shows the join notice.
func (h *Handler) JoinPage(c *gin.Context) {
	ctx := c.Request.Context()
	sess := h.session(ctx, identity.Actor(c))

	rec := &service.Recorder{}
	if _, err := sess.Join(ctx, c.Param("id"), rec); err != nil {
		h.pageError(c, sess, err)
		return
	}

	h.render(c, http.StatusOK, sess, rec.Alerts, nil)
}
