package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/identity"
	"github.com/weiawesome/room-lobby/internal/kv"
	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
	"github.com/weiawesome/room-lobby/pkg/response"
)

const me = identity.DefaultUser

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

type fixture struct {
	router     *gin.Engine
	handler    *Handler
	lobby      service.LobbyService
	mem        *kv.MemoryStore
	tokens     *identity.Manager
	otherToken string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	mem := kv.NewMemoryStore()
	rooms := store.New(mem)
	require.NoError(t, rooms.Load(context.Background()))
	lobby := service.NewLobbyService(rooms)

	tokens, err := identity.NewManager("test-secret", time.Hour, "room-lobby")
	require.NoError(t, err)
	otherToken, err := tokens.Issue("other-user")
	require.NoError(t, err)

	router := gin.New()
	h := NewHandler(lobby, identity.NewResolver(me, tokens), view.Options{Location: time.UTC}, opts...)
	h.RegisterRoutes(router)

	return &fixture{router: router, handler: h, lobby: lobby, mem: mem, tokens: tokens, otherToken: otherToken}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) api(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(identity.AuthHeaderKey, identity.BearerPrefix+token)
	}
	w := f.do(t, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (f *fixture) form(t *testing.T, path string, values url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set(identity.AuthHeaderKey, identity.BearerPrefix+token)
	}
	return f.do(t, req)
}

func (f *fixture) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(identity.AuthHeaderKey, identity.BearerPrefix+token)
	}
	return f.do(t, req)
}

func (f *fixture) seed(t *testing.T, actor, name string) *domain.Room {
	t.Helper()
	room, err := f.lobby.CreateRoom(context.Background(), actor, name)
	require.NoError(t, err)
	return room
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPICreateAndList(t *testing.T) {
	f := newFixture(t)

	w, env := f.api(t, http.MethodPost, "/api/v1/rooms", `{"name":"General"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.RoomResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "General", created.Name)
	assert.Equal(t, me, created.Creator)
	assert.True(t, created.CanEdit)

	w, env = f.api(t, http.MethodGet, "/api/v1/rooms", "", f.otherToken)
	require.Equal(t, http.StatusOK, w.Code)
	var list domain.ListRoomsResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Total)
	assert.False(t, list.Rooms[0].CanEdit, "other viewers cannot edit")

	w, env = f.api(t, http.MethodGet, "/api/v1/rooms/"+created.ID, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestAPIErrors(t *testing.T) {
	f := newFixture(t)
	room := f.seed(t, me, "General")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		status int
		code   string
	}{
		{"empty create", http.MethodPost, "/api/v1/rooms", `{"name":"  "}`, "", http.StatusUnprocessableEntity, "EMPTY_NAME"},
		{"malformed create", http.MethodPost, "/api/v1/rooms", `{`, "", http.StatusBadRequest, "BAD_REQUEST"},
		{"missing room", http.MethodGet, "/api/v1/rooms/missing", "", "", http.StatusNotFound, "NOT_FOUND"},
		{"rename by non creator", http.MethodPatch, "/api/v1/rooms/" + room.ID, `{"name":"x"}`, f.otherToken, http.StatusNotFound, "NOT_FOUND"},
		{"rename to empty", http.MethodPatch, "/api/v1/rooms/" + room.ID, `{"name":""}`, "", http.StatusUnprocessableEntity, "EMPTY_NAME"},
		{"delete unconfirmed", http.MethodDelete, "/api/v1/rooms/" + room.ID, "", "", http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED"},
		{"delete by non creator", http.MethodDelete, "/api/v1/rooms/" + room.ID + "?confirm=true", "", f.otherToken, http.StatusNotFound, "NOT_FOUND"},
		{"join missing", http.MethodPost, "/api/v1/rooms/missing/join", "", "", http.StatusNotFound, "NOT_FOUND"},
		{"bad token", http.MethodGet, "/api/v1/rooms", "", "not-a-token", http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := f.api(t, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}

	got, err := f.lobby.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "General", got.Name)
}

func TestAPIRenameDeleteJoin(t *testing.T) {
	f := newFixture(t)
	room := f.seed(t, me, "General")

	w, env := f.api(t, http.MethodPatch, "/api/v1/rooms/"+room.ID, `{"name":"Renamed"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var renamed domain.RoomResponse
	require.NoError(t, json.Unmarshal(env.Data, &renamed))
	assert.Equal(t, "Renamed", renamed.Name)

	w, env = f.api(t, http.MethodPost, "/api/v1/rooms/"+room.ID+"/join", "", f.otherToken)
	require.Equal(t, http.StatusOK, w.Code)
	var joined domain.JoinRoomResponse
	require.NoError(t, json.Unmarshal(env.Data, &joined))
	assert.Equal(t, service.JoinNotice("Renamed"), joined.Message)

	w, _ = f.api(t, http.MethodDelete, "/api/v1/rooms/"+room.ID+"?confirm=true", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.lobby.ListRooms(context.Background()))
}

func TestPageEmpty(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), view.Placeholder)
}

func TestPageCreate(t *testing.T) {
	f := newFixture(t)

	w := f.form(t, "/rooms", url.Values{"name": {"   "}}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgEmptyName)
	assert.Empty(t, f.lobby.ListRooms(context.Background()))

	w = f.form(t, "/rooms", url.Values{"name": {"General"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	body := f.get(t, "/", "").Body.String()
	assert.Contains(t, body, "General")
	assert.NotContains(t, body, view.Placeholder)
	assert.Contains(t, body, "/edit\">Edit</a>")
}

func TestPageOtherViewerSeesNoControls(t *testing.T) {
	f := newFixture(t)
	room := f.seed(t, me, "General")

	body := f.get(t, "/", f.otherToken).Body.String()
	assert.Contains(t, body, "General")
	assert.Contains(t, body, "/join")
	assert.NotContains(t, body, ">Edit</a>")
	assert.NotContains(t, body, ">Delete</button>")

	w := f.get(t, "/rooms/"+room.ID+"/edit", f.otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPageEditFlow(t *testing.T) {
	f := newFixture(t)
	room := f.seed(t, me, "General")
	path := "/rooms/" + room.ID

	w := f.get(t, path+"/edit", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="name" value="General"`)

	w = f.form(t, path+"/edit", url.Values{"name": {""}}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgEmptyName)

	w = f.form(t, path+"/cancel", nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotContains(t, f.get(t, "/", "").Body.String(), "Save</button>")

	f.get(t, path+"/edit", "")
	w = f.form(t, path+"/edit", url.Values{"name": {"Renamed"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	got, err := f.lobby.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestPageDeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	room := f.seed(t, me, "General")
	path := "/rooms/" + room.ID + "/delete"

	w := f.form(t, path, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgConfirmDelete)
	assert.Len(t, f.lobby.ListRooms(context.Background()), 1)

	w = f.form(t, path, url.Values{"confirm": {"no"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Len(t, f.lobby.ListRooms(context.Background()), 1)

	w = f.form(t, path, url.Values{"confirm": {"yes"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, f.lobby.ListRooms(context.Background()))
	assert.Contains(t, f.get(t, "/", "").Body.String(), view.Placeholder)
}

func TestPageJoin(t *testing.T) {
	f := newFixture(t)
	room := f.seed(t, "other-user", "General")

	w := f.form(t, "/rooms/"+room.ID+"/join", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This would navigate to the room view in a real implementation.")

	w = f.form(t, "/rooms/missing/join", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "Joining room")
}

func TestPageShowsRoomsWrittenByAnotherProcess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	assert.Contains(t, f.get(t, "/", "").Body.String(), view.Placeholder)

	cliRooms := store.New(f.mem)
	require.NoError(t, cliRooms.Load(ctx))
	_, err := service.NewLobbyService(cliRooms).CreateRoom(ctx, me, "From CLI")
	require.NoError(t, err)

	body := f.get(t, "/", "").Body.String()
	assert.Contains(t, body, "From CLI")
	assert.NotContains(t, body, view.Placeholder)

	w := f.form(t, "/rooms", url.Values{"name": {"From server"}}, "")
	require.Equal(t, http.StatusSeeOther, w.Code)

	raw, err := f.mem.Get(ctx, store.DefaultKey)
	require.NoError(t, err)
	stored, err := domain.DecodeRooms(raw)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "From CLI", stored[0].Name)
	assert.Equal(t, "From server", stored[1].Name)
}

func TestSessionsAreCapped(t *testing.T) {
	tick := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	f := newFixture(t, WithMaxSessions(2), WithClock(clock))
	room := f.seed(t, me, "General")

	thirdToken, err := f.tokens.Issue("third-user")
	require.NoError(t, err)

	w := f.get(t, "/rooms/"+room.ID+"/edit", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Save</button>")

	f.get(t, "/", f.otherToken)
	assert.Equal(t, 2, f.handler.Sessions())

	f.get(t, "/", thirdToken)
	assert.Equal(t, 2, f.handler.Sessions())

	// The oldest screen, with its open form, was dropped.
	assert.NotContains(t, f.get(t, "/", "").Body.String(), "Save</button>")
	assert.Equal(t, 2, f.handler.Sessions())
}

func TestWithMaxSessionsIgnoresNonPositive(t *testing.T) {
	f := newFixture(t, WithMaxSessions(0))
	assert.Equal(t, DefaultMaxSessions, f.handler.maxSessions)
}
