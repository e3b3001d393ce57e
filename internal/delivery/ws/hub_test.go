package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/logging"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (string, *models.User, error) {
	return "", nil, nil
}

func (stubAuth) Register(context.Context, string, string, string) (*models.User, error) {
	return nil, nil
}

func (stubAuth) ValidateToken(_ context.Context, token string) (*ports.Claims, error) {
	userID, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return nil, assert.AnError
	}
	return &ports.Claims{UserID: userID, Role: models.RoleReader}, nil
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"connected"}`, string(msg))
	return conn
}

func TestHub_PushReachesEveryConnectionOfUser(t *testing.T) {
	hub := NewHub(logging.Nop())
	srv := httptest.NewServer(WSHandler(hub, stubAuth{}, logging.Nop()))
	defer srv.Close()

	a1 := dial(t, srv, "tok-u1")
	a2 := dial(t, srv, "tok-u1")
	other := dial(t, srv, "tok-u2")
	require.Equal(t, 2, hub.Count(UserRoom("u1")))

	hub.PushToUser("u1", []byte(`{"type":"notification"}`))

	for _, c := range []*websocket.Conn{a1, a2} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"notification"}`, string(msg))
	}

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "other users get nothing")
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(logging.Nop())
	srv := httptest.NewServer(WSHandler(hub, stubAuth{}, logging.Nop()))
	defer srv.Close()

	conn := dial(t, srv, "tok-u1")
	require.Equal(t, 1, hub.Count(UserRoom("u1")))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.Count(UserRoom("u1")) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// pushing to an empty room is a no-op
	hub.PushToUser("u1", []byte("x"))
}

func TestWSHandler_RejectsBadToken(t *testing.T) {
	hub := NewHub(logging.Nop())
	srv := httptest.NewServer(WSHandler(hub, stubAuth{}, logging.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_StalledClientDoesNotBlockPush(t *testing.T) {
	hub := NewHub(logging.Nop())
	srv := httptest.NewServer(WSHandler(hub, stubAuth{}, logging.Nop()))
	defer srv.Close()

	// never reads past the greeting, so socket buffers fill up
	_ = dial(t, srv, "tok-slow")
	fast := dial(t, srv, "tok-fast")

	payload := []byte(`"` + strings.Repeat("x", 256<<10) + `"`)
	start := time.Now()
	for i := 0; i < 4*sendBuffer; i++ {
		hub.PushToUser("slow", payload)
	}
	assert.Less(t, time.Since(start), time.Second, "push must not wait on the socket")

	require.Eventually(t, func() bool {
		return hub.Count(UserRoom("slow")) == 0
	}, 5*time.Second, 10*time.Millisecond, "stalled connection is dropped")

	hub.PushToUser("fast", []byte(`{"type":"notification"}`))
	require.NoError(t, fast.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := fast.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"notification"}`, string(msg))
}

func TestHub_SendAfterUnregister(t *testing.T) {
	hub := NewHub(logging.Nop())
	srv := httptest.NewServer(WSHandler(hub, stubAuth{}, logging.Nop()))
	defer srv.Close()

	_ = dial(t, srv, "tok-u1")
	require.Eventually(t, func() bool { return hub.Count(UserRoom("u1")) == 1 }, time.Second, 5*time.Millisecond)

	var c *Client
	hub.mu.RLock()
	for k := range hub.rooms[UserRoom("u1")] {
		c = k
	}
	hub.mu.RUnlock()
	require.NotNil(t, c)

	hub.Unregister(UserRoom("u1"), c)
	hub.Unregister(UserRoom("u1"), c)
	assert.False(t, hub.Send(c, []byte("x")))
	assert.Equal(t, 0, hub.Count(UserRoom("u1")))
}
