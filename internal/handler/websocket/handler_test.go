package websocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/internal/domain"
	wshandler "catalog-admin/internal/handler/websocket"
	"catalog-admin/internal/hub"
)

func newServer(t *testing.T, origins []string) (*httptest.Server, *hub.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := hub.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	r := gin.New()
	r.GET("/ws/posts", wshandler.NewWebSocketHandler(h, origins).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, h
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/posts"
}

func TestHandleConnection_ReceivesRevalidate(t *testing.T) {
	srv, h := newServer(t, nil)

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, h.Invalidate(context.Background(), domain.NewChangeEvent(domain.PostCreated, 11)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg hub.RevalidateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "revalidate", msg.Type)
	assert.Equal(t, domain.PostCreated, msg.Kind)
	assert.Equal(t, uint(11), msg.PostID)
}

func TestHandleConnection_ClientCloseUnregisters(t *testing.T) {
	srv, h := newServer(t, nil)

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandleConnection_RejectsUnknownOrigin(t *testing.T) {
	srv, h := newServer(t, []string{"https://admin.example.com"})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://admin.example.com")
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv), header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandleConnection_PlainHTTPIsRejected(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp, err := http.Get(srv.URL + "/ws/posts")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
