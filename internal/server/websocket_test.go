package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raincor5/kitchen-system/internal/pipeline"
	"github.com/Raincor5/kitchen-system/internal/testutil"
)

func dialWS(t *testing.T, server *Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(server.httpServer.Handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/process"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestProcessWebSocket_StreamsDetections(t *testing.T) {
	result := pipeline.Result{
		Text: "Chicken Soup",
		AllResults: []pipeline.DetectionRecord{
			{DetectionID: "run_0", Text: "Chicken Soup", Confidence: 0.9},
			{DetectionID: "run_1", Text: "Beef", Confidence: 0.5},
		},
	}
	conn := dialWS(t, newTestServer(t, result))

	img := testutil.CreateLabelImage(120, 80, []string{"Chicken Soup"})
	data, err := testutil.EncodePNG(img)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))

	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "detection", msg.Type)
	require.NotNil(t, msg.Label)
	assert.Equal(t, "run_0", msg.Label.LabelID)
	assert.Equal(t, "Chicken Soup", msg.Label.Parsed.ProductName)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "detection", msg.Type)
	require.NotNil(t, msg.Label)
	assert.Equal(t, "run_1", msg.Label.LabelID)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "summary", msg.Type)
	assert.Equal(t, "Chicken Soup", msg.Text)
	assert.Equal(t, 2, msg.Count)
	assert.Empty(t, msg.Error)
}

func TestProcessWebSocket_InvalidImage(t *testing.T) {
	conn := dialWS(t, newTestServer(t, pipeline.Result{}))

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("garbage")))

	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "summary", msg.Type)
	assert.Equal(t, "invalid image", msg.Error)
}

func TestProcessWebSocket_TextMessageRejected(t *testing.T) {
	conn := dialWS(t, newTestServer(t, pipeline.Result{}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))

	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "summary", msg.Type)
	assert.Contains(t, msg.Error, "binary image")
}

func TestMetricsEndpointRegistered(t *testing.T) {
	server := newTestServer(t, pipeline.Result{})
	srv := httptest.NewServer(server.httpServer.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
