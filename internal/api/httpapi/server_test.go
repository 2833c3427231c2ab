package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19radio/internal/app/notification"
	"github.com/osa030/19radio/internal/app/playback"
	"github.com/osa030/19radio/internal/app/radio"
	"github.com/osa030/19radio/internal/infra/audio"
	"github.com/osa030/19radio/internal/infra/catalog"
)

const stationList = `[
	{"name": "Dubstep Beyond", "url": "https://ice5.somafm.com/dubstep-128-mp3"},
	{"name": "Radio Paradise", "url": "http://stream.radioparadise.com/aac-128"}
]`

type testEnv struct {
	server *httptest.Server
	sink   *audio.LogSink
}

// newTestEnv wires a real loop, catalog client and notification manager behind
// the API server.
func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()

	listServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, stationList)
	}))
	t.Cleanup(listServer.Close)

	client, err := catalog.New(context.Background(), catalog.Config{URL: listServer.URL})
	require.NoError(t, err)

	sink := audio.NewLogSink()
	app := radio.New(playback.NewController(sink, playback.Options{}), radio.NewLoader(client), nil)
	notifier := notification.NewManager()
	requests := make(chan radio.Request)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = app.Run(ctx, requests, notifier, 5*time.Millisecond)
	}()

	server := httptest.NewServer(NewServer(requests, notifier, token).Handler())
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
	})

	env := &testEnv{server: server, sink: sink}
	require.Eventually(t, func() bool {
		s, status := env.do(t, http.MethodGet, "/api/state", "", token)
		return status == http.StatusOK && len(s.Stations) == 2
	}, 2*time.Second, 10*time.Millisecond)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) (radio.Snapshot, int) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var s radio.Snapshot
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	}
	return s, resp.StatusCode
}

func TestServer_PlaybackFlow(t *testing.T) {
	env := newTestEnv(t, "")

	s, status := env.do(t, http.MethodGet, "/api/state", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Dubstep Beyond", s.Stations[0].Name)
	assert.Equal(t, -1, s.Selected)

	s, status = env.do(t, http.MethodPost, "/api/select", `{"index": 1}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, s.Selected)
	assert.False(t, s.Playing)

	s, status = env.do(t, http.MethodPost, "/api/toggle", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, s.Playing)
	assert.Equal(t, "Radio Paradise", s.StationName)
	assert.True(t, env.sink.Playing())

	s, status = env.do(t, http.MethodPost, "/api/stop", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.False(t, s.Playing)
	assert.Equal(t, 1, s.Selected)
	assert.False(t, env.sink.Playing())

	s, status = env.do(t, http.MethodPost, "/api/volume", `{"volume": 15}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 15, s.Volume)
	assert.Equal(t, "low", s.VolumeLevel)

	s, status = env.do(t, http.MethodPost, "/api/mute", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, s.Volume)

	s, status = env.do(t, http.MethodPost, "/api/search", `{"query": "paradise"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.False(t, s.Stations[0].Match)
	assert.True(t, s.Stations[1].Match)

	s, status = env.do(t, http.MethodPost, "/api/retry", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, s.Loading)
}

func TestServer_SelectOutOfRangeIsIgnored(t *testing.T) {
	env := newTestEnv(t, "")

	_, status := env.do(t, http.MethodPost, "/api/select", `{"index": 0}`, "")
	require.Equal(t, http.StatusOK, status)

	s, status := env.do(t, http.MethodPost, "/api/select", `{"index": 5}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, s.Selected)
}

func TestServer_BadRequests(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "select without index", method: http.MethodPost, path: "/api/select", body: `{}`, status: http.StatusBadRequest},
		{name: "select with invalid json", method: http.MethodPost, path: "/api/select", body: `{"index":`, status: http.StatusBadRequest},
		{name: "select with string index", method: http.MethodPost, path: "/api/select", body: `{"index": "1"}`, status: http.StatusBadRequest},
		{name: "volume without value", method: http.MethodPost, path: "/api/volume", body: ``, status: http.StatusBadRequest},
		{name: "toggle with GET", method: http.MethodGet, path: "/api/toggle", status: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/api/unknown", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, status := env.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestServer_Token(t *testing.T) {
	env := newTestEnv(t, "secret")

	_, status := env.do(t, http.MethodGet, "/api/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	_, status = env.do(t, http.MethodGet, "/api/state", "", "wrong")
	assert.Equal(t, http.StatusUnauthorized, status)

	_, status = env.do(t, http.MethodGet, "/api/state", "", "secret")
	assert.Equal(t, http.StatusOK, status)

	resp, err := http.Get(env.server.URL + "/api/state?token=secret")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Events(t *testing.T) {
	env := newTestEnv(t, "")

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The latest snapshot is sent on subscribe
	var s radio.Snapshot
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&s))
	assert.Len(t, s.Stations, 2)
	first := s.Sequence

	_, status := env.do(t, http.MethodPost, "/api/select", `{"index": 0}`, "")
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, conn.ReadJSON(&s))
	assert.Equal(t, 0, s.Selected)
	assert.Greater(t, s.Sequence, first)
}

func TestDecodeBody_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(nil))
	var body SearchRequest
	assert.NoError(t, decodeBody(req, &body))
	assert.Empty(t, body.Query)
}
