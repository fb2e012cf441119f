package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscilab/internal/config"
	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/report"
	"github.com/san-kum/oscilab/internal/session"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sess, err := session.New(oscillator.KindHarmonic, 50, nil)
	require.NoError(t, err)

	srv := New(sess, config.DefaultConfig(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSystems(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/systems")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	systems := decode[[]systemInfo](t, resp)
	require.Len(t, systems, 3)
	assert.Equal(t, oscillator.KindHarmonic, systems[0].Kind)
	assert.Len(t, systems[2].Sliders, 5)
}

func TestStateAndControl(t *testing.T) {
	srv, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	st := decode[State](t, resp)
	assert.False(t, st.Running)
	assert.InDelta(t, 2.0, st.Snapshot.Position, 1e-12)

	st = decode[State](t, post(t, ts.URL+"/api/control", controlRequest{Action: "start"}))
	assert.True(t, st.Running)

	srv.mu.Lock()
	srv.session.Tick(0.5)
	srv.mu.Unlock()

	st = decode[State](t, post(t, ts.URL+"/api/control", controlRequest{Action: "slow_motion"}))
	assert.True(t, st.SlowMotion)
	assert.InDelta(t, 0.5, st.Snapshot.Time, 1e-12)

	st = decode[State](t, post(t, ts.URL+"/api/control", controlRequest{Action: "reset"}))
	assert.False(t, st.Running)
	assert.Zero(t, st.Snapshot.Time)

	resp = post(t, ts.URL+"/api/control", controlRequest{Action: "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSwitchSystem(t *testing.T) {
	_, ts := newTestServer(t)

	st := decode[State](t, post(t, ts.URL+"/api/system", systemRequest{System: "compound"}))
	assert.Equal(t, oscillator.KindCompoundPendulum, st.System)

	resp := post(t, ts.URL+"/api/system", systemRequest{System: "lorenz"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "lorenz")
}

func TestSetParams(t *testing.T) {
	_, ts := newTestServer(t)

	value := 3.0
	st := decode[State](t, post(t, ts.URL+"/api/params", paramRequest{Key: "amplitude", Value: &value}))
	assert.InDelta(t, 3.0, st.Snapshot.Position, 1e-12)
	assert.Equal(t, 3.0, st.Parameters.Value("amplitude"))

	resp := post(t, ts.URL+"/api/params", paramRequest{Key: "length", Value: &value})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/params", paramRequest{Key: "mass"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	r, err := http.Post(ts.URL+"/api/params", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer r.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestParamsOutsideSliderRejected(t *testing.T) {
	srv, ts := newTestServer(t)

	for _, req := range []paramRequest{
		{Key: "mass", Value: ptr(-5.0)},
		{Key: "mass", Value: ptr(0.0)},
		{Key: "amplitude", Value: ptr(1e9)},
	} {
		resp := post(t, ts.URL+"/api/params", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, req.Key)
		body := decode[map[string]string](t, resp)
		assert.Contains(t, body["error"], "out of range")
	}

	srv.mu.Lock()
	assert.Equal(t, 1.0, srv.session.Active().Parameters().Value(oscillator.KeyMass))
	srv.mu.Unlock()

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func ptr(v float64) *float64 { return &v }

func TestReportAndSeries(t *testing.T) {
	srv, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	rep := decode[report.Report](t, resp)
	assert.Len(t, rep.Sections, 5)

	srv.mu.Lock()
	srv.session.Start()
	srv.session.Tick(0.1)
	srv.session.Tick(0.1)
	srv.mu.Unlock()

	resp2, err := http.Get(ts.URL + "/api/series")
	require.NoError(t, err)
	defer resp2.Body.Close()
	samples := decode[[]oscillator.Snapshot](t, resp2)
	assert.Len(t, samples, 2)
}

func TestNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.NotEmpty(t, body["error"])
}

func TestWebSocketStream(t *testing.T) {
	_, ts := newTestServer(t)

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		var st State
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&st))
		assert.Equal(t, oscillator.KindHarmonic, st.System)
	}
}

func TestServeAdvancesAndStops(t *testing.T) {
	sess, err := session.New(oscillator.KindSimplePendulum, 50, nil)
	require.NoError(t, err)
	sess.Start()
	srv := New(sess, config.DefaultConfig(), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	assert.Eventually(t, func() bool {
		return srv.state().Snapshot.Time > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
