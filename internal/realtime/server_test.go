package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestServerRoundTrip(t *testing.T) {
	hub := NewHub()
	conn := dial(t, NewServer(newDispatcher(), hub, ServerConfig{}))

	require.NoError(t, conn.WriteJSON(request(t, EventCalculateDistance, DistanceRequest{PackageID: "p1", Destination: "Sydney"})))
	reply := readEnvelope(t, conn)
	assert.Equal(t, EventDistanceResult, reply.Event)
	assert.Equal(t, 878.0, decode[DistanceResult](t, reply).Distance)

	require.NoError(t, conn.WriteJSON(request(t, EventTranslateRequest, TranslateRequest{Description: "box", TargetLanguage: "de"})))
	reply = readEnvelope(t, conn)
	assert.Equal(t, EventTranslationResult, reply.Event)
	assert.Equal(t, "de:box", decode[TranslationResult](t, reply).Translation)

	assert.Equal(t, 1, hub.Len())
}

func TestServerRepliesToMalformedFrames(t *testing.T) {
	conn := dial(t, NewServer(newDispatcher(), NewHub(), ServerConfig{}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	reply := readEnvelope(t, conn)
	assert.Equal(t, EventError, reply.Event)
}

func TestServerRateLimits(t *testing.T) {
	conn := dial(t, NewServer(newDispatcher(), NewHub(), ServerConfig{Rate: 0.001, Burst: 1}))

	req := request(t, EventCalculateDistance, DistanceRequest{PackageID: "p1", Destination: "Sydney"})
	require.NoError(t, conn.WriteJSON(req))
	require.NoError(t, conn.WriteJSON(req))

	var distances []float64
	for i := 0; i < 2; i++ {
		distances = append(distances, decode[DistanceResult](t, readEnvelope(t, conn)).Distance)
	}
	assert.ElementsMatch(t, []float64{878, DistanceUnavailable}, distances)
}

func TestHubCloseAll(t *testing.T) {
	hub := NewHub()
	conn := dial(t, NewServer(newDispatcher(), hub, ServerConfig{}))

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)
	hub.CloseAll()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCheckOrigin(t *testing.T) {
	s := NewServer(&Dispatcher{}, NewHub(), ServerConfig{AllowedOrigins: []string{"http://localhost:4200"}})

	r := httptest.NewRequest("GET", "/realtime", nil)
	assert.True(t, s.checkOrigin(r))

	r.Header.Set("Origin", "http://localhost:4200")
	assert.True(t, s.checkOrigin(r))

	r.Header.Set("Origin", "http://evil.example")
	assert.False(t, s.checkOrigin(r))
}

// stallingEstimator blocks on "Slowtown" until ctx is done and answers 878 otherwise.
type stallingEstimator struct{}

func (stallingEstimator) EstimateDistance(ctx context.Context, origin, destination string) (float64, error) {
	if destination == "Slowtown" {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return 878, nil
}

func TestServerCapsInflightExchanges(t *testing.T) {
	d := &Dispatcher{Distance: stallingEstimator{}, Timeout: 200 * time.Millisecond}
	conn := dial(t, NewServer(d, NewHub(), ServerConfig{MaxInflight: 1}))

	require.NoError(t, conn.WriteJSON(request(t, EventCalculateDistance, DistanceRequest{PackageID: "p1", Destination: "Slowtown"})))
	require.NoError(t, conn.WriteJSON(request(t, EventCalculateDistance, DistanceRequest{PackageID: "p2", Destination: "Sydney"})))

	rejected := decode[DistanceResult](t, readEnvelope(t, conn))
	assert.Equal(t, "p2", rejected.PackageID)
	assert.Equal(t, DistanceUnavailable, rejected.Distance)

	timedOut := decode[DistanceResult](t, readEnvelope(t, conn))
	assert.Equal(t, "p1", timedOut.PackageID)
	assert.Equal(t, DistanceUnavailable, timedOut.Distance)

	// The slot is released right after the stalled reply is queued.
	var km float64
	for i := 0; i < 20 && km != 878; i++ {
		require.NoError(t, conn.WriteJSON(request(t, EventCalculateDistance, DistanceRequest{PackageID: "p3", Destination: "Sydney"})))
		km = decode[DistanceResult](t, readEnvelope(t, conn)).Distance
		if km != 878 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	assert.Equal(t, 878.0, km)
}
