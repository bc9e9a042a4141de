package realtime

import (
	"net/http"
	"slices"

	"delivery-tracking-service/internal/platform/logging"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

type ServerConfig struct {
	// Exchanges per second allowed on one connection; zero disables limiting.
	Rate  float64
	Burst int
	// Exchanges one connection may have running at once; zero means
	// DefaultMaxInflight. Requests beyond it are answered as throttled.
	MaxInflight int
	// Allowed Origin header values; empty or "*" allows any.
	AllowedOrigins []string
}

const DefaultMaxInflight = 32

// Server upgrades HTTP requests to realtime connections.
type Server struct {
	dispatcher *Dispatcher
	hub        *Hub
	cfg        ServerConfig
	upgrader   websocket.Upgrader
}

func NewServer(d *Dispatcher, hub *Hub, cfg ServerConfig) *Server {
	s := &Server{dispatcher: d, hub: hub, cfg: cfg}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.WithComponent("realtime")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Warn().Err(err).Msg("realtime upgrade failed")
		return
	}

	var limiter *rate.Limiter
	if s.cfg.Rate > 0 {
		burst := s.cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.cfg.Rate), burst)
	}

	maxInflight := s.cfg.MaxInflight
	if maxInflight <= 0 {
		maxInflight = DefaultMaxInflight
	}

	c := newClient(uuid.NewString(), conn, s.dispatcher, limiter, semaphore.NewWeighted(int64(maxInflight)))
	s.hub.register(c)
	defer s.hub.unregister(c)

	log.Info().Str("client_id", c.ID).Str("remote", r.RemoteAddr).Msg("realtime client connected")
	c.run(r.Context())
	log.Info().Str("client_id", c.ID).Msg("realtime client disconnected")
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 || slices.Contains(s.cfg.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, origin)
}
