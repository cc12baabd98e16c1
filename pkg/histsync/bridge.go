package histsync

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/waypoint/pkg/nav"
)

// Config configures the sync bridge.
type Config struct {
	// Logger for connection lifecycle and protocol errors.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// CheckOrigin validates the WebSocket origin. Defaults to
	// same-origin (the gorilla default).
	CheckOrigin func(r *http.Request) bool

	// ReadTimeout bounds how long a connection may stay silent.
	ReadTimeout time.Duration

	// WriteTimeout bounds each outbound frame write.
	WriteTimeout time.Duration

	// ReadBufferSize and WriteBufferSize size the connection buffers.
	ReadBufferSize  int
	WriteBufferSize int
}

// Option configures the bridge.
type Option func(*Config)

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

// WithReadTimeout sets the connection read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = d
	}
}

// WithWriteTimeout sets the frame write timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

func defaultConfig() Config {
	return Config{
		Logger:          slog.Default(),
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// Bridge connects one coordinator to any number of WebSocket clients.
// Coordinator access is serialized through the bridge mutex: inbound
// frames and HTTP snapshot requests never run coordinator operations
// concurrently.
type Bridge struct {
	coord    *nav.Coordinator
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu sync.Mutex
}

// NewBridge creates a sync bridge for the coordinator.
func NewBridge(c *nav.Coordinator, opts ...Option) *Bridge {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Bridge{
		coord:  c,
		config: config,
		logger: config.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
}

// Routes returns the bridge's HTTP surface:
//
//	GET /ws        WebSocket sync endpoint
//	GET /location  current location as JSON
//	GET /state     full path snapshot as JSON
func (b *Bridge) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ws", b.serveWS)
	r.Get("/location", b.handleLocation)
	r.Get("/state", b.handleState)
	return r
}

func (b *Bridge) handleLocation(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	location := b.coord.Location()
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"location": location})
}

func (b *Bridge) handleState(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	state := b.coord.State()
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

func (b *Bridge) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	s := newSession(b, conn)
	b.logger.Debug("sync client connected", "remote", conn.RemoteAddr())

	// Listeners fire synchronously inside coordinator operations, which
	// always run under the bridge mutex; sendState therefore reads the
	// coordinator without locking. The initial send happens under the
	// same mutex for the same reason.
	b.mu.Lock()
	cancelChange := b.coord.OnChange(s.sendState)
	cancelResync := b.coord.OnResync(s.sendResync)
	s.sendState()
	b.mu.Unlock()

	s.readLoop(r.Context())

	b.mu.Lock()
	cancelChange()
	cancelResync()
	b.mu.Unlock()
	s.close()
	b.logger.Debug("sync client disconnected", "remote", conn.RemoteAddr())
}
