package live

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/telemetry"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address (default "localhost:3000").
	Addr string

	// Title is the page title.
	Title string

	// ReadTimeout bounds how long a session waits for the next client
	// frame or heartbeat pong before closing (default 60s).
	ReadTimeout time.Duration

	// HeartbeatInterval is the time between pings to the client (default
	// 30s). It is clamped below ReadTimeout.
	HeartbeatInterval time.Duration

	// WriteTimeout bounds each write to a client (default 10s).
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// MaxMessageSize is the largest client frame accepted (default 64KB).
	MaxMessageSize int64

	// CheckOrigin validates the Origin header of WebSocket upgrades.
	// Default: same host only.
	CheckOrigin func(r *http.Request) bool

	// Compiler compiles each session's tree. Default: binding.NewCompiler().
	Compiler *binding.Compiler

	// Metrics records session and frame counts. May be nil.
	Metrics *telemetry.Metrics

	// Tracer traces compiles and events. May be nil.
	Tracer *telemetry.Tracer

	// Gatherer enables GET /metrics. May be nil.
	Gatherer prometheus.Gatherer

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Addr:            "localhost:3000",
		Title:           "vbind",
		ReadTimeout:       60 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxMessageSize:    64 * 1024,
		CheckOrigin:       SameOrigin,
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.HeartbeatInterval >= c.ReadTimeout {
		c.HeartbeatInterval = c.ReadTimeout / 2
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.Compiler == nil {
		c.Compiler = binding.NewCompiler()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// SameOrigin accepts requests without an Origin header and requests whose
// Origin host matches the request host.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return originHost(origin) == r.Host
}

// AllowOrigins returns a CheckOrigin func that accepts the same host plus the
// listed origins. "*" accepts everything.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		if allowed["*"] || SameOrigin(r) {
			return true
		}
		return allowed[r.Header.Get("Origin")]
	}
}

func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Host
}
