package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nerrad567/todo-api/internal/infrastructure/config"
	"github.com/nerrad567/todo-api/internal/infrastructure/database"
	"github.com/nerrad567/todo-api/internal/infrastructure/logging"
	"github.com/nerrad567/todo-api/internal/infrastructure/mqtt"
	"github.com/nerrad567/todo-api/internal/todo"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// WebSocket keepalive defaults in seconds, used when config leaves them unset.
const (
	defaultPingInterval = 30
	defaultPongTimeout  = 10
)

// RequestRecorder receives one call per handled request.
// *influxdb.Client satisfies it.
type RequestRecorder interface {
	WriteRequestMetric(route, method string, status int, duration time.Duration)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	Service  *todo.Service
	DB       *database.DB    // optional: health and pool metrics
	MQTT     *mqtt.Client    // optional: connection state in metrics
	Recorder RequestRecorder // optional: per-request metrics
	Hub      *Hub            // if set, used instead of an internal hub
	Version  string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, middleware, rate limiters and
// WebSocket hub. The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	secCfg    config.SecurityConfig
	logger    *logging.Logger
	service   *todo.Service
	db        *database.DB
	mqtt      *mqtt.Client
	recorder  RequestRecorder
	version   string
	startTime time.Time

	hub         *Hub
	externalHub bool
	limiters    map[string]*rateLimiter
	upgrader    websocket.Upgrader
	todoSchema  *jsonschema.Schema

	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, todo service)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing or the request schema
//     does not compile
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Service == nil {
		return nil, fmt.Errorf("todo service is required")
	}

	wsCfg := deps.WS
	if wsCfg.PingInterval <= 0 {
		wsCfg.PingInterval = defaultPingInterval
	}
	if wsCfg.PongTimeout <= 0 {
		wsCfg.PongTimeout = defaultPongTimeout
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     wsCfg,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		service:   deps.Service,
		db:        deps.DB,
		mqtt:      deps.MQTT,
		recorder:  deps.Recorder,
		version:   deps.Version,
		startTime: time.Now(),
	}

	if deps.Hub != nil {
		s.hub = deps.Hub
		s.externalHub = true
	} else {
		s.hub = NewHub(wsCfg, deps.Logger)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkWebSocketOrigin,
	}
	s.limiters = newRouteLimiters(deps.Config.RateLimit)

	sch, err := compileTodoSchema()
	if err != nil {
		return nil, err
	}
	s.todoSchema = sch

	return s, nil
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It binds the listener synchronously so address errors are returned to
// the caller, then serves in a background goroutine. The internal hub and
// limiter eviction run until Close() or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = ln

	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}
	go s.evictLimitersLoop(srvCtx)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", ln.Addr().String(),
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", ln.Addr().String())
			err = s.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and its database answers.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("api health check: %w", err)
		}
	}
	return nil
}
