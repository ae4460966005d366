// Package server exposes the scoring engine over HTTP and streams live battle
// analysis to the browser.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeungjosh/pokemon-real-data-experiment/client"
	"github.com/yeungjosh/pokemon-real-data-experiment/engine"
	"github.com/yeungjosh/pokemon-real-data-experiment/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// RoomConn is a joined live connection to the battle server.
type RoomConn interface {
	JoinRoom(roomID string) error
	Messages(ctx context.Context) <-chan client.Message
	Close() error
}

// DialFunc opens a RoomConn.
type DialFunc func(ctx context.Context, serverURL string) (RoomConn, error)

func dialShowdown(ctx context.Context, serverURL string) (RoomConn, error) {
	return client.Dial(ctx, serverURL)
}

type Options struct {
	ShowdownURL string
	Dial        DialFunc
	// AllowOrigins limits cross-origin callers; empty allows any origin.
	AllowOrigins []string
	// PingInterval keeps idle event streams open; zero uses 20s.
	PingInterval time.Duration
}

type Server struct {
	engine *engine.Engine
	opts   Options
	router *gin.Engine
}

func New(e *engine.Engine, opts Options) *Server {
	if opts.ShowdownURL == "" {
		opts.ShowdownURL = client.DefaultServerURL
	}
	if opts.Dial == nil {
		opts.Dial = dialShowdown
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 20 * time.Second
	}
	s := &Server{engine: e, opts: opts}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	metrics.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(s.corsConfig()))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Species": s.engine.Dataset.Pokedex.AllNames(),
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/score", s.handleScore)
	r.POST("/explain", s.handleExplain)
	r.POST("/suggest", s.handleSuggest)
	r.GET("/threats", s.handleThreats)
	r.GET("/connect", s.handleConnect)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.opts.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.opts.AllowOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Cache-Control")
	return cfg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: /connect streams for the length of a battle.
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an ID, reusing the caller's when given.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(requestIDHeader, id)
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", attrs...)
			return
		}
		slog.Debug("request", attrs...)
	}
}
