package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"

	"github.com/recipe-genie/server/internal/agent/model"
	logx "github.com/recipe-genie/server/pkg/logger"
)

// Conversations is the part of the recipe graph runner the API serves.
type Conversations interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.Reply, error)
	History(ctx context.Context, conversationID string) ([]*schema.Message, error)
	Clear(ctx context.Context, conversationID string) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin           *gin.Engine
	port          int
	mode          string
	environment   string
	conversations Conversations
	newID         func() string
}

// Config is the dependency bag passed to New().
type Config struct {
	Port          int
	Mode          string
	Environment   string
	Conversations Conversations
	NewID         func() string // defaults to NewConversationID
}

// New creates a new HTTPServer instance with all routes mapped.
func New(cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		gin:           gin.New(),
		port:          cfg.Port,
		mode:          cfg.Mode,
		environment:   cfg.Environment,
		conversations: cfg.Conversations,
		newID:         cfg.NewID,
	}
	if srv.newID == nil {
		srv.newID = NewConversationID
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.conversations == nil {
		return errors.New("conversations runner is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port <= 0 {
		return errors.New("port is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv *HTTPServer) Handler() http.Handler {
	return srv.gin
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (srv *HTTPServer) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:              fmt.Sprintf(":%d", srv.port),
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Int("port", srv.port).Str("mode", srv.mode).Msg("HTTP server listening")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
