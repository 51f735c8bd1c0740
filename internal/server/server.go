package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/agent"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

// APIServer is the preview API renderer developers use to exercise the
// surface builders, the parser and the validator over HTTP.
type APIServer struct {
	responder  *agent.Responder
	validator  *validation.Validator
	version    string
	httpServer *http.Server
	router     *gin.Engine
}

// NewAPIServer creates a new API server
func NewAPIServer(responder *agent.Responder, validator *validation.Validator, addr, version string) *APIServer {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	server := &APIServer{
		responder: responder,
		validator: validator,
		version:   version,
		router:    router,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	server.registerRoutes()

	return server
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// registerRoutes sets up all API endpoints
func (s *APIServer) registerRoutes() {
	// Health check endpoint (unversioned)
	s.router.GET("/status", s.getStatus)
	s.router.GET(agentCardPath, s.getAgentCard)

	v1 := s.router.Group("/v1")
	v1.GET("/schema", s.getSchema)
	v1.POST("/surfaces", s.buildSurface)
	v1.POST("/responses/parse", s.parseResponse)
	v1.POST("/messages/validate", s.validateMessages)
	v1.POST("/actions", s.handleAction)
	v1.POST("/chat", s.chat)
}

// Start begins listening for requests and blocks until ctx is done or the
// listener fails
func (s *APIServer) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		log.FromContext(ctx).Info("Starting API server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.FromContext(ctx).Error(err, "API server failed")
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
		return s.Stop(context.Background())
	}
}

// Stop gracefully shuts down the server
func (s *APIServer) Stop(ctx context.Context) error {
	log.FromContext(ctx).Info("Stopping API server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
