package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dropkit/dropkit/pkg/auth"
	"github.com/dropkit/dropkit/pkg/cfg"
	"github.com/dropkit/dropkit/pkg/logging"
	"github.com/dropkit/dropkit/pkg/tlsgen"
)

// Server serves one directory tree over HTTP or HTTPS.
type Server struct {
	fs     afero.Fs
	config *cfg.Config
	logger *logging.Logger
	router *gin.Engine
}

// New builds the gin engine with its middleware chain and routes.
func New(fs afero.Fs, config *cfg.Config, logger *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.Default())

	s := &Server{fs: fs, config: config, logger: logger, router: router}
	s.setupRoutes()
	return s
}

// Router exposes the handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	// Liveness probe stays open regardless of auth configuration.
	s.router.GET("/health", s.handleHealth)

	guarded := s.router.Group("/", auth.Middleware(s.config.Credential, s.logger))
	guarded.GET("", s.handleBrowse)
	guarded.GET("/browse/*filepath", s.handleBrowse)
	guarded.GET("/download/*filepath", s.handleDownload)
	guarded.POST("/upload", s.handleUpload)
}

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"remote", c.ClientIP(),
		)
	}
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
// With TLS enabled an ephemeral self-signed certificate is provisioned for
// the session and removed again on every exit path.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var ephemeral *tlsgen.Ephemeral
	if s.config.TLS {
		var err error
		ephemeral, err = tlsgen.Provision(s.fs, s.logger)
		if err != nil {
			return err
		}
		defer ephemeral.Cleanup()
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if ephemeral != nil {
			err = httpServer.ListenAndServeTLS(ephemeral.CertPath, ephemeral.KeyPath)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("serving files", "root", s.config.Root, "url", s.config.URL(),
		"auth", s.config.Credential != nil)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
