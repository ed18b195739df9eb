// Package server exposes the statement engine over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/repository"
	"eerr/eerr-dashboard/internal/statement"
)

// HeaderUserID carries the caller's identity; authentication happens upstream.
const HeaderUserID = "X-User-ID"

const ctxUserID = "userID"

// Server is the HTTP API.
type Server struct {
	engine    *gin.Engine
	c         *container.Container
	repo      *repository.Repository
	svc       *statement.Service
	logger    logging.Logger
	maxUpload int64
}

// New builds the router over the container's components.
func New(c *container.Container) (*Server, error) {
	repo, err := c.GetRepository()
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	svc, err := c.GetStatementService()
	if err != nil {
		return nil, err
	}

	cfg := c.GetConfig()
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	s := &Server{
		engine:    gin.New(),
		c:         c,
		repo:      repo,
		svc:       svc,
		logger:    c.GetLogger().WithField("component", "server"),
		maxUpload: int64(cfg.Server.MaxUploadMB) << 20,
	}
	s.engine.MaxMultipartMemory = s.maxUpload
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s, nil
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) { ok(c, gin.H{"status": "up"}) })

	api := s.engine.Group("/api", requireUser())
	api.POST("/uploads/consolidado", s.uploadConsolidado)
	api.POST("/uploads/eerr", s.uploadEERR)

	api.POST("/ledger/import", s.importLedger)
	api.DELETE("/ledger/imports/:id", s.deleteImport)

	api.GET("/eerr", s.getStatement)
	api.GET("/eerr/consolidated", s.getConsolidated)
	api.GET("/eerr/export", s.exportStatement)
	api.GET("/eerr/:period", s.getPeriodStatement)

	api.PUT("/manual-values", s.putManualValue)
	api.POST("/tables/sum", s.sumTables)
	api.GET("/branches", s.listBranches)
	api.GET("/classify", s.classify)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.Field{Key: "addr", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.GetHeader(HeaderUserID)
		if user == "" {
			fail(c, http.StatusUnauthorized, "missing "+HeaderUserID+" header")
			return
		}
		c.Set(ctxUserID, user)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []logging.Field{
			{Key: "method", Value: c.Request.Method},
			{Key: "path", Value: c.FullPath()},
			{Key: logging.FieldStatus, Value: c.Writer.Status()},
			{Key: logging.FieldDuration, Value: time.Since(start).String()},
		}
		if len(c.Errors) > 0 {
			s.logger.WithError(c.Errors.Last()).Error("Request failed", fields...)
			return
		}
		s.logger.Debug("Request served", fields...)
	}
}
