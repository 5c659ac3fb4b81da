// Package api 提供预测流水线的 HTTP 接口（gin）。
// 产物在启动时加载，请求路径上不会出现 ArtifactError。
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/artifact"
	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
)

// Server 是 HTTP 服务。
type Server struct {
	bundle *artifact.Bundle
	topN   int
	writer export.RunWriter // 可选：保存每次调用的结果
	store  core.Store       // 可选：支持按 runId 查询
	server *http.Server
}

// Option 配置 Server。
type Option func(*Server)

// WithTopN 设置请求未指定 topN 时的默认展示条数。
func WithTopN(n int) Option {
	return func(s *Server) { s.topN = n }
}

// WithWriter 设置结果持久化。
func WithWriter(w export.RunWriter) Option {
	return func(s *Server) { s.writer = w }
}

// WithStore 开启 GET /v1/runs/:id。
func WithStore(st core.Store) Option {
	return func(s *Server) { s.store = st }
}

func NewServer(bundle *artifact.Bundle, opts ...Option) *Server {
	s := &Server{bundle: bundle, topN: core.DefaultTopN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler 构建路由。
func (s *Server) Handler() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware())
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/v1/stats", s.handleStats)
	engine.POST("/v1/predict", s.handlePredict)
	if s.store != nil {
		engine.GET("/v1/runs", s.handleRecentRuns)
		engine.GET("/v1/runs/:id", s.handleGetRun)
	}
	return engine
}

// Start 在后台开始监听。
func (s *Server) Start(addr string) {
	log.Info().Msgf("starting to listen at %s", addr)
	s.server = &http.Server{
		Handler:      s.Handler(),
		Addr:         addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

// Stop 优雅关闭。
func (s *Server) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down HTTP API server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Run 启动服务并阻塞到 ctx 结束，然后在 10 秒内优雅关闭。
func (s *Server) Run(ctx context.Context, addr string) error {
	s.Start(addr)
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("graceful shutdown completed")
	return nil
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
