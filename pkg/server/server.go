// Package server exposes the catalog views and the chat proxy over HTTP.
package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pkg/errors"

	"gpurouter/pkg/analytics"
	"gpurouter/pkg/catalog"
	"gpurouter/pkg/chat"
	"gpurouter/pkg/known"
	"gpurouter/pkg/models"
	"gpurouter/pkg/offering"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end. Routes are read-only apart from the chat
// proxy, which holds no state.
type Server struct {
	h      *server.Hertz
	store  *catalog.Store
	engine *offering.Engine
	market *analytics.Market
	chat   *chat.Handler
}

// New registers every route on a hertz server listening on addr.
func New(addr string, store *catalog.Store, market *analytics.Market, completer chat.Completer) *Server {
	h := server.Default(
		server.WithHostPorts(addr),
		server.WithExitWaitTime(shutdownTimeout),
	)
	s := &Server{
		h:      h,
		store:  store,
		engine: offering.New(store),
		market: market,
		chat:   chat.NewHandler(completer),
	}
	s.routes()
	return s
}

// Hertz exposes the underlying server, mainly for tests.
func (s *Server) Hertz() *server.Hertz {
	return s.h
}

func (s *Server) routes() {
	s.h.Use(RequestID(), AccessLog())

	s.h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := s.h.Group("/api")
	api.POST("/chat", s.chat.Handle)
	api.GET("/gpus", s.listGPUs)
	api.GET("/gpus/:id", s.getGPU)
	api.GET("/providers", s.listProviders)
	api.GET("/providers/:id", s.getProvider)
	api.GET("/offerings/best-value", s.ranking(s.engine.BestValue))
	api.GET("/offerings/fastest", s.ranking(s.engine.Fastest))
	api.GET("/analytics", s.getAnalytics)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.h.Run()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
		hlog.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.h.Shutdown(shutdownCtx)
	}
}

func (s *Server) listGPUs(ctx context.Context, c *app.RequestContext) {
	filter := offering.Filter{Vendor: models.Vendor(c.Query("vendor"))}
	var gpus []models.GPU
	for _, gpu := range s.store.GPUs() {
		if filter.MatchGPU(gpu) {
			gpus = append(gpus, gpu)
		}
	}
	summaries, err := s.engine.SummarizeGPUs(gpus)
	if err != nil {
		s.internalError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, summaries)
}

func (s *Server) getGPU(ctx context.Context, c *app.RequestContext) {
	detail, err := s.engine.GPUDetail(c.Param("id"))
	if err != nil {
		s.lookupError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, detail)
}

func (s *Server) listProviders(ctx context.Context, c *app.RequestContext) {
	kind := models.ProviderType(c.Query("type"))
	var providers []models.Provider
	for _, p := range s.store.Providers() {
		if kind == "" || p.Type == kind {
			providers = append(providers, p)
		}
	}
	c.JSON(consts.StatusOK, s.engine.SummarizeProviders(providers))
}

func (s *Server) getProvider(ctx context.Context, c *app.RequestContext) {
	detail, err := s.engine.ProviderDetail(c.Param("id"))
	if err != nil {
		s.lookupError(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, detail)
}

func (s *Server) ranking(rank func(n int) []models.Offering) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		limit, err := parseLimit(c.Query("limit"))
		if err != nil {
			c.JSON(consts.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(consts.StatusOK, rank(limit))
	}
}

func (s *Server) getAnalytics(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, analytics.Build(s.market, s.store))
}

func (s *Server) lookupError(ctx context.Context, c *app.RequestContext, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(consts.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	s.internalError(ctx, c, err)
}

func (s *Server) internalError(ctx context.Context, c *app.RequestContext, err error) {
	hlog.CtxErrorf(ctx, "[%s] %v", c.GetString(known.RequestIDKey), err)
	c.JSON(consts.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
}

// parseLimit reads a ranking size: empty means the default, anything else
// must be a positive integer.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return known.DefaultRankingLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.Errorf("invalid limit %q, must be a positive integer", raw)
	}
	return n, nil
}
