// Package server exposes the tradesync REST API and the push endpoint.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pitrade/tradesync/internal/push"
	"github.com/pitrade/tradesync/internal/store"
	"github.com/pitrade/tradesync/pkg/config"
)

// Server wires the data store and the push hub behind one router.
type Server struct {
	cfg config.ServerConfig
	db  *store.Store
	hub *push.Hub
}

// New creates a ready-to-route server.
func New(cfg config.ServerConfig) *Server {
	db := store.New()
	return &Server{
		cfg: cfg,
		db:  db,
		hub: push.NewHub(db, cfg),
	}
}

// Close shuts down the push hub and the store.
func (s *Server) Close() error {
	s.hub.CloseAll()
	s.db.Close()
	return nil
}

// Hub exposes the push hub, mainly for tests and operational tooling.
func (s *Server) Hub() *push.Hub { return s.hub }

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.wrap(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	api := r.Group("/api")

	trading := api.Group("/trading")
	trading.Use(s.requireAuth())
	trading.GET("/stats/:userID", s.wrap(s.handleTradingStats))
	trading.GET("/trades/:userID", s.wrap(s.handleTrades))

	// Market news is public.
	api.GET("/news/market", s.wrap(s.handleMarketNews))

	users := api.Group("/users")
	users.Use(s.requireAuth())
	users.GET("", s.wrap(s.handleUsersList))
	users.GET("/:userID", s.wrap(s.handleUserGet))

	admin := api.Group("/admin")
	admin.Use(s.requireAuth())
	admin.GET("/users/performance", s.wrap(s.handleUsersPerformance))
	admin.GET("/analytics/trading", s.wrap(s.handleTradingAnalytics))

	r.GET("/ws/:userID", func(c *gin.Context) {
		s.hub.Handle(c.Writer, c.Request, c.Param("userID"))
	})

	return r
}

type paramsKeyType string

const paramsKey paramsKeyType = "tradesync_path_params"

// wrap adapts net/http handlers to gin, injecting path params into the
// request context.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := map[string]string{}
		for _, p := range c.Params {
			m[p.Key] = p.Value
		}
		ctx := context.WithValue(c.Request.Context(), paramsKey, m)
		c.Request = c.Request.WithContext(ctx)
		h(c.Writer, c.Request)
	}
}

func pathParam(r *http.Request, key string) string {
	if m, ok := r.Context().Value(paramsKey).(map[string]string); ok {
		return m[key]
	}
	return ""
}
