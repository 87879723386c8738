// Package rest provides the Gin-based HTTP API dashboards use in place of
// browser local storage.
package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/cache"
	"github.com/iggydv12/dashcache/internal/diagnostics"
	"github.com/iggydv12/dashcache/internal/session"
)

// Server is the HTTP API server.
type Server struct {
	engine     *gin.Engine
	dashboards *cache.Dashboards
	navigation *cache.Navigation
	sessions   *session.Validator
	inspector  *diagnostics.Inspector
	logger     *zap.Logger
}

// New creates a Server.
func New(d *cache.Dashboards, n *cache.Navigation, v *session.Validator,
	i *diagnostics.Inspector, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		dashboards: d,
		navigation: n,
		sessions:   v,
		inspector:  i,
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.engine }

// registerRoutes sets up the /dashcache context path.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/dashcache")

	dashboardGroup := api.Group("/dashboard/:category")
	{
		dashboardGroup.GET("", s.loadDashboard)
		dashboardGroup.PUT("", s.saveDashboard)
		dashboardGroup.DELETE("", s.clearDashboard)
	}

	navGroup := api.Group("/navigation")
	{
		navGroup.GET("", s.loadNavigation)
		navGroup.PUT("", s.saveNavigation)
		navGroup.DELETE("", s.clearNavigation)
	}

	sessionGroup := api.Group("/session")
	{
		sessionGroup.GET("", s.sessionInfo)
		sessionGroup.GET("/valid", s.sessionValid)
	}

	diagGroup := api.Group("/diagnostics")
	{
		diagGroup.GET("/stats", s.stats)
		diagGroup.GET("/export", s.export)
		diagGroup.POST("/import", s.importState)
		diagGroup.POST("/clear", s.clearAll)
	}
}

// --- Dashboard handlers ---

func (s *Server) category(c *gin.Context) (cache.Category, bool) {
	cat, err := cache.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return cat, true
}

func (s *Server) loadDashboard(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	data, hit := s.dashboards.LoadDashboardState(cat)
	if !hit {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cached state", "category": cat})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) saveDashboard(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	body, ok := readJSON(c)
	if !ok {
		return
	}
	persisted := s.dashboards.SaveDashboardState(cat, body)
	c.JSON(http.StatusOK, gin.H{"persisted": persisted})
}

func (s *Server) clearDashboard(c *gin.Context) {
	cat, ok := s.category(c)
	if !ok {
		return
	}
	s.dashboards.ClearDashboardState(cat)
	c.JSON(http.StatusOK, gin.H{"result": true})
}

// --- Navigation handlers ---

func (s *Server) loadNavigation(c *gin.Context) {
	data, hit := s.navigation.LoadRaw()
	if !hit {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cached state"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) saveNavigation(c *gin.Context) {
	body, ok := readJSON(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"persisted": s.navigation.SaveRaw(body)})
}

func (s *Server) clearNavigation(c *gin.Context) {
	s.navigation.Clear()
	c.JSON(http.StatusOK, gin.H{"result": true})
}

// --- Session handlers ---

func (s *Server) sessionInfo(c *gin.Context) {
	info := s.sessions.GetSessionInfo()
	if info == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session storage unreadable"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) sessionValid(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": s.sessions.IsSessionValid()})
}

// --- Diagnostics handlers ---

func (s *Server) stats(c *gin.Context) {
	stats, err := s.inspector.StorageStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) export(c *gin.Context) {
	entries, err := s.inspector.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) importState(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := s.inspector.Import(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"written": n})
}

func (s *Server) clearAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"removed": s.inspector.ClearAllAppState()})
}

// readJSON reads a request body that must be valid JSON.
func readJSON(c *gin.Context) (json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body is not valid JSON"})
		return nil, false
	}
	return json.RawMessage(body), true
}
