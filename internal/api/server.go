package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiaobei/subhub/internal/service"
	"github.com/xiaobei/subhub/internal/storage"
	"github.com/xiaobei/subhub/internal/sub"
)

// Notifier receives access notices from the subscription endpoint.
type Notifier interface {
	NotifyAccess(notice service.AccessNotice)
}

// Server represents the API server
type Server struct {
	store     storage.Store
	composer  *service.Composer
	notifier  Notifier
	scheduler *service.Scheduler
	tokens    sub.TokenSource
	client    *http.Client
	router    *gin.Engine
	port      int    // Web service port
	version   string // subhub version
}

// NewServer creates an API server
func NewServer(store storage.Store, port int, version string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:     store,
		composer:  service.NewComposer(),
		notifier:  service.NewNotifier(store),
		scheduler: service.NewScheduler(store),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		router:  gin.Default(),
		port:    port,
		version: version,
	}

	s.setupRoutes()
	return s
}

// SetNotifier replaces the notification sink. Used by tests.
func (s *Server) SetNotifier(n Notifier) {
	s.notifier = n
}

// StartScheduler starts the traffic refresh scheduler
func (s *Server) StartScheduler() {
	s.scheduler.Start()
}

// StopScheduler stops the traffic refresh scheduler
func (s *Server) StopScheduler() {
	s.scheduler.Stop()
}

// setupRoutes sets up routes
func (s *Server) setupRoutes() {
	// CORS configuration
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Subscription endpoint (token auth, no management auth)
	s.router.GET("/sub", s.handleSub)
	s.router.GET("/sub/:token", s.handleSub)
	s.router.GET("/sub/:token/:profile", s.handleSub)

	// API route group
	api := s.router.Group("/api")
	{
		// Subscription entry management
		api.GET("/subscriptions", s.getSubscriptions)
		api.POST("/subscriptions", s.addSubscription)
		api.PUT("/subscriptions/:id", s.updateSubscription)
		api.DELETE("/subscriptions/:id", s.deleteSubscription)
		api.POST("/subscriptions/refresh-all", s.refreshAllSubscriptions)

		// Profile management
		api.GET("/profiles", s.getProfiles)
		api.POST("/profiles", s.addProfile)
		api.PUT("/profiles/:id", s.updateProfile)
		api.DELETE("/profiles/:id", s.deleteProfile)

		// Settings management
		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.updateSettings)

		// Monitoring
		api.GET("/monitor/system", s.getSystemInfo)
		api.GET("/monitor/logs", s.getAppLogs)
		api.GET("/monitor/access-logs", s.getAccessLogs)

		// Version info
		api.GET("/version", s.getVersion)
	}
}

// Run starts the server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// ==================== Subscription Entry API ====================

func (s *Server) getSubscriptions(c *gin.Context) {
	subs := s.store.GetSubscriptions()
	c.JSON(http.StatusOK, gin.H{"data": subs})
}

func (s *Server) addSubscription(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		URL     string `json:"url" binding:"required"`
		Enabled *bool  `json:"enabled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := storage.Subscription{
		ID:        uuid.New().String(),
		Name:      req.Name,
		URL:       req.URL,
		Enabled:   true,
		UpdatedAt: time.Now(),
	}
	if req.Enabled != nil {
		entry.Enabled = *req.Enabled
	}

	if err := s.store.AddSubscription(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) updateSubscription(c *gin.Context) {
	id := c.Param("id")

	var entry storage.Subscription
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry.ID = id
	entry.UpdatedAt = time.Now()
	if err := s.store.UpdateSubscription(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

func (s *Server) deleteSubscription(c *gin.Context) {
	id := c.Param("id")

	if err := s.store.DeleteSubscription(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

func (s *Server) refreshAllSubscriptions(c *gin.Context) {
	s.scheduler.RefreshAll()
	c.JSON(http.StatusOK, gin.H{"message": "Refreshed successfully"})
}

// ==================== Profile API ====================

func (s *Server) getProfiles(c *gin.Context) {
	profiles := s.store.GetProfiles()
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}

func (s *Server) addProfile(c *gin.Context) {
	var profile storage.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if profile.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	profile.ID = uuid.New().String()
	profile.UpdatedAt = time.Now()

	if err := s.store.AddProfile(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) updateProfile(c *gin.Context) {
	id := c.Param("id")

	var profile storage.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile.ID = id
	profile.UpdatedAt = time.Now()
	if err := s.store.UpdateProfile(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

func (s *Server) deleteProfile(c *gin.Context) {
	id := c.Param("id")

	if err := s.store.DeleteProfile(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// ==================== Settings API ====================

func (s *Server) getSettings(c *gin.Context) {
	settings := s.store.GetSettings()
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

func (s *Server) updateSettings(c *gin.Context) {
	var settings storage.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings.Normalize()
	if err := s.store.UpdateSettings(&settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Restart scheduler (interval may have been updated)
	s.scheduler.Restart()

	c.JSON(http.StatusOK, gin.H{"data": settings, "message": "Updated successfully"})
}

func (s *Server) getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": s.version})
}
