package server

import (
	"fmt"
	"log"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"catalogserver/database"
	"catalogserver/internal/config"
	"catalogserver/server/middleware"
)

// Server HTTP-сервер импорта и каталога товаров.
type Server struct {
	config *config.Config
	db     *database.CatalogDB
	router *gin.Engine
}

// NewServer собирает сервер: маршруты, middleware, база каталога.
func NewServer(cfg *config.Config, db *database.CatalogDB) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	s := &Server{
		config: cfg,
		db:     db,
		router: router,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	importGroup := api.Group("/import")
	importGroup.Use(middleware.RateLimitMiddleware(s.config.UploadRatePerSecond, s.config.UploadRateBurst))
	importGroup.POST("", s.handleImportUpload)

	api.GET("/imports", s.handleListImportRuns)
	api.GET("/imports/:id", s.handleGetImportRun)
	api.GET("/products", s.handleListProducts)

	s.router.GET("/health", s.handleHealth)
}

// Router возвращает роутер, в тестах он подключается к httptest.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run запускает сервер на сконфигурированном порту.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	log.Printf("Catalog import server listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	count, err := s.db.CountProducts()
	if err != nil {
		c.JSON(500, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "products": count})
}
