package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tmt/internal/auth"
)

// RegisterRoutes builds the gin engine. Signup, confirmation and login are
// public; everything under the resource group requires a bearer token whose
// session is still live.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"), ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", s.HelloHandler)
	r.GET("/health", s.healthHandler)

	s.usersHandler.RegisterRoutes(r)
	s.authHandler.RegisterRoutes(r)

	protected := r.Group("/")
	protected.Use(auth.SessionMiddleware(s.codec, s.sessions, s.logger))
	{
		s.tabsHandler.RegisterRoutes(protected)
		s.tagsHandler.RegisterRoutes(protected)
	}

	return r
}

func (s *Server) HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"database": s.db.Health()})
}
