package status

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/stheno/internal/engine"
)

// Server is the player's small local HTTP surface: the console preview polls
// /status to mirror the screen and posts /refresh-player to force a live
// refresh of what it is previewing.
type Server struct {
	snapshot func() engine.Snapshot
	refresh  func(reason string)
}

func NewServer(snapshot func() engine.Snapshot, refresh func(reason string)) *Server {
	return &Server{snapshot: snapshot, refresh: refresh}
}

// Router builds the gin engine. The console preview runs on another origin,
// so CORS stays open the same way the console API keeps it.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", s.healthz)
	r.GET("/status", s.getStatus)
	r.POST("/refresh-player", s.refreshPlayer)
	return r
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) refreshPlayer(c *gin.Context) {
	s.refresh("console preview refresh")
	c.JSON(http.StatusOK, gin.H{"success": "refresh scheduled"})
}
