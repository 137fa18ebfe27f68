// Package server exposes the donation core over HTTP for web front ends:
// recipient resolution, the network catalog, quick-link building and
// validation, plus a WebSocket feed of settled donations.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gives "github.com/x402x/gives"
	"github.com/x402x/gives/config"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/utils"
)

// Server wires the core to a gin router.
type Server struct {
	core     *gives.Gives
	cfg      *config.Config
	hub      *Hub
	log      logger.Logger
	upgrader websocket.Upgrader
}

// New builds the server and starts the donation-event hub.
func New(core *gives.Gives, cfg *config.Config, log logger.Logger) *Server {
	if log == nil {
		log = logger.NoopLogger{}
	}
	s := &Server{
		core: core,
		cfg:  cfg,
		hub:  NewHub(log),
		log:  log,
		upgrader: websocket.Upgrader{
			// Donation pages are served from arbitrary origins (badges,
			// embeds); the feed is read-only public data.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	go s.hub.Run()
	return s
}

// Hub returns the donation-event hub for publishers.
func (s *Server) Hub() *Hub { return s.hub }

// Router assembles all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/networks", s.handleNetworks)
		api.GET("/recipient/github/:username", s.handleGitHubRecipient)
		api.GET("/recipient/github/:username/:repo", s.handleGitHubRecipient)
		api.GET("/recipient/:address", s.handleQuickLinkRecipient)
		api.POST("/quicklink", s.handleQuickLink)
		api.POST("/config/validate", s.handleValidate)
		api.POST("/donations", s.handleDonationNotice)
	}

	r.GET("/ws/donations/:address", s.handleDonationFeed)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	return s.Router().Run(":" + s.cfg.Server.Port)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": gives.Version})
}

func (s *Server) handleDonationFeed(c *gin.Context) {
	address := c.Param("address")
	if !utils.IsChainAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient address"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	client := &Client{
		Hub:     s.hub,
		Conn:    conn,
		Send:    make(chan []byte, 16),
		Address: utils.ChecksumAddress(address),
	}
	s.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
