package api

import (
	"fmt"
	"net/http"

	"volare/internal/config"
	"volare/internal/external"
	"volare/internal/handlers"
	"volare/internal/metrics"
	"volare/internal/middleware"
	"volare/internal/service"

	"github.com/gin-gonic/gin"
)

// Server is the gateway HTTP server fronting the SOAP flight service
type Server struct {
	router   *gin.Engine
	config   *config.Config
	services *service.Services
}

// NewServer wires the flights client, services, middleware and routes
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	flightsClient := external.NewFlightsClient(cfg.Flights)
	services := service.NewServices(flightsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		services: services,
	}

	server.setupRoutes()

	return server
}

// setupRoutes registers all API routes
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	{
		flights := api.Group("/flights")
		{
			flights.GET("", h.ListFlights)
			flights.GET("/:id", h.GetFlight)
			flights.POST("/search", h.SearchFlights)
		}

		api.GET("/cities", h.ListCities)

		reservations := api.Group("/reservations")
		{
			reservations.POST("", h.CreateReservation)
			reservations.PATCH("/cancel", h.CancelReservation)
			reservations.GET("/:code", h.GetReservation)
			reservations.GET("/:code/pdf", h.GetReservationPdf)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "volare-gateway",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
