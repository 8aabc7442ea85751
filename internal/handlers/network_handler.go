package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stickywith_backend/internal/middleware"
	"stickywith_backend/internal/services"
)

type NetworkHandler struct {
	*BaseHandler
	networkService services.NetworkService
}

func NewNetworkHandler(base *BaseHandler, networkService services.NetworkService) *NetworkHandler {
	return &NetworkHandler{
		BaseHandler:    base,
		networkService: networkService,
	}
}

func (h *NetworkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	network := rg.Group("/network")
	network.Use(middleware.AuthMiddleware())
	{
		network.GET("", h.GetNetwork)
	}

	stats := rg.Group("/stats")
	stats.Use(middleware.AuthMiddleware())
	{
		stats.GET("/overview", h.GetOverview)
		stats.GET("/locations", h.GetLocationStats)
		stats.GET("/time", h.GetTimeStats)
	}
}

func (h *NetworkHandler) GetNetwork(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	graph, err := h.networkService.BuildNetwork(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (h *NetworkHandler) GetOverview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	overview, err := h.networkService.ComputeOverview(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *NetworkHandler) GetLocationStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.networkService.LocationStats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": stats})
}

func (h *NetworkHandler) GetTimeStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.networkService.TimeStats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": stats})
}
