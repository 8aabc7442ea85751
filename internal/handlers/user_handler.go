package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stickywith_backend/internal/middleware"
	"stickywith_backend/internal/services"
	"stickywith_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewUserHandler(base *BaseHandler, profileService services.ProfileService) *UserHandler {
	return &UserHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", h.SearchUsers)
		users.GET("/:userId", h.GetUser)
	}

	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("", h.GetOwnProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.profileService.GetProfile(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("search")
	limit := ParseQueryInt(c, "limit", 20)

	results, err := h.profileService.Search(query, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": results})
}

func (h *UserHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.profileService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
