package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stickywith_backend/internal/middleware"
	"stickywith_backend/internal/services"
	"stickywith_backend/internal/services/dto"
)

type MeetingHandler struct {
	*BaseHandler
	meetingService services.MeetingService
}

func NewMeetingHandler(base *BaseHandler, meetingService services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		BaseHandler:    base,
		meetingService: meetingService,
	}
}

func (h *MeetingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	meetings := rg.Group("/meetings")
	meetings.Use(middleware.AuthMiddleware())
	{
		meetings.GET("", h.ListHistory)
		meetings.POST("/:userId", h.RequestMeeting)
	}

	connections := rg.Group("/connections")
	connections.Use(middleware.AuthMiddleware())
	{
		connections.GET("/:userId", h.GetConnectionState)
	}
}

// RequestMeeting drives the state machine one step against the target user.
// An empty body is allowed; location is optional.
func (h *MeetingHandler) RequestMeeting(c *gin.Context) {
	callerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RequestMeetingRequest
	if c.Request.ContentLength > 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	result, err := h.meetingService.RequestMeeting(callerID, c.Param("userId"), req.Location)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == dto.OutcomeRequested {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *MeetingHandler) GetConnectionState(c *gin.Context) {
	callerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	state, err := h.meetingService.GetConnectionState(callerID, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *MeetingHandler) ListHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	history, err := h.meetingService.ListHistory(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": history})
}
