package httpapi

import (
	"net/http"

	"devhub/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ nc NotificationUseCase }

func NewNotificationController(nc NotificationUseCase) *NotificationController {
	return &NotificationController{nc: nc}
}

func (ctl *NotificationController) ListNotifications(c *gin.Context) {
	page, pageSize := pageParams(c)
	unreadOnly := c.Query("unread") == "true"
	res, err := ctl.nc.ListNotifications(c.Request.Context(), middleware.ActorFrom(c), page, pageSize, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *NotificationController) UnreadCount(c *gin.Context) {
	count, err := ctl.nc.UnreadCount(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (ctl *NotificationController) MarkRead(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	changed, err := ctl.nc.MarkRead(c.Request.Context(), middleware.ActorFrom(c), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	changed, err := ctl.nc.MarkAllRead(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}
