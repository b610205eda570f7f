package http

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) listNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	resp, err := s.notificationSvc.List(c.Request.Context(), GetUserID(c), unreadOnly, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) markNotificationRead(c *gin.Context) {
	if err := s.notificationSvc.MarkRead(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "notification marked read", nil)
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	count, err := s.notificationSvc.MarkAllRead(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "all notifications marked read", gin.H{"marked": count})
}

func (s *Server) deleteNotification(c *gin.Context) {
	if err := s.notificationSvc.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "notification deleted", nil)
}
