package http

import (
	"github.com/gin-gonic/gin"

	"vidhub/pkg/models"
)

func (s *Server) getChannel(c *gin.Context) {
	resp, err := s.channelSvc.GetChannel(c.Request.Context(), GetUserID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) updateChannelInfo(c *gin.Context) {
	var req models.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid channel payload")
		return
	}

	resp, err := s.channelSvc.UpdateChannelInfo(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "channel updated", resp)
}

func (s *Server) getNotificationSettings(c *gin.Context) {
	settings, err := s.channelSvc.GetNotificationSettings(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", settings)
}

func (s *Server) updateNotificationSettings(c *gin.Context) {
	var req models.UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid settings payload")
		return
	}

	settings, err := s.channelSvc.UpdateNotificationSettings(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "notification settings updated", settings)
}
