package http

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) subscribe(c *gin.Context) {
	sub, err := s.subscriptionSvc.Subscribe(c.Request.Context(), GetUserID(c), c.Param("channel_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, "subscribed", sub)
}

func (s *Server) unsubscribe(c *gin.Context) {
	if err := s.subscriptionSvc.Unsubscribe(c.Request.Context(), GetUserID(c), c.Param("channel_id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "unsubscribed", nil)
}

func (s *Server) listSubscriptions(c *gin.Context) {
	resp, err := s.subscriptionSvc.ListSubscriptions(c.Request.Context(), GetUserID(c), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

// listChannelSubscribers resolves the channel by username, then lists
// its subscribers.
func (s *Server) listChannelSubscribers(c *gin.Context) {
	channel, err := s.channelSvc.GetChannel(c.Request.Context(), GetUserID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := s.subscriptionSvc.ListSubscribers(c.Request.Context(), channel.ID, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}
