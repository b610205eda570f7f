package http

import (
	"github.com/gin-gonic/gin"

	"vidhub/pkg/models"
)

func (s *Server) addComment(c *gin.Context) {
	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid comment payload")
		return
	}

	resp, err := s.commentSvc.Add(c.Request.Context(), GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, "comment added", resp)
}

func (s *Server) listComments(c *gin.Context) {
	resp, err := s.commentSvc.ListByVideo(c.Request.Context(), c.Param("id"), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) listReplies(c *gin.Context) {
	resp, err := s.commentSvc.ListReplies(c.Request.Context(), c.Param("id"), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) updateComment(c *gin.Context) {
	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid comment payload")
		return
	}

	resp, err := s.commentSvc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "comment updated", resp)
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.commentSvc.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "comment deleted", nil)
}
