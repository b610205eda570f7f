package http

import (
	"github.com/gin-gonic/gin"

	"vidhub/pkg/models"
)

func (s *Server) toggleVideoLike(c *gin.Context) {
	s.toggleLike(c, models.VideoTarget(c.Param("id")))
}

func (s *Server) toggleCommentLike(c *gin.Context) {
	s.toggleLike(c, models.CommentTarget(c.Param("id")))
}

func (s *Server) toggleLike(c *gin.Context, target models.LikeTarget) {
	result, err := s.likeSvc.Toggle(c.Request.Context(), GetUserID(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", result)
}

func (s *Server) listLikedVideos(c *gin.Context) {
	resp, err := s.likeSvc.ListLikedVideos(c.Request.Context(), GetUserID(c), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) listVideoLikers(c *gin.Context) {
	s.listLikers(c, models.VideoTarget(c.Param("id")))
}

func (s *Server) listCommentLikers(c *gin.Context) {
	s.listLikers(c, models.CommentTarget(c.Param("id")))
}

func (s *Server) listLikers(c *gin.Context, target models.LikeTarget) {
	resp, err := s.likeSvc.ListLikers(c.Request.Context(), target, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}
