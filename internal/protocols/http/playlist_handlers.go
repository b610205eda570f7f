package http

import (
	"github.com/gin-gonic/gin"

	"vidhub/pkg/models"
)

func (s *Server) createPlaylist(c *gin.Context) {
	var req models.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid playlist payload")
		return
	}

	resp, err := s.playlistSvc.Create(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, "playlist created", resp)
}

func (s *Server) getPlaylist(c *gin.Context) {
	resp, err := s.playlistSvc.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) listUserPlaylists(c *gin.Context) {
	page := pageFromQuery(c)
	playlists, meta, err := s.playlistSvc.ListByUser(c.Request.Context(), GetUserID(c), c.Param("user_id"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", gin.H{
		"playlists":    playlists,
		"current_page": meta.CurrentPage,
		"total_pages":  meta.TotalPages,
		"total_count":  meta.TotalCount,
	})
}

func (s *Server) updatePlaylist(c *gin.Context) {
	var req models.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid playlist payload")
		return
	}

	resp, err := s.playlistSvc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "playlist updated", resp)
}

func (s *Server) deletePlaylist(c *gin.Context) {
	if err := s.playlistSvc.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "playlist deleted", nil)
}

func (s *Server) addPlaylistVideo(c *gin.Context) {
	resp, err := s.playlistSvc.AddVideo(c.Request.Context(), GetUserID(c), c.Param("id"), c.Param("video_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "video added to playlist", resp)
}

func (s *Server) removePlaylistVideo(c *gin.Context) {
	resp, err := s.playlistSvc.RemoveVideo(c.Request.Context(), GetUserID(c), c.Param("id"), c.Param("video_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "video removed from playlist", resp)
}
