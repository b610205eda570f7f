package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vidhub/pkg/models"
)

func (s *Server) publishVideo(c *gin.Context) {
	var req models.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid video payload")
		return
	}
	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)

	videoPath, cleanupVideo, err := saveUpload(c, "video")
	if err != nil {
		respondError(c, models.NewInternal("store video upload", err))
		return
	}
	defer cleanupVideo()

	thumbnailPath, cleanupThumbnail, err := saveUpload(c, "thumbnail")
	if err != nil {
		respondError(c, models.NewInternal("store thumbnail upload", err))
		return
	}
	defer cleanupThumbnail()

	resp, err := s.videoSvc.Publish(c.Request.Context(), GetUserID(c), req, videoPath, thumbnailPath, duration)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, "video published", resp)
}

func (s *Server) getVideo(c *gin.Context) {
	resp, err := s.videoSvc.Get(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) listVideos(c *gin.Context) {
	q := models.FeedQuery{
		OwnerID:            c.Query("owner_id"),
		Search:             c.Query("search"),
		IncludeUnpublished: c.Query("include_unpublished") == "true",
		SortBy:             c.DefaultQuery("sort_by", "created_at"),
		SortDir:            models.SortDirection(c.DefaultQuery("sort_dir", "desc")),
		Page:               pageFromQuery(c),
	}

	resp, err := s.videoSvc.List(c.Request.Context(), GetUserID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) updateVideo(c *gin.Context) {
	var req models.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid video payload")
		return
	}

	resp, err := s.videoSvc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), req, "")
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "video updated", resp)
}

func (s *Server) updateThumbnail(c *gin.Context) {
	path, cleanup, err := saveUpload(c, "thumbnail")
	if err != nil {
		respondError(c, models.NewInternal("store thumbnail upload", err))
		return
	}
	defer cleanup()
	if path == "" {
		badRequest(c, "thumbnail file is required")
		return
	}

	resp, err := s.videoSvc.Update(c.Request.Context(), GetUserID(c), c.Param("id"), models.UpdateVideoRequest{}, path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "thumbnail updated", resp)
}

func (s *Server) deleteVideo(c *gin.Context) {
	if err := s.videoSvc.Delete(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "video deleted", nil)
}

func (s *Server) togglePublish(c *gin.Context) {
	video, err := s.videoSvc.TogglePublish(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "publish state toggled", video)
}

func (s *Server) shareVideo(c *gin.Context) {
	resp, err := s.videoSvc.Share(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) watchHistory(c *gin.Context) {
	resp, err := s.videoSvc.WatchHistory(c.Request.Context(), GetUserID(c), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}

func (s *Server) listUserVideos(c *gin.Context) {
	resp, err := s.channelSvc.ChannelVideos(c.Request.Context(), GetUserID(c), c.Param("user_id"), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", resp)
}
