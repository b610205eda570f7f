package http

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"vidhub/pkg/logger"
	"vidhub/pkg/models"
	"vidhub/pkg/utils"
)

// saveUpload writes the named multipart file to a temp path for the
// core to pick up. Returns an empty path when the field is absent.
func saveUpload(c *gin.Context, field string) (string, func(), error) {
	noop := func() {}

	file, err := c.FormFile(field)
	if err != nil {
		return "", noop, nil
	}

	dst := filepath.Join(os.TempDir(), utils.NewID("upload")+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", noop, err
	}
	cleanup := func() {
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			logger.Warnf("temp upload %s: %v", dst, err)
		}
	}
	return dst, cleanup, nil
}

func pageFromQuery(c *gin.Context) models.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return models.NormalizePage(page, size)
}

func (s *Server) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	secure := s.config.Logging.Env == "production"
	c.SetCookie(accessTokenCookie, accessToken, int(s.config.JWT.AccessExpiry.Seconds()), "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, int(s.config.JWT.RefreshExpiry.Seconds()), "/", "", secure, true)
}

func (s *Server) clearAuthCookies(c *gin.Context) {
	secure := s.config.Logging.Env == "production"
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", secure, true)
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid registration payload")
		return
	}

	avatarPath, cleanupAvatar, err := saveUpload(c, "avatar")
	if err != nil {
		respondError(c, models.NewInternal("store avatar upload", err))
		return
	}
	defer cleanupAvatar()

	coverPath, cleanupCover, err := saveUpload(c, "cover_image")
	if err != nil {
		respondError(c, models.NewInternal("store cover upload", err))
		return
	}
	defer cleanupCover()

	user, err := s.authSvc.Register(c.Request.Context(), req, avatarPath, coverPath)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 201, "user registered", user)
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid login payload")
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	s.setAuthCookies(c, resp.AccessToken, resp.RefreshToken)
	respond(c, 200, "logged in", resp)
}

func (s *Server) refreshTokens(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req models.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondError(c, models.NewUnauthorized("missing refresh token", models.ErrUnauthorized))
		return
	}

	pair, err := s.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	s.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, 200, "tokens refreshed", pair)
}

func (s *Server) logout(c *gin.Context) {
	if err := s.authSvc.Logout(c.Request.Context(), GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	s.clearAuthCookies(c)
	respond(c, 200, "logged out", nil)
}

func (s *Server) getCurrentUser(c *gin.Context) {
	user, err := s.authSvc.GetCurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "", user)
}

func (s *Server) changePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid password payload")
		return
	}

	if err := s.authSvc.ChangePassword(c.Request.Context(), GetUserID(c), req); err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "password changed", nil)
}

func (s *Server) updateAccount(c *gin.Context) {
	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid account payload")
		return
	}

	user, err := s.authSvc.UpdateAccount(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "account updated", user)
}

func (s *Server) updateAvatar(c *gin.Context) {
	path, cleanup, err := saveUpload(c, "avatar")
	if err != nil {
		respondError(c, models.NewInternal("store avatar upload", err))
		return
	}
	defer cleanup()

	user, err := s.authSvc.UpdateAvatar(c.Request.Context(), GetUserID(c), path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "avatar updated", user)
}

func (s *Server) updateCoverImage(c *gin.Context) {
	path, cleanup, err := saveUpload(c, "cover_image")
	if err != nil {
		respondError(c, models.NewInternal("store cover upload", err))
		return
	}
	defer cleanup()

	user, err := s.authSvc.UpdateCoverImage(c.Request.Context(), GetUserID(c), path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, 200, "cover image updated", user)
}
