// Package http is the REST boundary. Handlers bind input, call the
// core and translate AppError codes into statuses; no business rules
// live here.
package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"vidhub/pkg/logger"
	"vidhub/pkg/models"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(c *gin.Context, err error) {
	status := models.StatusOf(err)

	message := "internal server error"
	var appErr *models.AppError
	if errors.As(err, &appErr) && status < 500 {
		message = appErr.Message
	}
	if status >= 500 {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, models.NewInvalidInput(message))
}
