// Package response renders usecase errors as JSON HTTP responses.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes {"error": msg} with the status matching err's kind. Server
// side failures are logged with the underlying cause.
func Error(c *gin.Context, log logger.ZapLogger, op string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error(op, zap.Error(err), zap.String("kind", apperr.KindOf(err).String()))
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// BadRequest reports a body that could not be decoded.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}
