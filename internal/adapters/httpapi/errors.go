package httpapi

import (
	"net/http"
	"strconv"

	"devhub/internal/config"
	"devhub/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.BadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Internal errors are logged in full and answered generically.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		config.Logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(statusOf(kind), gin.H{"error": apperr.MessageOf(err)})
}

// pageParams reads ?page= and ?pageSize=; anything unparsable is left for the service to default.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	return page, pageSize
}
