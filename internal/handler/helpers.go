package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// bindRequest binds the body into req: JSON normally, form fields when the
// client sends multipart (image uploads). Returns false and writes the error
// response if binding fails — the caller should return immediately.
func bindRequest(c *gin.Context, req interface{}) bool {
	var err error
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		err = c.ShouldBind(req)
	} else {
		err = c.ShouldBindJSON(req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Payload{Message: "Malformed request body"})
		return false
	}
	return true
}

// parseID reads the :id path param; an unparseable id cannot resolve to a
// row, so it reports 404 like any other miss.
func parseID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.Payload{Message: notFound})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service failures onto the wire: apierror values carry
// their own status and envelope; anything else is an opaque 500.
func respondError(c *gin.Context, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apiErr.Payload)
		return
	}
	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Str("method", c.Request.Method).
		Err(err).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, apierror.Payload{Message: "Internal server error"})
}
