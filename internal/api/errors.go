package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardego/internal/apperr"
	imagepkg "github.com/youruser/cardego/internal/image"
)

// statusFor maps the error taxonomy onto HTTP status codes. Only client
// errors get a 4xx; everything else is a 500.
func statusFor(err error) int {
	var ce *apperr.ClientError
	if errors.As(err, &ce) {
		if ce.Kind == apperr.NotFound {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// publicMessage is what a 500 response says; details only go to the log.
func publicMessage(err error) string {
	var (
		ce  *apperr.ClientError
		se  *apperr.ServerError
		te  *imagepkg.TemplateError
		re  *imagepkg.RenderError
		rte *imagepkg.RetrievalError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Error()
	case errors.As(err, &te):
		return "card template error"
	case errors.As(err, &re):
		return "image render failed"
	case errors.As(err, &rte):
		return "card artwork could not be retrieved"
	case errors.As(err, &se):
		return se.Kind.String()
	}
	return "internal server error"
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", c.GetString(requestIDKey), c.Request.Method, c.Request.URL.Path, err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": publicMessage(err)})
}
