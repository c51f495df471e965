package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is a handler failure that maps to an error page
type Error struct {
	Code    int
	Message string
}

// NewError creates a new page error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("web error %d: %s", e.Code, e.Message)
}

var (
	errNotFound  = NewError(http.StatusNotFound, "Page not found")
	errForbidden = NewError(http.StatusForbidden, "Access denied")
)

// errorTemplates maps status codes to their error pages
var errorTemplates = map[int]string{
	http.StatusNotFound:            "core/404.html",
	http.StatusForbidden:           "core/403.html",
	http.StatusInternalServerError: "core/500.html",
}

// HandlerFunc is a page handler that reports failures as errors
type HandlerFunc func(c *gin.Context) error

// handle adapts h to gin, rendering the error page for any returned error
func (r *Router) handle(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			r.sendError(c, err)
		}
	}
}

// sendError renders the error page matching err; unknown errors are logged as 500
func (r *Router) sendError(c *gin.Context, err error) {
	var pageErr *Error
	if !errors.As(err, &pageErr) {
		r.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		pageErr = NewError(http.StatusInternalServerError, "Internal server error")
	}

	name, ok := errorTemplates[pageErr.Code]
	if !ok {
		name = errorTemplates[http.StatusInternalServerError]
	}
	r.render(c, pageErr.Code, name, gin.H{
		"title":   pageErr.Message,
		"message": pageErr.Message,
		"path":    c.Request.URL.Path,
	})
	c.Abort()
}

// notFound renders the 404 page for unmatched routes
func (r *Router) notFound(c *gin.Context) {
	r.sendError(c, errNotFound)
}

// recovery turns panics into the 500 page
func (r *Router) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		r.logger.Error("Panic while handling request",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		r.sendError(c, NewError(http.StatusInternalServerError, "Internal server error"))
	})
}
