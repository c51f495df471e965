package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// setFlash stores a one-shot message shown on the next rendered page
func (r *Router) setFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, 60, "/", "", r.opts.SecureCookies, true)
}

// popFlash returns and clears the pending message, if any
func (r *Router) popFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", r.opts.SecureCookies, true)
	return message
}
