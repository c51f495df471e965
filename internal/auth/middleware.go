package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/models"
)

// LoginPath is where anonymous visitors of protected pages are sent
const LoginPath = "/auth/login/"

// NextParam carries the page to return to after login
const NextParam = "next"

const userContextKey = "user"

// UserLookup resolves the user a session was issued for
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ErrorHandler renders a failure that stops the request
type ErrorHandler func(c *gin.Context, err error)

// Middleware resolves the session cookie to a user and stores it in the
// context. Invalid sessions are cleared and the request continues anonymously.
// A failing lookup is passed to onError and the chain is aborted; with a nil
// onError the request ends with a bare 500.
func (s *Sessions) Middleware(users UserLookup, onError ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		userID, err := s.Parse(token)
		if err != nil {
			s.ClearCookie(c)
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			err = fmt.Errorf("auth: failed to load session user %d: %w", userID, err)
			_ = c.Error(err)
			if onError == nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			onError(c, err)
			c.Abort()
			return
		}
		if user == nil {
			s.ClearCookie(c)
			c.Next()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// Login issues a session for user and sets the cookie
func (s *Sessions) Login(c *gin.Context, user *models.User) error {
	token, err := s.Issue(user.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	c.Set(userContextKey, user)
	return nil
}

// ClearCookie expires the session cookie
func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, "", -1, "/", "", s.secure, true)
}

// Logout expires the session cookie and forgets the user for this request
func (s *Sessions) Logout(c *gin.Context) {
	s.ClearCookie(c)
	c.Set(userContextKey, (*models.User)(nil))
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to the login page, carrying the
// requested path in the next parameter
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL returns the login page URL that returns to next afterwards
func LoginURL(next string) string {
	return LoginPath + "?" + NextParam + "=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext returns next when it is a local absolute path, otherwise fallback
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
