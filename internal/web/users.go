package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

// signup registers a new account and logs it in
func (r *Router) signup(c *gin.Context) error {
	data := gin.H{"title": "Sign up", "username": ""}
	if c.Request.Method != http.MethodPost {
		r.render(c, http.StatusOK, "users/signup.html", data)
		return nil
	}

	ctx := c.Request.Context()
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password1")
	data["username"] = username

	fail := func(message string) error {
		data["error"] = message
		r.render(c, http.StatusOK, "users/signup.html", data)
		return nil
	}

	if err := auth.ValidateCredentials(username, password); err != nil {
		return fail(err.Error())
	}
	if password != c.PostForm("password2") {
		return fail("The two password fields didn't match")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{Username: username, PasswordHash: hash}
	if err := r.stores.Users.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return fail(auth.ErrUsernameTaken.Error())
		}
		return err
	}
	r.logger.Info("User registered", zap.String("username", username))

	if err := r.sessions.Login(c, user); err != nil {
		return err
	}
	c.Redirect(http.StatusFound, "/")
	return nil
}

// login authenticates a user and returns them to the page they came from
func (r *Router) login(c *gin.Context) error {
	next := c.Query(auth.NextParam)
	if c.Request.Method == http.MethodPost {
		next = c.DefaultPostForm(auth.NextParam, next)
	}
	data := gin.H{"title": "Log in", "next": next, "username": ""}

	if c.Request.Method != http.MethodPost {
		r.render(c, http.StatusOK, "users/login.html", data)
		return nil
	}

	username := strings.TrimSpace(c.PostForm("username"))
	data["username"] = username

	user, err := r.stores.Users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		return err
	}
	if user == nil || auth.CheckPassword(user.PasswordHash, c.PostForm("password")) != nil {
		data["error"] = auth.ErrInvalidCredentials.Error()
		r.render(c, http.StatusOK, "users/login.html", data)
		return nil
	}

	if err := r.sessions.Login(c, user); err != nil {
		return err
	}
	c.Redirect(http.StatusFound, auth.SafeNext(next, "/"))
	return nil
}

// logout drops the session cookie
func (r *Router) logout(c *gin.Context) error {
	r.sessions.Logout(c)
	r.render(c, http.StatusOK, "users/logged_out.html", gin.H{"title": "Logged out"})
	return nil
}
