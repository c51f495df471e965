package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
)

// followIndex lists the posts of authors the current user follows
func (r *Router) followIndex(c *gin.Context) error {
	user := auth.CurrentUser(c)
	page, err := r.postsPage(c, db.PostFilter{FollowerID: user.ID})
	if err != nil {
		return err
	}
	r.render(c, http.StatusOK, "posts/follow.html", gin.H{
		"title":    "Subscriptions",
		"page_obj": page,
	})
	return nil
}

// profileFollow subscribes the current user to an author. Following
// yourself is silently ignored and repeated follows are no-ops.
func (r *Router) profileFollow(c *gin.Context) error {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	author, err := r.loadAuthor(c)
	if err != nil {
		return err
	}

	if author.ID != user.ID {
		created, err := r.stores.Follows.Follow(ctx, user.ID, author.ID)
		if err != nil {
			return err
		}
		if created {
			r.metrics.Followed(ctx)
			r.logger.Debug("Follow created", zap.String("user", user.Username), zap.String("author", author.Username))
		}
	}

	c.Redirect(http.StatusFound, profilePath(author.Username))
	return nil
}

// profileUnfollow removes the subscription if there is one
func (r *Router) profileUnfollow(c *gin.Context) error {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	author, err := r.loadAuthor(c)
	if err != nil {
		return err
	}

	removed, err := r.stores.Follows.Unfollow(ctx, user.ID, author.ID)
	if err != nil {
		return err
	}
	if removed {
		r.metrics.Unfollowed(ctx)
	}

	c.Redirect(http.StatusFound, profilePath(author.Username))
	return nil
}
