package web

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/pagination"
)

// PostTitleLength is the number of characters of text used as the post page title
const PostTitleLength = 30

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

// postID parses the :id route parameter; malformed ids are not found
func postID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFound
	}
	return id, nil
}

// loadPost fetches the post named by the route or fails with 404
func (r *Router) loadPost(c *gin.Context) (*models.Post, error) {
	id, err := postID(c)
	if err != nil {
		return nil, err
	}
	post, err := r.stores.Posts.GetByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errNotFound
	}
	return post, nil
}

// loadAuthor fetches the user named by the route or fails with 404
func (r *Router) loadAuthor(c *gin.Context) (*models.User, error) {
	author, err := r.stores.Users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errNotFound
	}
	return author, nil
}

// postsPage loads the requested page of posts matching filter
func (r *Router) postsPage(c *gin.Context, filter db.PostFilter) (*pagination.Page[*models.Post], error) {
	ctx := c.Request.Context()
	count, err := r.stores.Posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.Load(ctx, count, r.opts.PageSize, c.Query(pagination.QueryParam),
		func(ctx context.Context, offset, limit int) ([]*models.Post, error) {
			return r.stores.Posts.List(ctx, filter, offset, limit)
		})
}

// index lists every post, newest first
func (r *Router) index(c *gin.Context) error {
	page, err := r.postsPage(c, db.PostFilter{})
	if err != nil {
		return err
	}
	r.render(c, http.StatusOK, "posts/index.html", gin.H{
		"title":    "Latest updates",
		"page_obj": page,
	})
	return nil
}

// groupPosts lists the posts of one group
func (r *Router) groupPosts(c *gin.Context) error {
	group, err := r.stores.Groups.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	if group == nil {
		return errNotFound
	}

	page, err := r.postsPage(c, db.PostFilter{GroupID: group.ID})
	if err != nil {
		return err
	}
	r.render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"title":    group.Title,
		"group":    group,
		"page_obj": page,
	})
	return nil
}

// profile lists the posts of one author
func (r *Router) profile(c *gin.Context) error {
	ctx := c.Request.Context()
	author, err := r.loadAuthor(c)
	if err != nil {
		return err
	}

	page, err := r.postsPage(c, db.PostFilter{AuthorID: author.ID})
	if err != nil {
		return err
	}

	following := false
	if viewer := auth.CurrentUser(c); viewer != nil {
		following, err = r.stores.Follows.Exists(ctx, viewer.ID, author.ID)
		if err != nil {
			return err
		}
	}

	r.render(c, http.StatusOK, "posts/profile.html", gin.H{
		"title":               "Profile of " + author.Username,
		"author":              author,
		"page_obj":            page,
		"following":           following,
		"number_author_posts": page.Count,
	})
	return nil
}

// postDetail shows one post with its comments
func (r *Router) postDetail(c *gin.Context) error {
	ctx := c.Request.Context()
	post, err := r.loadPost(c)
	if err != nil {
		return err
	}

	authorPosts, err := r.stores.Posts.Count(ctx, db.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return err
	}
	comments, err := r.stores.Comments.ListByPost(ctx, post.ID)
	if err != nil {
		return err
	}

	r.render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"title":               models.Truncate(post.Text, PostTitleLength),
		"post":                post,
		"post_title":          models.Truncate(post.Text, PostTitleLength),
		"author":              post.Author,
		"number_author_posts": authorPosts,
		"comments":            comments,
		"form":                forms.NewCommentForm(),
	})
	return nil
}

// postCreate shows and processes the new post form
func (r *Router) postCreate(c *gin.Context) error {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	form := forms.NewPostForm(nil)

	if c.Request.Method == http.MethodPost {
		if err := r.bindPostForm(c, form); err != nil {
			return err
		}
		valid, err := form.IsValid(ctx, r.stores.Groups)
		if err != nil {
			return err
		}
		if valid {
			post, err := form.Save(r.media, nil)
			if err != nil {
				return err
			}
			post.AuthorID = user.ID
			post.Author = user
			if err := r.stores.Posts.Create(ctx, post); err != nil {
				r.removeImage(post.Image, "orphaned")
				return err
			}
			r.metrics.PostCreated(ctx)
			r.logger.Info("Post created", zap.Int64("post_id", post.ID), zap.String("author", user.Username))
			c.Redirect(http.StatusFound, profilePath(user.Username))
			return nil
		}
	}

	return r.renderPostForm(c, form, nil)
}

// postEdit shows and processes the edit form; only the author may edit
func (r *Router) postEdit(c *gin.Context) error {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	post, err := r.loadPost(c)
	if err != nil {
		return err
	}
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, postPath(post.ID))
		return nil
	}

	form := forms.NewPostForm(post)
	if c.Request.Method == http.MethodPost {
		if err := r.bindPostForm(c, form); err != nil {
			return err
		}
		valid, err := form.IsValid(ctx, r.stores.Groups)
		if err != nil {
			return err
		}
		if valid {
			previous := post.Image
			if _, err := form.Save(r.media, post); err != nil {
				return err
			}
			if err := r.stores.Posts.Update(ctx, post); err != nil {
				if post.Image != previous {
					r.removeImage(post.Image, "orphaned")
				}
				return err
			}
			if post.Image != previous {
				r.removeImage(previous, "replaced")
			}
			r.metrics.PostEdited(ctx)
			c.Redirect(http.StatusFound, postPath(post.ID))
			return nil
		}
	}

	return r.renderPostForm(c, form, post)
}

// removeImage deletes a stored image that no post references any more
func (r *Router) removeImage(rel, reason string) {
	if err := r.media.Remove(rel); err != nil {
		r.logger.Warn("Failed to remove "+reason+" image", zap.String("image", rel), zap.Error(err))
	}
}

// renderPostForm renders the create/edit page; post is nil when creating
func (r *Router) renderPostForm(c *gin.Context, form *forms.PostForm, post *models.Post) error {
	groups, err := r.stores.Groups.List(c.Request.Context())
	if err != nil {
		return err
	}

	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	r.render(c, http.StatusOK, "posts/create_post.html", gin.H{
		"title":   title,
		"form":    form,
		"groups":  groups,
		"post":    post,
		"is_edit": post != nil,
	})
	return nil
}

// bindPostForm reads the submitted text, group and image into form
func (r *Router) bindPostForm(c *gin.Context, form *forms.PostForm) error {
	if r.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, r.opts.MaxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(r.opts.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewError(http.StatusRequestEntityTooLarge, "Upload too large")
		}
		return NewError(http.StatusBadRequest, "Malformed form data")
	}

	form.Text = c.PostForm("text")
	form.Group = c.PostForm("group")
	form.Image = nil
	if c.Request.MultipartForm == nil {
		return nil
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return NewError(http.StatusBadRequest, "Malformed form data")
	}

	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	form.Image = &forms.Upload{Filename: header.Filename, Data: data}
	return nil
}

// addComment stores a comment on a post and returns to the post page
func (r *Router) addComment(c *gin.Context) error {
	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	post, err := r.loadPost(c)
	if err != nil {
		return err
	}

	form := forms.NewCommentForm()
	form.Text = c.PostForm("text")
	valid, err := form.IsValid()
	if err != nil {
		return err
	}

	if valid {
		comment := form.Save()
		comment.AuthorID = user.ID
		comment.PostID = sql.NullInt64{Int64: post.ID, Valid: true}
		if err := r.stores.Comments.Create(ctx, comment); err != nil {
			return err
		}
		r.metrics.CommentCreated(ctx)
	} else {
		r.setFlash(c, "Comment not added: "+strings.Join(form.Errors.Get("text"), " "))
	}

	c.Redirect(http.StatusFound, postPath(post.ID))
	return nil
}
