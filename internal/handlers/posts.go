package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"microblog/internal/service"

	"github.com/gin-gonic/gin"
)

type postForm struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
}

// likeResponse is the JSON body of POST /like/:id.
type likeResponse struct {
	Success bool `json:"success"`
	Likes   int  `json:"likes,omitempty"`
}

func (h *Handler) index(c *gin.Context) {
	posts, err := h.services.Feed(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("feed_failed", "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Home",
		"user":  currentUser(c),
		"posts": posts,
	})
}

func (h *Handler) errorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "error.html", gin.H{
		"title": "Error",
		"user":  currentUser(c),
	})
}

func (h *Handler) showPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/error")
		return
	}
	post, err := h.services.Get(c.Request.Context(), id)
	if err != nil || post == nil {
		if err != nil && h.log != nil {
			h.log.Errorw("post_lookup_failed", "id", id, "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}
	c.HTML(http.StatusOK, "post.html", gin.H{
		"title": post.Title,
		"user":  currentUser(c),
		"post":  post,
	})
}

func (h *Handler) createPost(c *gin.Context) {
	var input postForm
	if err := c.ShouldBind(&input); err != nil {
		if h.log != nil {
			h.log.Infow("post_bad_form", "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}

	user := currentUser(c)
	if _, err := h.services.Posts.Create(c.Request.Context(), *user, input.Title, input.Content); err != nil {
		if h.log != nil {
			h.log.Errorw("post_create_failed", "username", user.Username, "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// @Summary      Like a post
// @Description  Increments the like count of a post authored by someone else.
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  likeResponse
// @Failure      302  "not logged in, redirect to /login"
// @Router       /like/{id} [post]
func (h *Handler) likePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusOK, likeResponse{Success: false})
		return
	}

	user := currentUser(c)
	likes, err := h.services.Like(c.Request.Context(), id, user.Username)
	if err != nil {
		if !errors.Is(err, service.ErrPostNotFound) && !errors.Is(err, service.ErrSelfLike) && h.log != nil {
			h.log.Errorw("post_like_failed", "id", id, "err", err)
		}
		c.JSON(http.StatusOK, likeResponse{Success: false})
		return
	}
	c.JSON(http.StatusOK, likeResponse{Success: true, Likes: likes})
}

// deletePost always lands on the profile page; refusals are silent.
func (h *Handler) deletePost(c *gin.Context) {
	if id, ok := parseID(c); ok {
		user := currentUser(c)
		err := h.services.Posts.Delete(c.Request.Context(), id, user.Username)
		if err != nil && !errors.Is(err, service.ErrPostNotFound) && !errors.Is(err, service.ErrNotOwner) && h.log != nil {
			h.log.Errorw("post_delete_failed", "id", id, "err", err)
		}
	}
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) profile(c *gin.Context) {
	user := currentUser(c)
	posts, err := h.services.ListByUser(c.Request.Context(), user.Username)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("profile_posts_failed", "username", user.Username, "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}
	c.HTML(http.StatusOK, "profile.html", gin.H{
		"title": user.Username,
		"user":  user,
		"posts": posts,
	})
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
