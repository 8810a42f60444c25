package handlers

import (
	"net/http"
	"strconv"

	"microblog/internal/avatar"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 512

// @Summary      User avatar
// @Description  PNG with the upper-cased first character of the username on a blue square.
// @Tags         users
// @Produce      png
// @Param        username  path   string  true   "Username"
// @Param        size      query  int     false  "Edge length in pixels (default 100, max 512)"
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Router       /avatar/{username} [get]
func (h *Handler) avatar(c *gin.Context) {
	width, height := avatar.DefaultWidth, avatar.DefaultHeight
	if qs := c.Query("size"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n <= 0 || n > maxAvatarSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
			return
		}
		width, height = n, n
	}

	png, err := h.services.Render(avatar.FirstLetter(c.Param("username")), width, height)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("avatar_render_failed", "username", c.Param("username"), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
