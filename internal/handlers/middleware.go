package handlers

import (
	"net/http"
	"time"

	"microblog/internal/models"
	"microblog/internal/session"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "currentUser"

// sessionMiddleware resolves the session cookie into a current user for every request.
// A session whose user no longer exists leaves the request anonymous.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, _ := c.Cookie(h.cookie.Name)
	if token == "" {
		c.Next()
		return
	}

	ctx := c.Request.Context()
	sess := h.services.Sessions.Resolve(ctx, token)

	if _, ok := sess.(session.Authenticated); ok {
		user, err := h.services.Accounts.CurrentUser(ctx, sess)
		if err != nil && h.log != nil {
			h.log.Errorw("current_user_lookup_failed", "err", err)
		}
		if err == nil && user != nil {
			c.Set(ctxUserKey, user)
		}
	}
	c.Next()
}

// requireAuth redirects to /login unless the request has a current user.
func (h *Handler) requireAuth(c *gin.Context) {
	if currentUser(c) == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// currentUser returns the user resolved by sessionMiddleware, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "same-origin")
	c.Next()
}

// requestLog logs each request with method, path, status, duration, and size.
func (h *Handler) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration_ms", time.Since(start).Milliseconds(),
		"size", c.Writer.Size(),
		"client_ip", c.ClientIP(),
	)
}
