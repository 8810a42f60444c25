package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"microblog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgUsernameTaken    = "Username already exists"
	msgUsernameRequired = "Username is required"
	msgUserNotFound     = "User not found"
	msgInvalidForm      = "Invalid form submission"
)

// bindFormOrRedirect binds the request form into dst. On failure it redirects
// back to formPath with an error message and returns false.
func (h *Handler) bindFormOrRedirect(c *gin.Context, dst any, formPath string) bool {
	if err := c.ShouldBind(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_form", "path", c.FullPath(), "err", err)
		}
		c.Redirect(http.StatusFound, formPath+"?error="+url.QueryEscape(msgInvalidForm))
		return false
	}
	return true
}

// Single, shared form payload for both registration and login.
type usernameForm struct {
	Username string `form:"username"`
}

func (h *Handler) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"title": "Register",
		"user":  currentUser(c),
		"error": c.Query("error"),
	})
}

func (h *Handler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"user":  currentUser(c),
		"error": c.Query("error"),
	})
}

func (h *Handler) register(c *gin.Context) {
	var input usernameForm
	if ok := h.bindFormOrRedirect(c, &input, "/register"); !ok {
		return
	}

	_, err := h.services.Register(c.Request.Context(), input.Username)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, service.ErrUsernameTaken):
		c.Redirect(http.StatusFound, "/register?error="+url.QueryEscape(msgUsernameTaken))
	case errors.Is(err, service.ErrUsernameRequired):
		c.Redirect(http.StatusFound, "/register?error="+url.QueryEscape(msgUsernameRequired))
	default:
		if h.log != nil {
			h.log.Errorw("register_failed", "username", input.Username, "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
	}
}

func (h *Handler) login(c *gin.Context) {
	var input usernameForm
	if ok := h.bindFormOrRedirect(c, &input, "/login"); !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.services.Authenticate(ctx, input.Username)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape(msgUserNotFound))
		return
	case errors.Is(err, service.ErrUsernameRequired):
		c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape(msgUsernameRequired))
		return
	case err != nil:
		if h.log != nil {
			h.log.Errorw("login_failed", "username", input.Username, "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}

	token, err := h.services.Start(ctx, user)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_start_failed", "username", user.Username, "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}

	h.setSessionCookie(c, token, int(h.cookie.TTL.Seconds()))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookie.Name)
	if err := h.services.End(c.Request.Context(), token); err != nil {
		if h.log != nil {
			h.log.Errorw("logout_failed", "err", err)
		}
		c.Redirect(http.StatusFound, "/error")
		return
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
