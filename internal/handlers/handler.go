package handlers

import (
	"net/http"
	"time"

	_ "microblog/docs" // registers the swagger spec
	"microblog/internal/logger"
	"microblog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultCookieName = "microblog_session"
	defaultCookieTTL  = 24 * time.Hour

	statusOK = "ok"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	log         *logger.Logger
	cookie      CookieConfig
	authLimiter *IPRateLimiter
}

type Option func(*Handler)

func WithCookie(cfg CookieConfig) Option {
	return func(h *Handler) {
		if cfg.Name != "" {
			h.cookie.Name = cfg.Name
		}
		if cfg.TTL > 0 {
			h.cookie.TTL = cfg.TTL
		}
		h.cookie.Secure = cfg.Secure
	}
}

// WithAuthRateLimit throttles login and registration with l. A nil l leaves them unthrottled.
func WithAuthRateLimit(l *IPRateLimiter) Option {
	return func(h *Handler) {
		h.authLimiter = l
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		log:      log,
		cookie:   CookieConfig{Name: defaultCookieName, TTL: defaultCookieTTL},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	// match on the escaped path so /avatar/a%2Fb reaches the avatar route
	router.UseRawPath = true
	router.Use(gin.Recovery())
	if h.log != nil {
		router.Use(h.requestLog)
	}
	router.Use(securityHeaders, h.sessionMiddleware)
	router.SetHTMLTemplate(pageTemplates)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerPublicRoutes(router)
	h.registerAuthRoutes(router)
	h.registerProtectedRoutes(router)

	// live feed over HTTP upgrade, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerPublicRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/error", h.errorPage)
	r.GET("/post/:id", h.showPost)
	r.GET("/avatar/:username", h.avatar)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/register", h.registerForm)
	r.GET("/login", h.loginForm)
	r.GET("/logout", h.logout)

	auth := r.Group("/")
	if h.authLimiter != nil {
		auth.Use(h.authLimiter.Middleware())
	}
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerProtectedRoutes(r *gin.Engine) {
	protected := r.Group("/", h.requireAuth)
	{
		protected.POST("/posts", h.createPost)
		protected.POST("/like/:id", h.likePost)
		protected.POST("/delete/:id", h.deletePost)
		protected.GET("/profile", h.profile)
		protected.GET("/activity", h.getActivity)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
