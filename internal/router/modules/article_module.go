package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-timezone/internal/container"
	repo "github.com/oksasatya/go-user-timezone/internal/domain/repository"
	handlers "github.com/oksasatya/go-user-timezone/internal/interface/http"
	"github.com/oksasatya/go-user-timezone/internal/interface/middleware"
	"github.com/oksasatya/go-user-timezone/pkg/helpers"
)

// ArticleModule registers article routes. Reads are public so anonymous
// visitors see stored timestamps; writes require an authenticated session.

type ArticleModule struct {
	Handler *handlers.ArticleHandler
	JWT     *helpers.JWTManager
	Users   repo.UserRepository
}

func NewArticleModule(h *handlers.ArticleHandler, jwt *helpers.JWTManager, users repo.UserRepository) *ArticleModule {
	return &ArticleModule{Handler: h, JWT: jwt, Users: users}
}

func (m *ArticleModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP())

	// Auth is optional on reads: a bound user gets localized timestamps,
	// anonymous requests fall through to the stored timezone.
	optionalAuth := middleware.OptionalAuth(container.GetRedis(), m.JWT, m.Users)
	rg.GET("/articles", readLimiter, optionalAuth, m.Handler.List)
	rg.GET("/articles/:id", readLimiter, optionalAuth, m.Handler.Get)
	rg.GET("/articles/:id/comments", readLimiter, optionalAuth, m.Handler.ListComments)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/articles", m.Handler.Create)
		auth.POST("/articles/:id/comments", m.Handler.AddComment)
	}
}
