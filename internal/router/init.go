package router

import (
	"github.com/oksasatya/go-user-timezone/internal/application"
	"github.com/oksasatya/go-user-timezone/internal/container"
	"github.com/oksasatya/go-user-timezone/internal/infrastructure/sqlite"
	handlers "github.com/oksasatya/go-user-timezone/internal/interface/http"
	"github.com/oksasatya/go-user-timezone/internal/router/modules"
)

// InitModules builds the feature modules from the shared container and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) error {
	cfg := container.GetConfig()

	userRepo := sqlite.NewUserRepository(container.GetDB())
	userSvc := application.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), container.GetLogger())
	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	r.Add(modules.NewUserModule(userHandler, container.GetJWT(), userRepo))

	articleRepo := sqlite.NewArticleRepository(container.GetDB())
	articleSvc := application.NewArticleService(articleRepo, container.GetLogger())
	articleHandler, err := handlers.NewArticleHandler(articleSvc, container.GetUTZ(), cfg.LocalizedTimeFormat, container.GetLogger())
	if err != nil {
		return err
	}
	r.Add(modules.NewArticleModule(articleHandler, container.GetJWT(), userRepo))

	return nil
}
