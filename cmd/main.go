package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-timezone/config"
	"github.com/oksasatya/go-user-timezone/internal/container"
	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
	"github.com/oksasatya/go-user-timezone/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-timezone/internal/interface/middleware"
	"github.com/oksasatya/go-user-timezone/internal/router"
	"github.com/oksasatya/go-user-timezone/pkg/helpers"
	"github.com/oksasatya/go-user-timezone/pkg/utz"
	"github.com/oksasatya/go-user-timezone/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	// SQLite
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)

	// Timezone registry: user model plus the localized models.
	// Registration failures are configuration bugs, so fail fast.
	reg, err := setupTimezones(cfg)
	if err != nil {
		log.Fatalf("timezone setup failed: %v", err)
	}

	if cfg.TimezoneSignalsEnabled {
		watcher := utz.NewWatcher(reg)
		watcher.Subscribe(func(ev utz.TimezoneChangeEvent) {
			helpers.LogInfo(logger, "user timezone changed", logrus.Fields{
				"previous": ev.PreviousTimezone,
				"current":  ev.CurrentTimezone,
			})
		})
		if err := db.Use(watcher); err != nil {
			log.Fatalf("failed to install timezone watcher: %v", err)
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetDB(db)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetUTZ(reg)

	// Request validation (user_tz tag and friends)
	validation.Init()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	routes := router.NewRegistry(r)
	if err := router.InitModules(routes); err != nil {
		log.Fatalf("failed to init modules: %v", err)
	}
	routes.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// setupTimezones builds the timezone registry. Articles localize to the
// viewing user; comments localize to the article author's timezone.
func setupTimezones(cfg *config.Config) (*utz.Registry, error) {
	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return nil, err
	}
	reg := utz.NewRegistry(utz.Config{
		DefaultTimezone: loc,
		AwareStorage:    cfg.AwareStorage,
		AttributeSuffix: cfg.LocalizedSuffix,
	})
	if err := reg.RegisterUserModel(&entity.User{}, "Timezone"); err != nil {
		return nil, err
	}
	if _, err := reg.RegisterModel(&entity.Article{}, utz.Options{AllDatetimeFields: true}); err != nil {
		return nil, err
	}
	if _, err := reg.RegisterModel(&entity.Comment{}, utz.Options{
		DatetimeFields:         []string{"CreatedAt"},
		UseRelatedUserTimezone: true,
		RelatedUserPath:        "Article.Author",
	}); err != nil {
		return nil, err
	}
	return reg, nil
}
