// Package app wires configuration into the stores, services and jobs shared
// by the API and admin binaries.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-ecommerce/internal/core/auth"
	"go-gin-ecommerce/internal/core/cache"
	"go-gin-ecommerce/internal/core/config"
	"go-gin-ecommerce/internal/core/database"
	"go-gin-ecommerce/internal/core/mail"
	"go-gin-ecommerce/internal/core/scheduler"
	"go-gin-ecommerce/internal/repo"
	"go-gin-ecommerce/internal/service"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Store *repo.Store

	Tokens     *auth.JWTer
	Details    *service.UserDetailsService
	Users      *service.UserService
	Products   *service.ProductService
	Categories *service.CategoryService
	Orders     *service.OrderService
	Auth       *service.AuthService
	Google     *service.GoogleAuth
	Files      *service.FileStore

	closers []func()
}

// New opens the database and builds every service. sender may be nil, in
// which case mail goes through SMTP or, without a host, to the log.
func New(cfg *config.Config, l *zap.Logger, sender mail.Sender) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}
	a.Store = repo.NewStore(db)

	var userCache cache.UserCache
	switch cfg.Cache.Driver {
	case "redis":
		rdb := cache.NewRedisClient(cfg.Redis)
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		userCache = cache.NewRedis(rdb, l)
		l.Info("user cache on redis", zap.String("addr", cfg.Redis.Addr))
	default:
		userCache = cache.NewMemory()
	}

	a.Tokens, err = auth.NewJWTer(auth.Options{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.TTLHours) * time.Hour,
	}, a.Store.Users())
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.Tokens.Ephemeral() {
		l.Warn("jwt.secret is not set; using a per-process signing key, tokens end with the process")
	}

	if sender == nil {
		sender = mail.New(cfg.Mail, l)
	}
	opts := service.Options{
		DownloadURL:     strings.TrimRight(cfg.App.BackendHost, "/") + "/file/download",
		VerificationTTL: time.Duration(cfg.Auth.VerificationTTLHours) * time.Hour,
		ResetTTL:        time.Duration(cfg.Auth.ResetTTLHours) * time.Hour,
	}

	a.Details = service.NewUserDetailsService(a.Store, userCache)
	a.Users = service.NewUserService(a.Store, a.Details, opts, l)
	a.Products = service.NewProductService(a.Store, opts, l)
	a.Categories = service.NewCategoryService(a.Store)
	a.Orders = service.NewOrderService(a.Store)
	a.Auth = service.NewAuthService(a.Store, a.Tokens, a.Details,
		service.NewNotifier(sender, cfg.App.Name, cfg.App.FrontendHost), opts, l)
	a.Google = service.NewGoogleAuth(cfg.Google, cfg.App.FrontendHost, a.Auth)

	a.Files = service.NewFileStore(cfg.Upload.Root, time.Duration(cfg.Upload.GraceMin)*time.Minute, a.Store, l)
	if err := a.Files.Init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Schedule registers the legacy file sweep and the unverified user purge.
func (a *App) Schedule(s *scheduler.Scheduler) error {
	if err := s.Add("remove-legacy-files", a.Cfg.Schedule.RemoveLegacyFiles, func(ctx context.Context) {
		a.Files.RemoveLegacyFiles(ctx)
	}); err != nil {
		return fmt.Errorf("schedule.removeLegacyFiles: %w", err)
	}
	if err := s.Add("reset-email-verify", a.Cfg.Schedule.ResetEmailVerify, func(ctx context.Context) {
		if _, err := a.Users.PurgeUnverified(ctx); err != nil {
			a.Log.Error("purge unverified users", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule.resetEmailVerify: %w", err)
	}
	return nil
}

// Close releases the database and cache connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
