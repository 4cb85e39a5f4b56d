package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"artist-management/internal/core/auth"
	"artist-management/internal/core/cache"
	"artist-management/internal/core/config"
	"artist-management/internal/core/database"
	"artist-management/internal/core/logger"
	"artist-management/internal/core/server"
	"artist-management/internal/repo"
	"artist-management/internal/service"
	"artist-management/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("artist api exited", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	db, err := database.NewGorm(database.OptsFromConfig(cfg.DB, log))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("automigrate done")
	}

	// Redis 可选；未配置或不可达时 artist 下拉直接查库
	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = rc.Close() }()
	if err := rc.Ping(ctx); err != nil {
		log.Warn("redis unreachable, falling back to database", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		Leeway: time.Duration(cfg.JWT.LeewaySec) * time.Second,
	}

	userRepo, artistRepo, musicRepo := repo.NewUserRepo(db), repo.NewArtistRepo(db), repo.NewMusicRepo(db)
	artists := service.NewArtistService(artistRepo, userRepo, rc,
		time.Duration(cfg.Redis.LabelTTLSec)*time.Second,
		service.ExportOptions{Dir: cfg.Export.Dir, PublicURL: cfg.App.PublicURL, URLPrefix: cfg.Export.URLPrefix},
		log,
	)
	engine := router.NewAPIEngine(router.Deps{
		Log:     log,
		Cfg:     cfg,
		JWT:     jwter,
		Users:   service.NewUserService(userRepo, jwter, rc, log),
		Artists: artists,
		Music:   service.NewMusicService(musicRepo, artistRepo, artists.Labels, log),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, engine,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host := cfg.App.HTTP.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	base := "http://" + host + ":" + strconv.Itoa(cfg.App.HTTP.Port)
	log.Info("artist api starting",
		zap.String("addr", addr),
		zap.String("health", base+"/health"),
		zap.String("api_v1", base+"/api/v1"),
		zap.Bool("redis", rc != nil),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("artist api stopped gracefully")
	return nil
}
