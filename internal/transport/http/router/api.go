package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"artist-management/internal/core/auth"
	"artist-management/internal/core/config"
	"artist-management/internal/core/server"
	"artist-management/internal/service"
	"artist-management/internal/transport/http/handler"
	mdw "artist-management/internal/transport/http/middleware"
)

// Deps NewAPIEngine 需要的全部依赖，由 main 组装
type Deps struct {
	Log     *zap.Logger
	Cfg     *config.Config
	JWT     *auth.JWTer
	Users   *service.UserService
	Artists *service.ArtistService
	Music   *service.MusicService
}

func NewAPIEngine(d Deps) *gin.Engine {
	cfg := d.Cfg
	r := server.NewRouter(d.Log, cfg.CORS.AllowOrigins)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(cfg.Limits.RPS), cfg.Limits.Burst),
		mdw.ConcurrencyLimit(cfg.Limits.MaxConcurrent),
		mdw.MaxBodyBytes(cfg.Limits.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(cfg.Limits.RequestTimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 导出的 CSV
	if cfg.Export.URLPrefix != "" && cfg.Export.Dir != "" {
		r.Static(cfg.Export.URLPrefix, cfg.Export.Dir)
	}

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT))

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(d.Users, mdw.RateLimitPerIP(rate.Limit(cfg.Limits.AuthRPS), cfg.Limits.AuthBurst), d.Log),
		handler.NewUserHandler(d.Users, d.Log),
		handler.NewArtistHandler(d.Artists, d.Music, d.Log),
		handler.NewMusicHandler(d.Music, d.Log),
	)
	reg.MountAll(api, authed)

	return r
}
