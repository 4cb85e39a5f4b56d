// Package commands 运维命令行：迁移、初始化超级管理员、CSV 导入导出
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"artist-management/internal/core/cache"
	"artist-management/internal/core/config"
	"artist-management/internal/core/database"
	"artist-management/internal/core/logger"
	"artist-management/internal/repo"
	"artist-management/internal/service"
)

type rootOpts struct {
	configPath string
}

func NewRootCmd() *cobra.Command {
	o := &rootOpts{}
	root := &cobra.Command{
		Use:   "admin",
		Short: "Artist management operator tool",
		Long: `Operator commands for the artist management backend.

Examples:
  admin migrate
  admin create-superadmin --email root@example.com --password '...'
  admin import artists.csv
  admin export --out artists.csv
  admin csv-template > artists.csv`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Config file (YAML)")

	root.AddCommand(
		newMigrateCmd(o),
		newCreateSuperAdminCmd(o),
		newImportCmd(o),
		newExportCmd(o),
		newTemplateCmd(),
	)
	return root
}

// env 每个子命令各自打开，结束时关闭
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	users   *service.UserService
	artists *service.ArtistService
	close   func()
}

func (o *rootOpts) open() (*env, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return nil, err
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	db, err := database.NewGorm(database.OptsFromConfig(cfg.DB, log))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open database: %w", err)
	}
	// 与 API 共用 Redis，导入后能失效 artist 下拉缓存
	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	userRepo, artistRepo := repo.NewUserRepo(db), repo.NewArtistRepo(db)
	e := &env{
		cfg:   cfg,
		log:   log,
		db:    db,
		users: service.NewUserService(userRepo, nil, rc, log),
		artists: service.NewArtistService(artistRepo, userRepo, rc, time.Duration(cfg.Redis.LabelTTLSec)*time.Second, service.ExportOptions{
			Dir:       cfg.Export.Dir,
			PublicURL: cfg.App.PublicURL,
			URLPrefix: cfg.Export.URLPrefix,
		}, log),
	}
	e.close = func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = rc.Close()
		cleanup()
	}
	return e, nil
}
