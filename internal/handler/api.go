package handler

import (
	"strings"

	"github.com/inkgate/internal/config"
	"github.com/inkgate/internal/service"
	"github.com/inkgate/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	blogs       *service.BlogService
	media       *service.MediaService
	proxy       *service.ProxyService
	profiles    *service.ProfileService
	cacheMaxAge int
}

// NewAPI constructs a handler set with shared services.
// 存储协作方在这里显式装配，测试可以换成假实现。
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	publicBaseURL := strings.TrimSuffix(cfg.SiteBaseURL, "/") + cfg.PublicBucketURLPath
	store := storage.NewDisk(cfg.StorageDir, publicBaseURL)
	resolver := service.NewTierResolver(cfg.PublicBucket, cfg.PrivateBucket)

	return &API{
		db:          gdb,
		blogs:       service.NewBlogService(gdb),
		media:       service.NewMediaService(store, resolver, cfg.ProxyPath),
		proxy:       service.NewProxyService(store),
		profiles:    service.NewProfileService(gdb),
		cacheMaxAge: cfg.ProxyCacheMaxAge,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
