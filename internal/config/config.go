package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr          string
	Port                string
	DatabasePath        string
	SessionSecret       string
	GinMode             string
	StorageDir          string
	PublicBucket        string
	PrivateBucket       string
	PublicBucketURLPath string
	ProxyPath           string
	ProxyCacheMaxAge    int
	SiteBaseURL         string
	SuperRootUserName   string
	SuperRootPassword   string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "inkgate.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "inkgate-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	storageDir := strings.TrimSpace(os.Getenv("STORAGE_DIR"))
	if storageDir == "" {
		storageDir = "web/storage"
	}

	publicBucket := strings.TrimSpace(os.Getenv("PUBLIC_BUCKET"))
	if publicBucket == "" {
		publicBucket = "blog-images-public"
	}

	privateBucket := strings.TrimSpace(os.Getenv("PRIVATE_BUCKET"))
	if privateBucket == "" {
		privateBucket = "blog-images-paid"
	}

	publicBucketURLPath := strings.TrimSpace(os.Getenv("PUBLIC_BUCKET_URL_PATH"))
	if publicBucketURLPath == "" {
		publicBucketURLPath = "/static/public"
	}

	proxyPath := strings.TrimSpace(os.Getenv("PROXY_PATH"))
	if proxyPath == "" {
		proxyPath = "/api/storage/proxy"
	}

	// 代理响应的缓存时长是可配置的默认值，而不是写死的策略
	proxyCacheMaxAge := 3600
	if raw := strings.TrimSpace(os.Getenv("PROXY_CACHE_MAX_AGE")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			proxyCacheMaxAge = parsed
		}
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))

	superRootUserName := strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME"))
	superRootPassword := strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD"))

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabasePath:        databasePath,
		SessionSecret:       sessionSecret,
		GinMode:             ginMode,
		StorageDir:          storageDir,
		PublicBucket:        publicBucket,
		PrivateBucket:       privateBucket,
		PublicBucketURLPath: publicBucketURLPath,
		ProxyPath:           proxyPath,
		ProxyCacheMaxAge:    proxyCacheMaxAge,
		SiteBaseURL:         siteBaseURL,
		SuperRootUserName:   superRootUserName,
		SuperRootPassword:   superRootPassword,
	}
}
