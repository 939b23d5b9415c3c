package router

import (
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/config"
	"github.com/inkgate/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inkgate_session", store))

	// 公共桶静态挂载，free 层级的媒体走这里的永久直链
	r.Static(cfg.PublicBucketURLPath, filepath.Join(cfg.StorageDir, cfg.PublicBucket))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)

	// 代理端点自己校验会话并返回 401，不走重定向
	r.GET(cfg.ProxyPath, api.ProxyObject)

	// 需要认证的 API 路由
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.POST("/upload", api.UploadImage)

		auth.GET("/blogs", api.ListBlogs)
		auth.POST("/blogs", api.CreateBlog)
		auth.GET("/blogs/:id", api.GetBlog)
		auth.PUT("/blogs/:id", api.UpdateBlog)
		auth.PUT("/blogs/:id/tier", api.ChangeBlogTier)
		auth.DELETE("/blogs/:id", api.DeleteBlog)

		auth.GET("/profile", api.GetProfile)
	}

	return r
}
