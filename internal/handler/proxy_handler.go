package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/service"
)

// ProxyObject 解析文档里嵌入的 (namespace, path) 引用。
// 每次请求都以当前会话重新授权，后端细节不外泄，
// 响应带一个时长可配置的私有缓存头。
func (a *API) ProxyObject(c *gin.Context) {
	namespace := c.Query("namespace")
	objectPath := c.Query("path")
	if namespace == "" || objectPath == "" {
		respondError(c, http.StatusBadRequest, "缺少 namespace 或 path 参数")
		return
	}

	data, contentType, err := a.proxy.Resolve(currentUserID(c), namespace, objectPath)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondError(c, http.StatusUnauthorized, "请先登录后查看")
		case errors.Is(err, service.ErrObjectNotFound):
			respondError(c, http.StatusNotFound, "资源不存在")
		case errors.Is(err, service.ErrAccessDenied):
			respondError(c, http.StatusForbidden, "没有访问权限")
		default:
			respondError(c, http.StatusInternalServerError, "服务器内部错误")
		}
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", a.cacheMaxAge))
	c.Data(http.StatusOK, contentType, data)
}
