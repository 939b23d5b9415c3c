package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/service"
)

// GetProfile 返回当前读者的档案，Bio 已渲染为安全 HTML。
func (a *API) GetProfile(c *gin.Context) {
	view, err := a.profiles.Get(currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "档案不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取档案失败")
		return
	}
	c.JSON(http.StatusOK, view)
}
