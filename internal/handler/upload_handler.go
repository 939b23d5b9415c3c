package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/document"
	"github.com/inkgate/internal/service"
)

// UploadImage 处理图片上传请求，响应符合编辑器的预期格式。
// tier 取上传所属文章的访问层级，决定写入哪个存储桶。
func (a *API) UploadImage(c *gin.Context) {
	// 获取上传的文件
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传的图片", "success": 0})
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "只允许上传图片文件", "success": 0})
		return
	}

	tier, err := document.ParseTier(c.DefaultPostForm("tier", "free"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "访问层级不合法", "success": 0})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败", "success": 0})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败", "success": 0})
		return
	}

	ref, err := a.media.Ingest(currentUserID(c), tier, file.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "请先登录", "success": 0})
		case errors.Is(err, service.ErrUploadFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败", "success": 0})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败", "success": 0})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": "上传成功",
		"file": gin.H{
			"url":    ref.URL,
			"width":  ref.Width,
			"height": ref.Height,
		},
	})
}
