package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/document"
	"github.com/inkgate/internal/service"
)

type blogRequest struct {
	Title    string          `json:"title"`
	Tier     string          `json:"tier"`
	Document json.RawMessage `json:"document"`
}

type tierRequest struct {
	Tier string `json:"tier"`
}

// CreateBlog 首次保存文章：校验后整体落库并返回稳定标识。
func (a *API) CreateBlog(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	tier, err := document.ParseTier(req.Tier)
	if err != nil {
		respondError(c, http.StatusBadRequest, "访问层级不合法")
		return
	}

	blog, err := a.blogs.Create(service.BlogInput{
		Title:    req.Title,
		Tier:     tier,
		Document: req.Document,
		UserID:   currentUserID(c),
	})
	if err != nil {
		a.respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         blog.ID,
		"title":      blog.Title,
		"tier":       blog.Tier,
		"created_at": blog.CreatedAt,
	})
}

// UpdateBlog 按首次保存创建的标识整体覆盖文档。
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "文章 ID 不合法")
		return
	}

	var req blogRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	blog, err := a.blogs.Update(id, service.BlogInput{
		Title:    req.Title,
		Document: req.Document,
	})
	if err != nil {
		a.respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         blog.ID,
		"title":      blog.Title,
		"tier":       blog.Tier,
		"updated_at": blog.UpdatedAt,
	})
}

// GetBlog 返回原始文档、渲染结果与作者信息。
func (a *API) GetBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "文章 ID 不合法")
		return
	}

	blog, err := a.blogs.Get(id)
	if err != nil {
		a.respondBlogError(c, err)
		return
	}

	// 文档按原文读回；渲染失败的个别区块由渲染器内部跳过
	doc, parseErr := document.Parse([]byte(blog.Content))
	var rendered []document.Rendered
	if parseErr == nil {
		rendered = document.Render(doc)
	} else {
		rendered = []document.Rendered{}
	}

	author := blog.User.FullName
	if author == "" {
		author = blog.User.Username
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         blog.ID,
		"title":      blog.Title,
		"tier":       blog.Tier,
		"document":   json.RawMessage(blog.Content),
		"rendered":   rendered,
		"author":     author,
		"created_at": blog.CreatedAt,
	})
}

// ListBlogs 按当前读者的订阅档位过滤文章列表。
func (a *API) ListBlogs(c *gin.Context) {
	plan := a.profiles.PlanOf(currentUserID(c))
	summaries, err := a.blogs.List(plan)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": summaries, "plan": plan})
}

// ChangeBlogTier 是作者显式切换访问层级的入口。
func (a *API) ChangeBlogTier(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "文章 ID 不合法")
		return
	}

	var req tierRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	tier, err := document.ParseTier(req.Tier)
	if err != nil {
		respondError(c, http.StatusBadRequest, "访问层级不合法")
		return
	}

	if err := a.blogs.ChangeTier(id, tier); err != nil {
		a.respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "tier": tier})
}

// DeleteBlog 删除文章
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "文章 ID 不合法")
		return
	}

	if err := a.blogs.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// respondBlogError 将服务层错误映射为可区分的 HTTP 状态，
// 调用方 UI 据此提示"重新登录"还是"内容为空"。
func (a *API) respondBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "文章不存在")
	case errors.Is(err, service.ErrTitleRequired):
		respondError(c, http.StatusBadRequest, "标题不能为空")
	case errors.Is(err, document.ErrEmptyDocument):
		respondError(c, http.StatusBadRequest, "内容不能为空")
	case errors.Is(err, document.ErrInvalidBlock):
		respondError(c, http.StatusBadRequest, "文档包含非法区块")
	case errors.Is(err, document.ErrInvalidJSON):
		respondError(c, http.StatusBadRequest, "文档格式错误")
	case errors.Is(err, document.ErrInvalidTier):
		respondError(c, http.StatusBadRequest, "访问层级不合法")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
