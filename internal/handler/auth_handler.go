package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	// 查找用户
	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "username": user.Username})
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// AuthRequired 校验会话，API 调用方未登录时返回 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		c.Next()
	}
}

// currentUserID 从会话中取当前用户标识，未登录返回 0。
func currentUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	if id, ok := session.Get("user_id").(uint); ok {
		return id
	}
	return 0
}
