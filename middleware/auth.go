package middleware

import (
	"net/http"
	"strings"

	"TaskFlowGo/models"
	"TaskFlowGo/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证中间件，解析JWT并把调用方身份写入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未提供认证信息"})
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		// 解析 JWT
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的认证信息"})
			return
		}

		// 将调用方身份存储在 gin.Context 中
		c.Set("uid", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminOnly 管理员专用路由的角色检查，必须在 AuthMiddleware 之后使用
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "仅限管理员访问"})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal 从上下文取出经过认证的调用方身份
func CurrentPrincipal(c *gin.Context) models.Principal {
	return models.Principal{
		ID:   c.GetString("uid"),
		Role: c.GetString("role"),
	}
}
