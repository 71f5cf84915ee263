package controllers

import (
	"errors"
	"net/http"

	"TaskFlowGo/config"
	"TaskFlowGo/services"

	"github.com/gin-gonic/gin"
)

// respondError 将服务层错误映射为HTTP响应，
// 内部错误只记日志，不把原始错误文本返回给调用方
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "没有操作权限"})
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
	default:
		config.Logger.Errorw("请求处理失败",
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}
