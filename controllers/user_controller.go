package controllers

import (
	"net/http"

	"TaskFlowGo/config"
	"TaskFlowGo/models"
	"TaskFlowGo/services"

	"github.com/gin-gonic/gin"
)

// UserController 用户控制器
type UserController struct {
	reports *services.ReportService
}

func NewUserController(reports *services.ReportService) *UserController {
	return &UserController{reports: reports}
}

// GetUsers 列出所有成员及其名下任务的状态统计（仅管理员）
func (uc *UserController) GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Where("role = ?", models.RoleMember).Find(&users).Error; err != nil {
		config.Logger.Errorw("获取用户列表失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户列表失败"})
		return
	}

	result := make([]models.UserWithTaskCounts, 0, len(users))
	for i := range users {
		pending, inProgress, completed, err := uc.reports.CountsForUser(c.Request.Context(), users[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		result = append(result, models.UserWithTaskCounts{
			UserResponse:    models.NewUserResponse(&users[i]),
			PendingTasks:    pending,
			InProgressTasks: inProgress,
			CompletedTasks:  completed,
		})
	}

	c.JSON(http.StatusOK, result)
}

// GetUserByID 查询单个用户
func (uc *UserController) GetUserByID(c *gin.Context) {
	var user models.User
	if err := config.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(&user))
}
