package controllers

import (
	"net/http"

	"TaskFlowGo/middleware"
	"TaskFlowGo/models"
	"TaskFlowGo/services"

	"github.com/gin-gonic/gin"
)

// TaskController 任务控制器
type TaskController struct {
	tasks   *services.TaskService
	reports *services.ReportService
}

func NewTaskController(tasks *services.TaskService, reports *services.ReportService) *TaskController {
	return &TaskController{tasks: tasks, reports: reports}
}

// GetTasks 列出调用方可见的任务，支持 ?status= 过滤
func (tc *TaskController) GetTasks(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	resp, err := tc.tasks.ListTasks(c.Request.Context(), p, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTaskByID 查询单个任务
func (tc *TaskController) GetTaskByID(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	task, err := tc.tasks.GetTask(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": models.NewTaskResponse(task)})
}

// CreateTask 创建任务（仅管理员）
func (tc *TaskController) CreateTask(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.tasks.CreateTask(c.Request.Context(), p, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "任务创建成功",
		"task":    models.NewTaskResponse(task),
	})
}

// UpdateTask 更新任务基础字段（仅管理员）
func (tc *TaskController) UpdateTask(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.tasks.UpdateTaskFields(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "任务更新成功",
		"task":    models.NewTaskResponse(task),
	})
}

// DeleteTask 删除任务（仅管理员）
func (tc *TaskController) DeleteTask(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	if err := tc.tasks.DeleteTask(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务删除成功"})
}

// UpdateTaskStatus 显式设置任务状态（管理员或被分配人）
func (tc *TaskController) UpdateTaskStatus(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	var req models.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.tasks.SetTaskStatus(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "任务状态更新成功",
		"task":    models.NewTaskResponse(task),
	})
}

// UpdateTaskChecklist 整体替换任务清单（管理员或被分配人）
func (tc *TaskController) UpdateTaskChecklist(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	var req models.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.tasks.ReplaceChecklist(c.Request.Context(), p, c.Param("id"), req.TodoChecklist)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "任务清单更新成功",
		"task":    models.NewTaskResponse(task),
	})
}

// GetDashboardData 全量仪表盘数据（仅管理员）
func (tc *TaskController) GetDashboardData(c *gin.Context) {
	resp, err := tc.reports.Dashboard(c.Request.Context(), services.Scope{})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUserDashboardData 调用方名下任务的仪表盘数据
func (tc *TaskController) GetUserDashboardData(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)

	resp, err := tc.reports.Dashboard(c.Request.Context(), services.Scope{UserID: p.ID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
