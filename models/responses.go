package models

import (
	"strings"
	"time"
)

// TaskResponse 任务响应结构体
type TaskResponse struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	DueDate            *time.Time `json:"dueDate"`
	Progress           int        `json:"progress"`
	CreatedBy          string     `json:"createdBy"`
	AssignedTo         []string   `json:"assignedTo"`
	Attachments        []string   `json:"attachments"`
	TodoChecklist      []TodoItem `json:"todoChecklist"`
	CompletedTodoCount int        `json:"completedTodoCount"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// NewTaskResponse 将任务模型转换为响应结构体
func NewTaskResponse(t *Task) TaskResponse {
	attachments := t.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	checklist := t.TodoChecklist
	if checklist == nil {
		checklist = []TodoItem{}
	}
	return TaskResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		Priority:           t.Priority,
		Status:             t.Status,
		DueDate:            t.DueDate,
		Progress:           t.Progress,
		CreatedBy:          t.CreatedBy,
		AssignedTo:         t.AssigneeIDs(),
		Attachments:        attachments,
		TodoChecklist:      checklist,
		CompletedTodoCount: t.CompletedTodoCount(),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// StatusSummary 任务列表的状态统计
type StatusSummary struct {
	AllTasks        int64 `json:"allTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// ListTasksResponse 任务列表响应结构体
type ListTasksResponse struct {
	Tasks         []TaskResponse `json:"tasks"`
	StatusSummary StatusSummary  `json:"statusSummary"`
}

// TaskSummary 仪表盘最近任务的摘要视图
type TaskSummary struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	DueDate   *time.Time `json:"dueDate"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DashboardStatistics 仪表盘汇总数字
type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

// DashboardCharts 仪表盘图表数据，状态/优先级都做零值补齐
type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

// DashboardResponse 仪表盘响应结构体
type DashboardResponse struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []TaskSummary       `json:"recentTasks"`
}

// DistributionKey 图表里状态的键名，去掉空格（"In Progress" -> "InProgress"）
func DistributionKey(status string) string {
	return strings.ReplaceAll(status, " ", "")
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewUserResponse 将用户模型转换为响应结构体
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		CreatedAt:       u.CreatedAt,
	}
}

// UserWithTaskCounts 用户及其名下任务的状态统计
type UserWithTaskCounts struct {
	UserResponse
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}
