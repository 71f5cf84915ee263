package models

import (
	"fmt"
	"time"
)

// TodoItemRequest 清单项请求结构体
type TodoItemRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CreateTaskRequest 创建任务请求结构体
type CreateTaskRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      string            `json:"priority"`
	DueDate       *time.Time        `json:"dueDate"`
	AssignedTo    []string          `json:"assignedTo"`
	Attachments   []string          `json:"attachments"`
	TodoChecklist []TodoItemRequest `json:"todoChecklist"`
}

func (r *CreateTaskRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.DueDate == nil {
		return fmt.Errorf("dueDate is required")
	}
	if len(r.AssignedTo) == 0 {
		return fmt.Errorf("assignedTo must be a non-empty array of user IDs")
	}
	if r.Priority != "" && !IsValidPriority(r.Priority) {
		return fmt.Errorf("invalid priority, must be one of: Low, Medium, High")
	}
	return nil
}

// UpdateTaskRequest 更新任务字段请求结构体，零值字段表示不修改
type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  []string   `json:"assignedTo"`
	Attachments []string   `json:"attachments"`
}

func (r *UpdateTaskRequest) Validate() error {
	if r.Priority != "" && !IsValidPriority(r.Priority) {
		return fmt.Errorf("invalid priority, must be one of: Low, Medium, High")
	}
	if r.AssignedTo != nil && len(r.AssignedTo) == 0 {
		return fmt.Errorf("assignedTo must be a non-empty array of user IDs")
	}
	return nil
}

// UpdateTaskStatusRequest 更新任务状态请求结构体
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r *UpdateTaskStatusRequest) Validate() error {
	if !IsValidStatus(r.Status) {
		return fmt.Errorf("invalid status, must be one of: Pending, In Progress, Completed")
	}
	return nil
}

// UpdateChecklistRequest 替换任务清单请求结构体
type UpdateChecklistRequest struct {
	TodoChecklist []TodoItemRequest `json:"todoChecklist"`
}

// RegisterRequest 用户注册请求结构体
type RegisterRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

// LoginRequest 用户登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 更新用户资料请求结构体，空字段表示不修改
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
