package models

import (
	"time"
)

// 任务状态
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// 任务优先级
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// TaskStatuses 所有合法的任务状态
var TaskStatuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// TaskPriorities 所有合法的任务优先级
var TaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Task 任务模型
type Task struct {
	ID            string           `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title         string           `gorm:"type:varchar(200)" json:"title"`
	Description   string           `gorm:"type:text" json:"description"`
	Priority      string           `gorm:"type:varchar(20);default:Low" json:"priority"`
	Status        string           `gorm:"type:varchar(20);default:Pending" json:"status"`
	DueDate       *time.Time       `json:"dueDate"`
	Progress      int              `gorm:"default:0" json:"progress"` // 由清单完成情况推导，0-100
	CreatedBy     string           `gorm:"type:varchar(50)" json:"createdBy"`
	Attachments   []string         `gorm:"serializer:json" json:"attachments"`
	AssignedTo    []TaskAssignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	TodoChecklist []TodoItem       `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// TodoItem 清单项模型，Position 保存展示顺序
type TodoItem struct {
	ID        string `gorm:"type:varchar(50);primaryKey" json:"id"`
	TaskID    string `gorm:"type:varchar(50);index" json:"-"`
	Text      string `gorm:"type:varchar(255)" json:"text"`
	Completed bool   `gorm:"default:false" json:"completed"`
	Position  int    `json:"-"`
}

// TaskAssignment 任务分配关系模型
type TaskAssignment struct {
	TaskID string `gorm:"type:varchar(50);primaryKey" json:"-"`
	UserID string `gorm:"type:varchar(50);primaryKey;index" json:"userId"`
}

// AssigneeIDs 返回任务的被分配人ID列表
func (t *Task) AssigneeIDs() []string {
	ids := make([]string, len(t.AssignedTo))
	for i, a := range t.AssignedTo {
		ids[i] = a.UserID
	}
	return ids
}

// IsAssignedTo 判断用户是否在任务的分配列表中
func (t *Task) IsAssignedTo(userID string) bool {
	for _, a := range t.AssignedTo {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// CompletedTodoCount 返回清单中已完成项的数量
func (t *Task) CompletedTodoCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

// IsValidStatus 判断状态取值是否合法
func IsValidStatus(status string) bool {
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPriority 判断优先级取值是否合法
func IsValidPriority(priority string) bool {
	for _, p := range TaskPriorities {
		if p == priority {
			return true
		}
	}
	return false
}
