package services

import (
	"TaskFlowGo/models"
)

// Operation 任务操作类型
type Operation string

const (
	OpCreateTask    Operation = "create_task"
	OpReadTask      Operation = "read_task"
	OpEditTask      Operation = "edit_task"
	OpDeleteTask    Operation = "delete_task"
	OpSetStatus     Operation = "set_status"
	OpEditChecklist Operation = "edit_checklist"
)

// capabilityTable 集中的权限表：操作 -> 判定函数。
// 管理员可以做任何操作；成员只能读取/推进分配给自己的任务。
var capabilityTable = map[Operation]func(p models.Principal, task *models.Task) bool{
	OpCreateTask: func(p models.Principal, _ *models.Task) bool {
		return p.IsAdmin()
	},
	OpReadTask: func(p models.Principal, task *models.Task) bool {
		return p.IsAdmin() || task.IsAssignedTo(p.ID)
	},
	OpEditTask: func(p models.Principal, _ *models.Task) bool {
		return p.IsAdmin()
	},
	OpDeleteTask: func(p models.Principal, _ *models.Task) bool {
		return p.IsAdmin()
	},
	OpSetStatus: func(p models.Principal, task *models.Task) bool {
		return p.IsAdmin() || task.IsAssignedTo(p.ID)
	},
	OpEditChecklist: func(p models.Principal, task *models.Task) bool {
		return p.IsAdmin() || task.IsAssignedTo(p.ID)
	},
}

// Authorize 判断调用方是否可以对任务执行指定操作。
// 任务存在但无权限时返回 ErrForbidden；任务是否存在由调用方先行判断，
// 这样 404 和 403 不会混淆。
func Authorize(p models.Principal, op Operation, task *models.Task) error {
	allowed, ok := capabilityTable[op]
	if !ok || !allowed(p, task) {
		return ErrForbidden
	}
	return nil
}
