package services

import (
	"context"
	"errors"

	"TaskFlowGo/config"
	"TaskFlowGo/models"
	"TaskFlowGo/store"
	"TaskFlowGo/utils"
)

// TaskService 任务生命周期服务，所有清单写入都经过 DeriveProgress，
// 保证 progress/status 与清单始终一致
type TaskService struct {
	store store.TaskStore
	cache *DashboardCache
}

// NewTaskService 创建任务服务
func NewTaskService(s store.TaskStore, cache *DashboardCache) *TaskService {
	return &TaskService{store: s, cache: cache}
}

// CreateTask 创建任务，仅管理员可用
func (s *TaskService) CreateTask(ctx context.Context, p models.Principal, req models.CreateTaskRequest) (*models.Task, error) {
	if err := Authorize(p, OpCreateTask, nil); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationError("%v", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityLow
	}

	task := &models.Task{
		ID:          utils.GenerateID(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedBy:   p.ID,
		Attachments: req.Attachments,
	}
	for _, uid := range req.AssignedTo {
		task.AssignedTo = append(task.AssignedTo, models.TaskAssignment{TaskID: task.ID, UserID: uid})
	}
	task.TodoChecklist = newChecklist(task.ID, req.TodoChecklist)
	task.Progress, task.Status = DeriveProgress(task.TodoChecklist)

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}

	config.Logger.Infow("任务创建成功", "taskID", task.ID, "createdBy", p.ID)
	s.invalidateDashboards(ctx, task.AssigneeIDs())
	return task, nil
}

// GetTask 查询单个任务，成员只能查看分配给自己的任务
func (s *TaskService) GetTask(ctx context.Context, p models.Principal, id string) (*models.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := Authorize(p, OpReadTask, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks 按调用方可见范围列出任务，可选按状态过滤；
// 状态统计只受范围约束，不受状态过滤影响
func (s *TaskService) ListTasks(ctx context.Context, p models.Principal, statusFilter string) (*models.ListTasksResponse, error) {
	scope := ""
	if !p.IsAdmin() {
		scope = p.ID
	}

	tasks, err := s.store.Scan(ctx,
		store.TaskFilter{Status: statusFilter, AssignedTo: scope},
		store.ScanOptions{NewestFirst: true})
	if err != nil {
		return nil, err
	}

	responses := make([]models.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = models.NewTaskResponse(&tasks[i])
	}

	summary, err := s.statusSummary(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &models.ListTasksResponse{Tasks: responses, StatusSummary: *summary}, nil
}

func (s *TaskService) statusSummary(ctx context.Context, scope string) (*models.StatusSummary, error) {
	all, err := s.store.Count(ctx, store.TaskFilter{AssignedTo: scope})
	if err != nil {
		return nil, err
	}
	byStatus, err := s.store.AggregateByField(ctx, store.TaskFilter{AssignedTo: scope}, "status")
	if err != nil {
		return nil, err
	}
	return &models.StatusSummary{
		AllTasks:        all,
		PendingTasks:    byStatus[models.StatusPending],
		InProgressTasks: byStatus[models.StatusInProgress],
		CompletedTasks:  byStatus[models.StatusCompleted],
	}, nil
}

// UpdateTaskFields 更新任务基础字段，仅管理员可用。
// 空字符串字段视为不修改，不会清空原值；不影响进度和状态
func (s *TaskService) UpdateTaskFields(ctx context.Context, p models.Principal, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	var before []string
	task, err := s.store.Update(ctx, id, func(task *models.Task) error {
		if err := Authorize(p, OpEditTask, task); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return validationError("%v", err)
		}
		before = task.AssigneeIDs()

		if req.Title != "" {
			task.Title = req.Title
		}
		if req.Description != "" {
			task.Description = req.Description
		}
		if req.Priority != "" {
			task.Priority = req.Priority
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		if req.Attachments != nil {
			task.Attachments = req.Attachments
		}
		if req.AssignedTo != nil {
			task.AssignedTo = task.AssignedTo[:0]
			for _, uid := range req.AssignedTo {
				task.AssignedTo = append(task.AssignedTo, models.TaskAssignment{TaskID: task.ID, UserID: uid})
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.invalidateDashboards(ctx, before, task.AssigneeIDs())
	return task, nil
}

// DeleteTask 删除任务，仅管理员可用
func (s *TaskService) DeleteTask(ctx context.Context, p models.Principal, id string) error {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return translateStoreErr(err)
	}
	if err := Authorize(p, OpDeleteTask, task); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translateStoreErr(err)
	}

	config.Logger.Infow("任务删除成功", "taskID", id, "deletedBy", p.ID)
	s.invalidateDashboards(ctx, task.AssigneeIDs())
	return nil
}

// SetTaskStatus 显式设置任务状态，管理员或被分配人可用。
// 目标为 Completed 时强制勾掉所有清单项并把进度置为 100；
// 设回 Pending/In Progress 是直接覆盖，不回写清单，
// 直到下一次清单替换才会重新推导
func (s *TaskService) SetTaskStatus(ctx context.Context, p models.Principal, id string, req models.UpdateTaskStatusRequest) (*models.Task, error) {
	task, err := s.store.Update(ctx, id, func(task *models.Task) error {
		if err := Authorize(p, OpSetStatus, task); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return validationError("%v", err)
		}

		task.Status = req.Status
		if task.Status == models.StatusCompleted {
			for i := range task.TodoChecklist {
				task.TodoChecklist[i].Completed = true
			}
			task.Progress = 100
		}
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.invalidateDashboards(ctx, task.AssigneeIDs())
	return task, nil
}

// ReplaceChecklist 整体替换任务清单并重新推导进度和状态，
// 管理员或被分配人可用
func (s *TaskService) ReplaceChecklist(ctx context.Context, p models.Principal, id string, items []models.TodoItemRequest) (*models.Task, error) {
	task, err := s.store.Update(ctx, id, func(task *models.Task) error {
		if err := Authorize(p, OpEditChecklist, task); err != nil {
			return err
		}

		task.TodoChecklist = newChecklist(task.ID, items)
		task.Progress, task.Status = DeriveProgress(task.TodoChecklist)
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	s.invalidateDashboards(ctx, task.AssigneeIDs())
	return task, nil
}

// newChecklist 将请求里的清单项转换为带顺序的模型
func newChecklist(taskID string, items []models.TodoItemRequest) []models.TodoItem {
	checklist := make([]models.TodoItem, len(items))
	for i, item := range items {
		checklist[i] = models.TodoItem{
			ID:        utils.GenerateID(),
			TaskID:    taskID,
			Text:      item.Text,
			Completed: item.Completed,
			Position:  i,
		}
	}
	return checklist
}

// invalidateDashboards 任务变更后失效相关的仪表盘缓存
func (s *TaskService) invalidateDashboards(ctx context.Context, assigneeSets ...[]string) {
	keys := []string{"admin"}
	seen := map[string]bool{}
	for _, set := range assigneeSets {
		for _, uid := range set {
			if !seen[uid] {
				seen[uid] = true
				keys = append(keys, "user:"+uid)
			}
		}
	}
	s.cache.Invalidate(ctx, keys...)
}

// translateStoreErr 将存储层错误映射到服务层错误
func translateStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
