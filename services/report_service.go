package services

import (
	"context"
	"time"

	"TaskFlowGo/models"
	"TaskFlowGo/store"
)

const recentTaskLimit = 10

// now 可在测试中替换的时钟
var now = time.Now

// Scope 统计范围，UserID 为空表示全量（管理员视角）
type Scope struct {
	UserID string
}

// ReportService 聚合统计服务，只读，不持有跨调用状态
type ReportService struct {
	store store.TaskStore
	cache *DashboardCache
}

// NewReportService 创建统计服务
func NewReportService(s store.TaskStore, cache *DashboardCache) *ReportService {
	return &ReportService{store: s, cache: cache}
}

// Dashboard 返回调用方范围内的仪表盘数据，带旁路缓存
func (s *ReportService) Dashboard(ctx context.Context, scope Scope) (*models.DashboardResponse, error) {
	key := "admin"
	if scope.UserID != "" {
		key = "user:" + scope.UserID
	}

	var cached models.DashboardResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	resp, err := s.ComputeStatistics(ctx, scope)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, resp)
	return resp, nil
}

// ComputeStatistics 计算范围内的任务统计：总数/待办/已完成/逾期、
// 按状态和优先级的分布（零值补齐）、最近 10 条任务摘要
func (s *ReportService) ComputeStatistics(ctx context.Context, scope Scope) (*models.DashboardResponse, error) {
	base := store.TaskFilter{AssignedTo: scope.UserID}

	total, err := s.store.Count(ctx, base)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.store.AggregateByField(ctx, base, "status")
	if err != nil {
		return nil, err
	}

	deadline := now()
	overdue, err := s.store.Count(ctx, store.TaskFilter{
		AssignedTo: scope.UserID,
		NotStatus:  models.StatusCompleted,
		DueBefore:  &deadline,
	})
	if err != nil {
		return nil, err
	}

	// 每个状态键都必须出现，没有匹配任务时补 0
	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		distribution[models.DistributionKey(status)] = byStatus[status]
	}
	distribution["All"] = total

	byPriority, err := s.store.AggregateByField(ctx, base, "priority")
	if err != nil {
		return nil, err
	}
	priorityLevels := make(map[string]int64, len(models.TaskPriorities))
	for _, priority := range models.TaskPriorities {
		priorityLevels[priority] = byPriority[priority]
	}

	recent, err := s.recentTasks(ctx, base)
	if err != nil {
		return nil, err
	}

	return &models.DashboardResponse{
		Statistics: models.DashboardStatistics{
			TotalTasks:     total,
			PendingTasks:   byStatus[models.StatusPending],
			CompletedTasks: byStatus[models.StatusCompleted],
			OverdueTasks:   overdue,
		},
		Charts: models.DashboardCharts{
			TaskDistribution:   distribution,
			TaskPriorityLevels: priorityLevels,
		},
		RecentTasks: recent,
	}, nil
}

// recentTasks 返回范围内最近创建的任务摘要，按创建时间倒序
func (s *ReportService) recentTasks(ctx context.Context, filter store.TaskFilter) ([]models.TaskSummary, error) {
	tasks, err := s.store.Scan(ctx, filter, store.ScanOptions{NewestFirst: true, Limit: recentTaskLimit})
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TaskSummary, len(tasks))
	for i, t := range tasks {
		summaries[i] = models.TaskSummary{
			ID:        t.ID,
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			DueDate:   t.DueDate,
			CreatedAt: t.CreatedAt,
		}
	}
	return summaries, nil
}

// CountsForUser 返回某个用户名下任务的状态统计，用于用户列表
func (s *ReportService) CountsForUser(ctx context.Context, userID string) (pending, inProgress, completed int64, err error) {
	byStatus, err := s.store.AggregateByField(ctx, store.TaskFilter{AssignedTo: userID}, "status")
	if err != nil {
		return 0, 0, 0, err
	}
	return byStatus[models.StatusPending], byStatus[models.StatusInProgress], byStatus[models.StatusCompleted], nil
}
