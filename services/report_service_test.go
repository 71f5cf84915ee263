package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TaskFlowGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*TaskService, *ReportService) {
	t.Helper()
	s := newTestStore(t)
	cache := NewDashboardCache(nil)
	return NewTaskService(s, cache), NewReportService(s, cache)
}

func createWith(t *testing.T, svc *TaskService, req models.CreateTaskRequest) *models.Task {
	t.Helper()
	if req.Title == "" {
		req.Title = "测试任务"
	}
	if req.DueDate == nil {
		req.DueDate = futureDue()
	}
	if len(req.AssignedTo) == 0 {
		req.AssignedTo = []string{member.ID}
	}
	task, err := svc.CreateTask(context.Background(), admin, req)
	require.NoError(t, err)
	return task
}

func TestDashboardZeroFill(t *testing.T) {
	tasks, reports := newTestServices(t)
	ctx := context.Background()

	// 只有 Low 优先级的 Pending 任务
	createWith(t, tasks, models.CreateTaskRequest{Priority: models.PriorityLow})

	resp, err := reports.ComputeStatistics(ctx, Scope{})
	require.NoError(t, err)

	// 没有匹配任务的键也必须出现
	assert.Equal(t, int64(0), resp.Charts.TaskPriorityLevels[models.PriorityHigh])
	assert.Equal(t, int64(0), resp.Charts.TaskPriorityLevels[models.PriorityMedium])
	assert.Equal(t, int64(1), resp.Charts.TaskPriorityLevels[models.PriorityLow])

	assert.Equal(t, int64(1), resp.Charts.TaskDistribution["Pending"])
	assert.Equal(t, int64(0), resp.Charts.TaskDistribution["InProgress"])
	assert.Equal(t, int64(0), resp.Charts.TaskDistribution["Completed"])
	assert.Equal(t, int64(1), resp.Charts.TaskDistribution["All"])
}

func TestDashboardStatusKeyHasNoSpaces(t *testing.T) {
	tasks, reports := newTestServices(t)

	createWith(t, tasks, models.CreateTaskRequest{
		TodoChecklist: []models.TodoItemRequest{{Text: "a", Completed: true}, {Text: "b"}},
	})

	resp, err := reports.ComputeStatistics(context.Background(), Scope{})
	require.NoError(t, err)

	// "In Progress" 的键名去掉空格
	assert.Equal(t, int64(1), resp.Charts.TaskDistribution["InProgress"])
	assert.NotContains(t, resp.Charts.TaskDistribution, models.StatusInProgress)
}

func TestDashboardOverdue(t *testing.T) {
	tasks, reports := newTestServices(t)
	ctx := context.Background()
	yesterday := time.Now().Add(-24 * time.Hour)

	// 逾期且未完成：计入
	createWith(t, tasks, models.CreateTaskRequest{
		DueDate:       &yesterday,
		TodoChecklist: []models.TodoItemRequest{{Text: "a", Completed: true}, {Text: "b"}},
	})
	// 逾期但已完成：不计入
	createWith(t, tasks, models.CreateTaskRequest{
		DueDate:       &yesterday,
		TodoChecklist: []models.TodoItemRequest{{Text: "a", Completed: true}},
	})
	// 未逾期：不计入
	createWith(t, tasks, models.CreateTaskRequest{})

	resp, err := reports.ComputeStatistics(ctx, Scope{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Statistics.OverdueTasks)
	assert.Equal(t, int64(3), resp.Statistics.TotalTasks)
	assert.Equal(t, int64(1), resp.Statistics.CompletedTasks)
	assert.Equal(t, int64(1), resp.Statistics.PendingTasks)
}

func TestDashboardScope(t *testing.T) {
	tasks, reports := newTestServices(t)
	ctx := context.Background()

	createWith(t, tasks, models.CreateTaskRequest{AssignedTo: []string{member.ID}})
	createWith(t, tasks, models.CreateTaskRequest{AssignedTo: []string{outsider.ID}})
	createWith(t, tasks, models.CreateTaskRequest{AssignedTo: []string{member.ID, outsider.ID}})

	all, err := reports.ComputeStatistics(ctx, Scope{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Statistics.TotalTasks)

	scoped, err := reports.ComputeStatistics(ctx, Scope{UserID: member.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), scoped.Statistics.TotalTasks)
	assert.Equal(t, int64(2), scoped.Charts.TaskDistribution["All"])
	assert.Len(t, scoped.RecentTasks, 2)
}

func TestDashboardRecentTasks(t *testing.T) {
	tasks, reports := newTestServices(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		createWith(t, tasks, models.CreateTaskRequest{Title: fmt.Sprintf("任务-%02d", i)})
		time.Sleep(2 * time.Millisecond)
	}

	resp, err := reports.ComputeStatistics(ctx, Scope{})
	require.NoError(t, err)

	// 最多 10 条，按创建时间倒序
	require.Len(t, resp.RecentTasks, 10)
	assert.Equal(t, "任务-11", resp.RecentTasks[0].Title)
	assert.Equal(t, "任务-02", resp.RecentTasks[9].Title)

	// 摘要视图只携带概要字段
	first := resp.RecentTasks[0]
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.Status)
	assert.NotEmpty(t, first.Priority)
	assert.NotNil(t, first.DueDate)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestCountsForUser(t *testing.T) {
	tasks, reports := newTestServices(t)
	ctx := context.Background()

	// member 名下：一个 Pending、一个 In Progress、一个 Completed
	createWith(t, tasks, models.CreateTaskRequest{AssignedTo: []string{member.ID}})
	createWith(t, tasks, models.CreateTaskRequest{
		AssignedTo:    []string{member.ID},
		TodoChecklist: []models.TodoItemRequest{{Text: "a", Completed: true}, {Text: "b"}},
	})
	createWith(t, tasks, models.CreateTaskRequest{
		AssignedTo:    []string{member.ID},
		TodoChecklist: []models.TodoItemRequest{{Text: "a", Completed: true}},
	})
	// 其他人的任务不计入
	createWith(t, tasks, models.CreateTaskRequest{AssignedTo: []string{outsider.ID}})

	pending, inProgress, completed, err := reports.CountsForUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
	assert.Equal(t, int64(1), inProgress)
	assert.Equal(t, int64(1), completed)
}

func TestDashboardAfterForceComplete(t *testing.T) {
	tasks, reports := newTestServices(t)
	ctx := context.Background()

	task := createWith(t, tasks, models.CreateTaskRequest{
		TodoChecklist: []models.TodoItemRequest{{Text: "a"}, {Text: "b"}},
	})

	_, err := tasks.SetTaskStatus(ctx, admin, task.ID, models.UpdateTaskStatusRequest{
		Status: models.StatusCompleted,
	})
	require.NoError(t, err)

	resp, err := reports.ComputeStatistics(ctx, Scope{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Statistics.CompletedTasks)
	assert.Equal(t, int64(0), resp.Statistics.PendingTasks)
}
