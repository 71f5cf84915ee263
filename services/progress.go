package services

import (
	"math"

	"TaskFlowGo/models"
)

// DeriveProgress 根据清单完成情况推导任务进度和状态。
// 进度为已完成项占比取整（四舍五入），空清单进度为 0；
// 进度 100 对应 Completed，0 对应 Pending，其余为 In Progress。
func DeriveProgress(checklist []models.TodoItem) (int, string) {
	total := len(checklist)
	if total == 0 {
		return 0, models.StatusPending
	}

	completed := 0
	for _, item := range checklist {
		if item.Completed {
			completed++
		}
	}

	progress := int(math.Round(float64(completed) / float64(total) * 100))
	switch {
	case progress == 100:
		return progress, models.StatusCompleted
	case progress > 0:
		return progress, models.StatusInProgress
	default:
		return 0, models.StatusPending
	}
}
