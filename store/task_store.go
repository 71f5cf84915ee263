package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TaskFlowGo/models"

	"gorm.io/gorm"
)

// TaskFilter 任务过滤条件，零值字段表示不过滤
type TaskFilter struct {
	Status     string
	NotStatus  string
	Priority   string
	AssignedTo string     // 只保留分配给该用户的任务
	DueBefore  *time.Time // 截止时间早于该时刻
	DueAfter   *time.Time // 截止时间晚于该时刻
}

// ScanOptions 扫描选项
type ScanOptions struct {
	NewestFirst bool // 按创建时间倒序
	Limit       int  // 0 表示不限制
}

// TaskStore 任务存储接口
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	Get(ctx context.Context, id string) (*models.Task, error)
	// Update 对同一任务的读-改-写是原子的，mutate 返回错误时不落库
	Update(ctx context.Context, id string, mutate func(task *models.Task) error) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context, filter TaskFilter, opts ScanOptions) ([]models.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	// AggregateByField 按 status 或 priority 分组计数
	AggregateByField(ctx context.Context, filter TaskFilter, field string) (map[string]int64, error)
}

// GormTaskStore 基于 GORM 的任务存储实现
type GormTaskStore struct {
	db *gorm.DB
	// 任务级写锁，保证单机下同一任务的读-改-写不交错
	locks sync.Map
}

// NewGormTaskStore 创建任务存储
func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) lockTask(id string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// withAssociations 附带清单和分配关系加载任务，清单按展示顺序排序
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("AssignedTo").
		Preload("TodoChecklist", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		})
}

// applyFilter 将过滤条件拼到查询上
func (s *GormTaskStore) applyFilter(db *gorm.DB, filter TaskFilter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("tasks.status = ?", filter.Status)
	}
	if filter.NotStatus != "" {
		db = db.Where("tasks.status <> ?", filter.NotStatus)
	}
	if filter.Priority != "" {
		db = db.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.AssignedTo != "" {
		db = db.Where("tasks.id IN (?)",
			s.db.Model(&models.TaskAssignment{}).Select("task_id").Where("user_id = ?", filter.AssignedTo))
	}
	if filter.DueBefore != nil {
		db = db.Where("tasks.due_date < ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		db = db.Where("tasks.due_date > ?", *filter.DueAfter)
	}
	return db
}

func (s *GormTaskStore) Create(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *GormTaskStore) Get(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := withAssociations(s.db.WithContext(ctx)).First(&task, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

func (s *GormTaskStore) Update(ctx context.Context, id string, mutate func(task *models.Task) error) (*models.Task, error) {
	mu := s.lockTask(id)
	mu.Lock()
	defer mu.Unlock()

	var updated *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := withAssociations(tx).First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if err := mutate(&task); err != nil {
			return err
		}

		// 清单和分配关系整体重写，和任务字段同一事务落库，
		// 保证派生字段与清单始终一致
		if err := tx.Where("task_id = ?", id).Delete(&models.TodoItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		for i := range task.TodoChecklist {
			task.TodoChecklist[i].TaskID = id
			task.TodoChecklist[i].Position = i
		}
		for i := range task.AssignedTo {
			task.AssignedTo[i].TaskID = id
		}
		if len(task.TodoChecklist) > 0 {
			if err := tx.Create(&task.TodoChecklist).Error; err != nil {
				return err
			}
		}
		if len(task.AssignedTo) > 0 {
			if err := tx.Create(&task.AssignedTo).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("AssignedTo", "TodoChecklist").Save(&task).Error; err != nil {
			return err
		}
		updated = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormTaskStore) Delete(ctx context.Context, id string) error {
	mu := s.lockTask(id)
	mu.Lock()
	defer mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TodoItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

func (s *GormTaskStore) Scan(ctx context.Context, filter TaskFilter, opts ScanOptions) ([]models.Task, error) {
	db := s.applyFilter(withAssociations(s.db.WithContext(ctx).Model(&models.Task{})), filter)
	if opts.NewestFirst {
		db = db.Order("tasks.created_at DESC")
	}
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	var tasks []models.Task
	if err := db.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormTaskStore) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	var count int64
	db := s.applyFilter(s.db.WithContext(ctx).Model(&models.Task{}), filter)
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (s *GormTaskStore) AggregateByField(ctx context.Context, filter TaskFilter, field string) (map[string]int64, error) {
	if field != "status" && field != "priority" {
		return nil, fmt.Errorf("aggregate by unsupported field: %s", field)
	}

	type row struct {
		Value string
		Count int64
	}
	var rows []row
	db := s.applyFilter(s.db.WithContext(ctx).Model(&models.Task{}), filter)
	err := db.Select(fmt.Sprintf("tasks.%s AS value, COUNT(*) AS count", field)).
		Group(fmt.Sprintf("tasks.%s", field)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate tasks by %s: %w", field, err)
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Value] = r.Count
	}
	return result, nil
}
