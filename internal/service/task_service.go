package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/queue"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound 在指定任务不存在或不属于当前用户时返回
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskInvalidGoal 当关联的目标不存在或不属于当前用户时返回
	ErrTaskInvalidGoal = errors.New("goal does not exist or is not owned by user")
)

// TaskService 负责任务的增删改查与完成计分
// 所有查询和变更都以 user_id 过滤，跨用户访问表现为 NotFound
type TaskService struct {
	db        *gorm.DB
	reminders queue.Scheduler
}

// TaskInput 定义创建任务时可配置字段
type TaskInput struct {
	Title       string
	Description string
	Points      int
	DueDate     time.Time
	StartTime   time.Time
	EndTime     time.Time
	GoalID      *uint
}

// TaskUpdate 定义部分更新载荷，nil 字段保持原值
// GoalID 传 0 表示解除目标关联
type TaskUpdate struct {
	Title       *string
	Description *string
	Points      *int
	DueDate     *time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	GoalID      *uint
}

// NewTaskService 构造 TaskService
func NewTaskService(gdb *gorm.DB, reminders queue.Scheduler) *TaskService {
	if reminders == nil {
		reminders = queue.NopScheduler{}
	}
	return &TaskService{db: gdb, reminders: reminders}
}

// List 返回用户的全部任务
func (s *TaskService) List(userID uint) ([]db.Task, error) {
	var tasks []db.Task
	if err := s.db.Where("user_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListToday 返回截止日期落在 now 所属 UTC 日历日内的任务，区间为 [today, today+1d)
func (s *TaskService) ListToday(userID uint, now time.Time) ([]db.Task, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var tasks []db.Task
	if err := s.db.Where("user_id = ? AND due_date >= ? AND due_date < ?",
		userID, today, today.AddDate(0, 0, 1)).
		Order("start_time ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list today tasks: %w", err)
	}
	return tasks, nil
}

// Get 返回用户拥有的指定任务
func (s *TaskService) Get(userID, taskID uint) (*db.Task, error) {
	var task db.Task
	if err := s.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// Create 新建任务并触发提醒调度；提醒投递是尽力而为，失败不影响请求结果
func (s *TaskService) Create(owner db.User, input TaskInput) (*db.Task, error) {
	if err := validateTaskInput(input); err != nil {
		return nil, err
	}

	if input.GoalID != nil {
		if err := s.checkGoalOwnership(owner.ID, *input.GoalID); err != nil {
			return nil, err
		}
	}

	task := db.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Points:      input.Points,
		DueDate:     input.DueDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		UserID:      owner.ID,
		GoalID:      input.GoalID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.dispatchReminder(task.ID, owner.Email, task.StartTime)

	return &task, nil
}

// Update 按部分字段更新任务，仅应用载荷中出现的字段
func (s *TaskService) Update(userID, taskID uint, update TaskUpdate) (*db.Task, error) {
	existing, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: task title is required", ErrValidation)
		}
		existing.Title = title
	}
	if update.Description != nil {
		existing.Description = strings.TrimSpace(*update.Description)
	}
	if update.Points != nil {
		if *update.Points < 0 {
			return nil, fmt.Errorf("%w: task points must not be negative", ErrValidation)
		}
		existing.Points = *update.Points
	}
	if update.DueDate != nil {
		existing.DueDate = *update.DueDate
	}
	if update.StartTime != nil {
		existing.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		existing.EndTime = *update.EndTime
	}
	if update.GoalID != nil {
		if *update.GoalID == 0 {
			existing.GoalID = nil
		} else {
			if err := s.checkGoalOwnership(userID, *update.GoalID); err != nil {
				return nil, err
			}
			existing.GoalID = update.GoalID
		}
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return existing, nil
}

// Delete 删除用户拥有的指定任务
func (s *TaskService) Delete(userID, taskID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&db.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Complete 将任务标记为完成并为用户累加积分。
// 通过条件更新保证 false→true 只发生一次，重复调用不再计分，
// 并发竞争下也至多加一次分。
func (s *TaskService) Complete(userID, taskID uint) (*db.Task, error) {
	var task db.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("find task: %w", err)
		}

		now := time.Now().UTC()
		result := tx.Model(&db.Task{}).
			Where("id = ? AND user_id = ? AND is_completed = ?", taskID, userID, false).
			Updates(map[string]interface{}{
				"is_completed": true,
				"completed_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("complete task: %w", result.Error)
		}
		// 重复调用或并发抢先完成时不再计分，重读行保证返回值与存储一致
		if result.RowsAffected == 0 {
			if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
				return fmt.Errorf("reload task: %w", err)
			}
			return nil
		}

		if err := tx.Model(&db.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", task.Points)).Error; err != nil {
			return fmt.Errorf("credit points: %w", err)
		}

		task.IsCompleted = true
		task.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) checkGoalOwnership(userID, goalID uint) error {
	var count int64
	if err := s.db.Model(&db.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check goal: %w", err)
	}
	if count == 0 {
		return ErrTaskInvalidGoal
	}
	return nil
}

func (s *TaskService) dispatchReminder(taskID uint, email string, startTime time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.reminders.Schedule(ctx, taskID, email, startTime); err != nil {
			log.Printf("schedule reminder for task %d: %v", taskID, err)
		}
	}()
}

func validateTaskInput(input TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if input.Points < 0 {
		return fmt.Errorf("%w: task points must not be negative", ErrValidation)
	}
	if input.DueDate.IsZero() || input.StartTime.IsZero() || input.EndTime.IsZero() {
		return fmt.Errorf("%w: due_date, start_time and end_time are required", ErrValidation)
	}
	return nil
}
