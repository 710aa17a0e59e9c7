package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/focuslog/internal/db"
	"gorm.io/gorm"
)

// ErrGoalNotFound 在指定目标不存在或不属于当前用户时返回
var ErrGoalNotFound = errors.New("goal not found")

// GoalService 负责目标的增删改查
// goal_type 在入口处即校验为 monthly/quarterly/yearly，非法值不会落库
type GoalService struct {
	db *gorm.DB
}

// GoalInput 定义创建目标时可配置字段
type GoalInput struct {
	Title       string
	Description string
	GoalType    string
	TargetDate  time.Time
}

// GoalUpdate 定义部分更新载荷，nil 字段保持原值
type GoalUpdate struct {
	Title       *string
	Description *string
	GoalType    *string
	TargetDate  *time.Time
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB) *GoalService {
	return &GoalService{db: gdb}
}

// List 返回用户的全部目标，附带其下任务
func (s *GoalService) List(userID uint) ([]db.Goal, error) {
	var goals []db.Goal
	if err := s.db.Where("user_id = ?", userID).
		Preload("Tasks").
		Order("target_date ASC, id ASC").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Get 返回用户拥有的指定目标
func (s *GoalService) Get(userID, goalID uint) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

// Create 新建目标
func (s *GoalService) Create(userID uint, input GoalInput) (*db.Goal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: goal title is required", ErrValidation)
	}

	goalType, err := db.ParseGoalType(input.GoalType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if input.TargetDate.IsZero() {
		return nil, fmt.Errorf("%w: goal target_date is required", ErrValidation)
	}

	goal := db.Goal{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		GoalType:    goalType,
		TargetDate:  input.TargetDate,
		UserID:      userID,
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

// Update 按部分字段更新目标，仅应用载荷中出现的字段
func (s *GoalService) Update(userID, goalID uint, update GoalUpdate) (*db.Goal, error) {
	existing, err := s.Get(userID, goalID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: goal title is required", ErrValidation)
		}
		existing.Title = title
	}
	if update.Description != nil {
		existing.Description = strings.TrimSpace(*update.Description)
	}
	if update.GoalType != nil {
		goalType, err := db.ParseGoalType(*update.GoalType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		existing.GoalType = goalType
	}
	if update.TargetDate != nil {
		existing.TargetDate = *update.TargetDate
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return existing, nil
}

// Delete 删除用户拥有的指定目标。
// 任务上的 goal_id 不级联清理，允许悬挂引用。
func (s *GoalService) Delete(userID, goalID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&db.Goal{})
	if result.Error != nil {
		return fmt.Errorf("delete goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}
