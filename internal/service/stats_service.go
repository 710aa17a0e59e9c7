package service

import (
	"fmt"
	"time"

	"github.com/focuslog/internal/db"
	"gorm.io/gorm"
)

// StatsService 提供仪表盘的读侧聚合，无副作用
type StatsService struct {
	db *gorm.DB
}

// DashboardStats 汇总当前周/月的任务完成情况与累计积分
type DashboardStats struct {
	TotalPoints      int
	WeeklyCompleted  int
	WeeklyTotal      int
	MonthlyCompleted int
	MonthlyTotal     int
}

// NewStatsService 构造 StatsService
func NewStatsService(gdb *gorm.DB) *StatsService {
	return &StatsService{db: gdb}
}

// Dashboard 按 UTC 日历计算周（周一对齐）与月的半开区间统计。
// 月末的跨月边界通过推进到下月 1 日计算，不做固定天数加法。
func (s *StatsService) Dashboard(userID uint, now time.Time) (*DashboardStats, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// 周一对齐：Go 的 Weekday 以周日为 0
	offset := (int(today.Weekday()) + 6) % 7
	weekStart := today.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 7)

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats := &DashboardStats{}

	var err error
	if stats.WeeklyTotal, stats.WeeklyCompleted, err = s.countRange(userID, weekStart, weekEnd); err != nil {
		return nil, err
	}
	if stats.MonthlyTotal, stats.MonthlyCompleted, err = s.countRange(userID, monthStart, monthEnd); err != nil {
		return nil, err
	}

	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("load user points: %w", err)
	}
	stats.TotalPoints = user.Points

	return stats, nil
}

func (s *StatsService) countRange(userID uint, start, end time.Time) (total, completed int, err error) {
	var totalCount int64
	if err := s.db.Model(&db.Task{}).
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, start, end).
		Count(&totalCount).Error; err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}

	var completedCount int64
	if err := s.db.Model(&db.Task{}).
		Where("user_id = ? AND due_date >= ? AND due_date < ? AND is_completed = ?", userID, start, end, true).
		Count(&completedCount).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed tasks: %w", err)
	}

	return int(totalCount), int(completedCount), nil
}
