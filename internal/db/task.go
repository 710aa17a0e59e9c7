package db

import (
	"time"

	"gorm.io/gorm"
)

// Task 定义了任务模型
// IsCompleted/CompletedAt 只在完成路径一起写入，且只允许 false→true 单向流转
// GoalID 可空：任务不必归属某个目标；删除目标时不级联删除任务
type Task struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Points      int  `gorm:"default:0"`
	IsCompleted bool `gorm:"default:false"`
	CompletedAt *time.Time
	DueDate     time.Time `gorm:"index"`
	StartTime   time.Time
	EndTime     time.Time
	UserID      uint `gorm:"index"`
	User        User
	GoalID      *uint `gorm:"index"`
	Goal        *Goal
}
