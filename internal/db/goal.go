package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// GoalType 表示目标周期，同时作用于存储与入参校验，避免两处重复定义枚举
type GoalType string

const (
	GoalTypeMonthly   GoalType = "monthly"
	GoalTypeQuarterly GoalType = "quarterly"
	GoalTypeYearly    GoalType = "yearly"
)

// ParseGoalType 归一化并校验目标周期取值
func ParseGoalType(raw string) (GoalType, error) {
	switch GoalType(strings.TrimSpace(strings.ToLower(raw))) {
	case GoalTypeMonthly:
		return GoalTypeMonthly, nil
	case GoalTypeQuarterly:
		return GoalTypeQuarterly, nil
	case GoalTypeYearly:
		return GoalTypeYearly, nil
	default:
		return "", fmt.Errorf("unsupported goal type %q", raw)
	}
}

// Goal 定义了目标模型
type Goal struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	GoalType    GoalType `gorm:"type:varchar(16)"`
	TargetDate  time.Time
	UserID      uint `gorm:"index"`
	User        User

	Tasks []Task
}
