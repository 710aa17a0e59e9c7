package queue

import (
	"context"
	"time"
)

// reminderLead 是提醒触发时间相对任务开始时间的提前量
const reminderLead = 15 * time.Minute

// Reminder 是投递到延迟队列中的提醒消息
type Reminder struct {
	ID     string    `json:"id"`
	TaskID uint      `json:"task_id"`
	Email  string    `json:"email"`
	FireAt time.Time `json:"fire_at"`
}

// Scheduler 抽象提醒调度：调用方只负责投递，不关心投递结果与送达时机
type Scheduler interface {
	// Schedule 为任务安排一条提醒，触发时间为 startTime 前 15 分钟；
	// 若触发时间已过则静默跳过。
	Schedule(ctx context.Context, taskID uint, email string, startTime time.Time) error
}

// NopScheduler 在未配置 Redis 时使用，丢弃所有提醒
type NopScheduler struct{}

// Schedule 空实现
func (NopScheduler) Schedule(ctx context.Context, taskID uint, email string, startTime time.Time) error {
	return nil
}
