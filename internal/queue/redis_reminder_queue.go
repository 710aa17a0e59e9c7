package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

// RedisReminderQueue 基于 Redis 有序集合实现延迟提醒队列：
// member 为 JSON 编码的 Reminder，score 为触发时间的 Unix 秒
type RedisReminderQueue struct {
	client rueidis.Client
	key    string
}

// NewRedisReminderQueue 构造 RedisReminderQueue
func NewRedisReminderQueue(client rueidis.Client, queueKey string) *RedisReminderQueue {
	return &RedisReminderQueue{
		client: client,
		key:    queueKey,
	}
}

// Schedule 将提醒写入延迟队列；触发时间已过时静默跳过
func (q *RedisReminderQueue) Schedule(ctx context.Context, taskID uint, email string, startTime time.Time) error {
	fireAt := startTime.Add(-reminderLead)
	if !fireAt.After(time.Now().UTC()) {
		return nil
	}

	reminder := Reminder{
		ID:     uuid.New().String(),
		TaskID: taskID,
		Email:  email,
		FireAt: fireAt,
	}

	payload, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}

	cmd := q.client.B().Zadd().Key(q.key).
		ScoreMember().
		ScoreMember(float64(fireAt.Unix()), string(payload)).
		Build()
	if err := q.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	return nil
}

// PopDue 取出所有触发时间不晚于 now 的提醒并从队列移除
func (q *RedisReminderQueue) PopDue(ctx context.Context, now time.Time) ([]Reminder, error) {
	rangeCmd := q.client.B().Zrangebyscore().Key(q.key).
		Min("-inf").
		Max(strconv.FormatInt(now.Unix(), 10)).
		Build()

	members, err := q.client.Do(ctx, rangeCmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("poll reminders: %w", err)
	}

	reminders := make([]Reminder, 0, len(members))
	for _, member := range members {
		remCmd := q.client.B().Zrem().Key(q.key).Member(member).Build()
		removed, err := q.client.Do(ctx, remCmd).AsInt64()
		if err != nil {
			return reminders, fmt.Errorf("dequeue reminder: %w", err)
		}
		// 另一个 worker 已抢先移除时跳过，保证单次送达
		if removed == 0 {
			continue
		}

		var reminder Reminder
		if err := json.Unmarshal([]byte(member), &reminder); err != nil {
			continue
		}
		reminders = append(reminders, reminder)
	}

	return reminders, nil
}
