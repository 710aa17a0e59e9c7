package queue

import (
	"context"
	"log"
	"sync"
	"time"
)

// dueSource 供 worker 轮询到期提醒
type dueSource interface {
	PopDue(ctx context.Context, now time.Time) ([]Reminder, error)
}

// Worker 周期性轮询延迟队列并投递到期提醒。
// 当前的"投递"即占位日志，与通知渠道解耦；上层只要求尽力送达。
type Worker struct {
	source   dueSource
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewWorker 构造 Worker，interval 为轮询周期
func NewWorker(source dueSource, interval time.Duration) *Worker {
	return &Worker{
		source:   source,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start 启动轮询循环
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Shutdown 停止轮询并等待循环退出
func (w *Worker) Shutdown() {
	close(w.stop)
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Println("reminder worker started")

	for {
		select {
		case <-w.stop:
			log.Println("reminder worker stopped")
			return
		case <-ticker.C:
			w.deliverDue()
		}
	}
}

func (w *Worker) deliverDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reminders, err := w.source.PopDue(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("reminder worker: poll failed: %v", err)
		return
	}

	for _, reminder := range reminders {
		log.Printf("sending reminder for task %d to %s", reminder.TaskID, reminder.Email)
	}
}
