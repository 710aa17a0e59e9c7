package main

import (
	"log"
	"time"

	"github.com/focuslog/internal/auth"
	"github.com/focuslog/internal/config"
	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/handler"
	"github.com/focuslog/internal/queue"
	"github.com/focuslog/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/rueidis"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 可选的演示账号，邮箱与密码均配置时才创建
	if err := db.EnsureUser(cfg.DemoUserEmail, cfg.DemoUserPassword); err != nil {
		log.Fatalf("failed to ensure demo user: %v", err)
	}

	// 未配置 Redis 时提醒调度退化为空实现
	var scheduler queue.Scheduler = queue.NopScheduler{}
	if cfg.RedisAddr != "" {
		client, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{cfg.RedisAddr},
		})
		if err != nil {
			log.Fatalf("failed to create redis client: %v", err)
		}
		defer client.Close()

		reminderQueue := queue.NewRedisReminderQueue(client, cfg.ReminderQueueKey)
		scheduler = reminderQueue

		worker := queue.NewWorker(reminderQueue, time.Duration(cfg.ReminderPollSeconds)*time.Second)
		worker.Start()
		defer worker.Shutdown()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	api := handler.NewAPI(db.DB, tokens, scheduler)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
