package handler

import (
	"github.com/focuslog/internal/auth"
	"github.com/focuslog/internal/queue"
	"github.com/focuslog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	tokens   *auth.TokenManager
	users    *service.UserService
	tasks    *service.TaskService
	goals    *service.GoalService
	journals *service.JournalService
	stats    *service.StatsService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, tokens *auth.TokenManager, reminders queue.Scheduler) *API {
	return &API{
		tokens:   tokens,
		users:    service.NewUserService(db),
		tasks:    service.NewTaskService(db, reminders),
		goals:    service.NewGoalService(db),
		journals: service.NewJournalService(db),
		stats:    service.NewStatsService(db),
	}
}
