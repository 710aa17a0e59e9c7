package service

import (
	"testing"
	"time"

	"github.com/focuslog/internal/db"
)

func seedTask(t *testing.T, userID uint, title string, due time.Time, completed bool) {
	t.Helper()

	task := db.Task{
		Title:       title,
		DueDate:     due,
		StartTime:   due.Add(9 * time.Hour),
		EndTime:     due.Add(10 * time.Hour),
		UserID:      userID,
		IsCompleted: completed,
	}
	if completed {
		completedAt := due
		task.CompletedAt = &completedAt
	}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task %s: %v", title, err)
	}
}

func TestDashboardHalfOpenRanges(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice@example.com")
	if err := db.DB.Model(&db.User{}).Where("id = ?", alice.ID).Update("points", 42).Error; err != nil {
		t.Fatalf("failed to set points: %v", err)
	}

	// 2024-03-13 是周三，该周从 03-11（周一）开始
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	seedTask(t, alice.ID, "本周一", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), true)
	seedTask(t, alice.ID, "本周三", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), false)
	seedTask(t, alice.ID, "下周一", time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), false)
	seedTask(t, alice.ID, "月初", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false)
	seedTask(t, alice.ID, "月末", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), true)
	seedTask(t, alice.ID, "下月一号", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), false)

	svc := NewStatsService(db.DB)
	stats, err := svc.Dashboard(alice.ID, now)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	if stats.TotalPoints != 42 {
		t.Fatalf("expected 42 total points, got %d", stats.TotalPoints)
	}
	if stats.WeeklyTotal != 2 {
		t.Fatalf("expected weekly total 2, got %d", stats.WeeklyTotal)
	}
	if stats.WeeklyCompleted != 1 {
		t.Fatalf("expected weekly completed 1, got %d", stats.WeeklyCompleted)
	}
	if stats.MonthlyTotal != 5 {
		t.Fatalf("expected monthly total 5, got %d", stats.MonthlyTotal)
	}
	if stats.MonthlyCompleted != 2 {
		t.Fatalf("expected monthly completed 2, got %d", stats.MonthlyCompleted)
	}
}

func TestDashboardMonthRollover(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice@example.com")

	// 闰年二月：月区间应为 [02-01, 03-01)，而非固定天数加法
	now := time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC)

	seedTask(t, alice.ID, "闰日", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false)
	seedTask(t, alice.ID, "三月一号", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false)

	svc := NewStatsService(db.DB)
	stats, err := svc.Dashboard(alice.ID, now)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	if stats.MonthlyTotal != 1 {
		t.Fatalf("expected monthly total 1, got %d", stats.MonthlyTotal)
	}
}

func TestDashboardIgnoresOtherUsers(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	alice := seedUser(t, "alice@example.com")
	bob := seedUser(t, "bob@example.com")

	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	seedTask(t, bob.ID, "别人的任务", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), true)

	svc := NewStatsService(db.DB)
	stats, err := svc.Dashboard(alice.ID, now)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	if stats.WeeklyTotal != 0 || stats.MonthlyTotal != 0 {
		t.Fatalf("expected empty stats, got weekly %d monthly %d", stats.WeeklyTotal, stats.MonthlyTotal)
	}
}
