package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/focuslog/internal/auth"
	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/queue"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Goal{}, &db.Task{}, &db.Journal{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return NewAPI(db.DB, tokens, queue.NopScheduler{}), func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedTestUser(t *testing.T, email string) *db.User {
	t.Helper()

	user := db.User{Email: email, Password: "hashed", IsActive: true}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func jsonContext(t *testing.T, method, path string, payload any, user *db.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(contextUserKey, user)
	}
	return c, w
}

func TestCreateTaskMissingTemporalFields(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedTestUser(t, "alice@example.com")

	payload := map[string]any{"title": "写报告", "points": 10}
	c, w := jsonContext(t, http.MethodPost, "/api/tasks/", payload, user)

	api.CreateTask(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var count int64
	db.DB.Model(&db.Task{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no task persisted, got %d", count)
	}
}

func TestCreateTaskHappyPath(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedTestUser(t, "alice@example.com")

	payload := map[string]any{
		"title":      "写报告",
		"points":     10,
		"due_date":   "2024-03-15T00:00:00Z",
		"start_time": "2024-03-15T09:00:00Z",
		"end_time":   "2024-03-15T10:00:00Z",
	}
	c, w := jsonContext(t, http.MethodPost, "/api/tasks/", payload, user)

	api.CreateTask(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var got taskPayload
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID == 0 {
		t.Fatal("expected server-assigned id")
	}
	if got.IsCompleted {
		t.Fatal("expected new task to be incomplete")
	}
	if got.CompletedAt != nil {
		t.Fatal("expected completed_at to be null")
	}
	if got.UserID != user.ID {
		t.Fatalf("expected owner %d, got %d", user.ID, got.UserID)
	}
}

func TestCreateTaskStoreFailureIsServerError(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedTestUser(t, "alice@example.com")

	// 提前关闭底层连接模拟存储故障，载荷本身合法
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("failed to access underlying connection: %v", err)
	}
	sqlDB.Close()

	payload := map[string]any{
		"title":      "写报告",
		"points":     10,
		"due_date":   "2024-03-15T00:00:00Z",
		"start_time": "2024-03-15T09:00:00Z",
		"end_time":   "2024-03-15T10:00:00Z",
	}
	c, w := jsonContext(t, http.MethodPost, "/api/tasks/", payload, user)

	api.CreateTask(c)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompleteTaskCrossOwnerIsNotFound(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	alice := seedTestUser(t, "alice@example.com")
	bob := seedTestUser(t, "bob@example.com")

	task := db.Task{
		Title:     "写报告",
		Points:    10,
		DueDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		UserID:    alice.ID,
	}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	c, w := jsonContext(t, http.MethodPut, "/api/tasks/"+strconv.Itoa(int(task.ID))+"/complete", nil, bob)
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(task.ID))}}

	api.CompleteTask(c)

	// 所有权不匹配与不存在不可区分
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUpdateTaskPartialPayload(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedTestUser(t, "alice@example.com")

	task := db.Task{
		Title:       "写报告",
		Description: "初稿",
		Points:      10,
		DueDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		UserID:      user.ID,
	}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	payload := map[string]any{"points": 20}
	c, w := jsonContext(t, http.MethodPut, "/api/tasks/"+strconv.Itoa(int(task.ID)), payload, user)
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(task.ID))}}

	api.UpdateTask(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var got taskPayload
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Points != 20 {
		t.Fatalf("expected points 20, got %d", got.Points)
	}
	if got.Title != "写报告" || got.Description != "初稿" {
		t.Fatal("expected omitted fields to keep prior values")
	}
}
