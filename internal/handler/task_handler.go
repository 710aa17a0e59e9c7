package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/service"
	"github.com/gin-gonic/gin"
)

type taskCreatePayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	DueDate     time.Time `json:"due_date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	GoalID      *uint     `json:"goal_id"`
}

type taskUpdatePayload struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Points      *int       `json:"points"`
	DueDate     *time.Time `json:"due_date"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	GoalID      *uint      `json:"goal_id"`
}

type taskPayload struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
	DueDate     time.Time  `json:"due_date"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	GoalID      *uint      `json:"goal_id"`
	UserID      uint       `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListTasks 返回当前用户的全部任务
func (a *API) ListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	tasks, err := a.tasks.List(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取任务列表失败")
		return
	}

	c.JSON(http.StatusOK, tasksToPayload(tasks))
}

// ListTodayTasks 返回截止日期在今天（UTC）的任务
func (a *API) ListTodayTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	tasks, err := a.tasks.ListToday(user.ID, time.Now().UTC())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取任务列表失败")
		return
	}

	c.JSON(http.StatusOK, tasksToPayload(tasks))
}

// CreateTask 新建任务并安排开始前的提醒
func (a *API) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	var payload taskCreatePayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	task, err := a.tasks.Create(*user, service.TaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		Points:      payload.Points,
		DueDate:     payload.DueDate,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
		GoalID:      payload.GoalID,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrTaskInvalidGoal) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "创建任务失败")
		return
	}

	c.JSON(http.StatusCreated, taskToPayload(*task))
}

// UpdateTask 按载荷中出现的字段更新任务
func (a *API) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload taskUpdatePayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	task, err := a.tasks.Update(user.ID, id, service.TaskUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		Points:      payload.Points,
		DueDate:     payload.DueDate,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
		GoalID:      payload.GoalID,
	})
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "任务不存在")
			return
		}
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrTaskInvalidGoal) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "更新任务失败")
		return
	}

	c.JSON(http.StatusOK, taskToPayload(*task))
}

// DeleteTask 删除任务
func (a *API) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.tasks.Delete(user.ID, id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "任务不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除任务失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务已删除"})
}

// CompleteTask 将任务标记为完成并累加积分，重复调用幂等
func (a *API) CompleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := a.tasks.Complete(user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "任务不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "完成任务失败")
		return
	}

	c.JSON(http.StatusOK, taskToPayload(*task))
}

func taskToPayload(task db.Task) taskPayload {
	return taskPayload{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Points:      task.Points,
		IsCompleted: task.IsCompleted,
		CompletedAt: task.CompletedAt,
		DueDate:     task.DueDate,
		StartTime:   task.StartTime,
		EndTime:     task.EndTime,
		GoalID:      task.GoalID,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func tasksToPayload(tasks []db.Task) []taskPayload {
	items := make([]taskPayload, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToPayload(task))
	}
	return items
}
