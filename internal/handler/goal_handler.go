package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/service"
	"github.com/gin-gonic/gin"
)

type goalCreatePayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GoalType    string    `json:"goal_type"`
	TargetDate  time.Time `json:"target_date"`
}

type goalUpdatePayload struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	GoalType    *string    `json:"goal_type"`
	TargetDate  *time.Time `json:"target_date"`
}

type goalPayload struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	GoalType    string        `json:"goal_type"`
	TargetDate  time.Time     `json:"target_date"`
	UserID      uint          `json:"user_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Tasks       []taskPayload `json:"tasks"`
}

// ListGoals 返回当前用户的全部目标及其下任务
func (a *API) ListGoals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	goals, err := a.goals.List(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取目标列表失败")
		return
	}

	items := make([]goalPayload, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalToPayload(goal))
	}

	c.JSON(http.StatusOK, items)
}

// CreateGoal 新建目标
func (a *API) CreateGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	var payload goalCreatePayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	goal, err := a.goals.Create(user.ID, service.GoalInput{
		Title:       payload.Title,
		Description: payload.Description,
		GoalType:    payload.GoalType,
		TargetDate:  payload.TargetDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "创建目标失败")
		return
	}

	c.JSON(http.StatusCreated, goalToPayload(*goal))
}

// UpdateGoal 按载荷中出现的字段更新目标
func (a *API) UpdateGoal(c *gin.Context) {
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

	var payload goalUpdatePayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	goal, err := a.goals.Update(user.ID, id, service.GoalUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		GoalType:    payload.GoalType,
		TargetDate:  payload.TargetDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			respondError(c, http.StatusNotFound, "目标不存在")
			return
		}
		if errors.Is(err, service.ErrValidation) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "更新目标失败")
		return
	}

	c.JSON(http.StatusOK, goalToPayload(*goal))
}

// DeleteGoal 删除目标，其下任务保留
func (a *API) DeleteGoal(c *gin.Context) {
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

	if err := a.goals.Delete(user.ID, id); err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			respondError(c, http.StatusNotFound, "目标不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除目标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "目标已删除"})
}

func goalToPayload(goal db.Goal) goalPayload {
	return goalPayload{
		ID:          goal.ID,
		Title:       goal.Title,
		Description: goal.Description,
		GoalType:    string(goal.GoalType),
		TargetDate:  goal.TargetDate,
		UserID:      goal.UserID,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
		Tasks:       tasksToPayload(goal.Tasks),
	}
}
