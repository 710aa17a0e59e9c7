package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/focuslog/internal/db"
	"github.com/focuslog/internal/service"
	"github.com/gin-gonic/gin"
)

type journalCreatePayload struct {
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

type journalPayload struct {
	ID          uint      `json:"id"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	Date        time.Time `json:"date"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListJournals 返回当前用户的日记，正文附带渲染后的 HTML
func (a *API) ListJournals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	journals, err := a.journals.List(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日记列表失败")
		return
	}

	items := make([]journalPayload, 0, len(journals))
	for _, journal := range journals {
		items = append(items, a.journalToPayload(journal))
	}

	c.JSON(http.StatusOK, items)
}

// CreateJournal 新建日记条目
func (a *API) CreateJournal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	var payload journalCreatePayload
	if !bindJSON(c, &payload, "请求格式错误") {
		return
	}

	journal, err := a.journals.Create(user.ID, service.JournalInput{
		Content: payload.Content,
		Date:    payload.Date,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "创建日记失败")
		return
	}

	c.JSON(http.StatusCreated, a.journalToPayload(*journal))
}

func (a *API) journalToPayload(journal db.Journal) journalPayload {
	return journalPayload{
		ID:          journal.ID,
		Content:     journal.Content,
		ContentHTML: a.journals.RenderHTML(journal.Content),
		Date:        journal.Date,
		UserID:      journal.UserID,
		CreatedAt:   journal.CreatedAt,
	}
}
