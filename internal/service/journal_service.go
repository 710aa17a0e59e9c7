package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/focuslog/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// JournalService 负责日记条目的写入与读取
// 条目正文按 Markdown 解释，渲染结果经过 UGC 策略消毒后再返回给前端
type JournalService struct {
	db *gorm.DB
}

// JournalInput 定义创建日记时的输入对象
type JournalInput struct {
	Content string
	Date    time.Time
}

// NewJournalService 构造 JournalService
func NewJournalService(gdb *gorm.DB) *JournalService {
	return &JournalService{db: gdb}
}

// List 返回用户的全部日记，按日期倒序
func (s *JournalService) List(userID uint) ([]db.Journal, error) {
	var journals []db.Journal
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&journals).Error; err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return journals, nil
}

// Create 新建日记条目
func (s *JournalService) Create(userID uint, input JournalInput) (*db.Journal, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: journal content is required", ErrValidation)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	journal := db.Journal{
		Content: input.Content,
		Date:    date,
		UserID:  userID,
	}

	if err := s.db.Create(&journal).Error; err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	return &journal, nil
}

// RenderHTML 将日记正文渲染为消毒后的 HTML
func (s *JournalService) RenderHTML(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}
