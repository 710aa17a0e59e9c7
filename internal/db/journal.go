package db

import (
	"time"

	"gorm.io/gorm"
)

// Journal 记录用户的日记条目
type Journal struct {
	gorm.Model
	Content string `gorm:"type:text"`
	Date    time.Time
	UserID  uint `gorm:"index"`
	User    User
}
