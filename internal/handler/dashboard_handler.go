package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DashboardStats 返回当前周/月的完成统计与累计积分
func (a *API) DashboardStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	stats, err := a.stats.Dashboard(user.ID, time.Now().UTC())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_points":      stats.TotalPoints,
		"weekly_completed":  stats.WeeklyCompleted,
		"weekly_total":      stats.WeeklyTotal,
		"monthly_completed": stats.MonthlyCompleted,
		"monthly_total":     stats.MonthlyTotal,
	})
}
