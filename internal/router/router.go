package router

import (
	"github.com/focuslog/internal/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", api.Register)
			authGroup.POST("/login", api.Login)
		}

		// 需要认证的资源路由
		scoped := apiGroup.Group("")
		scoped.Use(api.AuthRequired())
		{
			scoped.GET("/auth/me", api.Me)

			scoped.GET("/tasks/", api.ListTasks)
			scoped.GET("/tasks/today", api.ListTodayTasks)
			scoped.POST("/tasks/", api.CreateTask)
			scoped.PUT("/tasks/:id", api.UpdateTask)
			scoped.DELETE("/tasks/:id", api.DeleteTask)
			scoped.PUT("/tasks/:id/complete", api.CompleteTask)

			scoped.GET("/goals/", api.ListGoals)
			scoped.POST("/goals/", api.CreateGoal)
			scoped.PUT("/goals/:id", api.UpdateGoal)
			scoped.DELETE("/goals/:id", api.DeleteGoal)

			scoped.GET("/journals/", api.ListJournals)
			scoped.POST("/journals/", api.CreateJournal)

			scoped.GET("/dashboard/stats", api.DashboardStats)
		}
	}

	return r
}
