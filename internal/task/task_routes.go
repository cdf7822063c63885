package task

import (
	"github.com/gin-gonic/gin"
	"github.com/rohandevadiga3333/wiz/config"
	"github.com/rohandevadiga3333/wiz/internal/middleware"
	"gorm.io/gorm"
)

func TaskRoutes(router *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	taskRepo := NewTaskRepository(db)
	taskController := NewTaskController(taskRepo, cfg)

	tasks := router.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))
	{
		tasks.POST("/create", taskController.CreateTask)

		tasks.GET("/team/:teamCode", taskController.GetTeamTasks)
		tasks.GET("/team/:teamCode/available", taskController.GetAvailableTasks)
		tasks.GET("/team/:teamCode/status/:status", taskController.GetTasksByStatus)

		tasks.GET("/:taskId", taskController.GetTask)
		tasks.PUT("/:taskId", taskController.UpdateTask)
		tasks.DELETE("/:taskId", taskController.DeleteTask)

		tasks.PUT("/subtask/:subtaskId/take", taskController.TakeSubtask)
		tasks.PUT("/subtask/:subtaskId/assign-to", taskController.AssignSubtask)
		tasks.PUT("/subtask/:subtaskId/progress", taskController.UpdateProgress)
		tasks.PUT("/subtask/:subtaskId/deadline", taskController.UpdateDeadline)
		tasks.PUT("/subtask/:subtaskId", taskController.EditSubtask)
		tasks.DELETE("/subtask/:subtaskId", taskController.DeleteSubtask)

		tasks.GET("/user/:userId/subtasks", taskController.GetUserSubtasks)
	}
}
