package routes

import (
	"TaskFlowGo/config"
	"TaskFlowGo/controllers"
	"TaskFlowGo/middleware"
	"TaskFlowGo/services"
	"TaskFlowGo/store"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, conf config.Config) {
	taskStore := store.NewGormTaskStore(config.DB)
	cache := services.NewDashboardCache(config.RedisClient)
	taskService := services.NewTaskService(taskStore, cache)
	reportService := services.NewReportService(taskStore, cache)

	authController := controllers.AuthController{
		AdminInviteToken: conf.AdminInviteToken,
		UploadDir:        conf.UploadDir,
	}
	taskController := controllers.NewTaskController(taskService, reportService)
	userController := controllers.NewUserController(reportService)

	// 公开路由（无需认证）
	public := r.Group("/api/auth")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
	}

	// 需要认证的路由
	private := r.Group("/api")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// 用户资料
		private.GET("/auth/profile", authController.GetProfile)
		private.PUT("/auth/profile", authController.UpdateProfile)
		private.DELETE("/auth/profile", authController.DeleteProfile)
		private.POST("/auth/upload-image", authController.UploadImage)

		// 任务相关接口
		private.GET("/tasks", taskController.GetTasks)
		private.GET("/tasks/dashboard-data", middleware.AdminOnly(), taskController.GetDashboardData)
		private.GET("/tasks/user-dashboard-data", taskController.GetUserDashboardData)
		private.GET("/tasks/:id", taskController.GetTaskByID)
		private.POST("/tasks", taskController.CreateTask)
		private.PUT("/tasks/:id", taskController.UpdateTask)
		private.DELETE("/tasks/:id", taskController.DeleteTask)
		private.PUT("/tasks/:id/status", taskController.UpdateTaskStatus)
		private.PUT("/tasks/:id/todo", taskController.UpdateTaskChecklist)

		// 用户相关接口
		private.GET("/users", middleware.AdminOnly(), userController.GetUsers)
		private.GET("/users/:id", userController.GetUserByID)
	}

	// 上传文件的静态访问
	r.Static("/uploads", conf.UploadDir)

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
