package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/controllers"
	"github.com/pneumacap/PoolTableTracker/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	reportCtrl := controllers.NewReportController(db)
	configCtrl := controllers.NewConfigController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Papan occupancy boleh dilihat tanpa login
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.EnhancedAuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// SESSIONS (operator/admin)
	auth.POST("/tables/:table_id/start", sessionCtrl.StartSession)
	auth.POST("/tables/:table_id/stop", sessionCtrl.StopSession)

	// REPORTS
	auth.GET("/reports/daily", reportCtrl.GetDailyReport)
	auth.GET("/reports/export-pdf", reportCtrl.ExportPDF)
	auth.GET("/reports/export-chart", reportCtrl.ExportChart)

	// CONFIG (admin only, dicek di controller)
	auth.GET("/config", configCtrl.GetConfig)
	auth.PUT("/config", configCtrl.UpdateConfig)

	// WebSocket feed occupancy
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.FloorHandler)
	}

	return r
}
