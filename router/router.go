package router

import (
	"net/http"
	"time"

	"expensetracker/api"
	"expensetracker/config"
	_ "expensetracker/docs"
	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires all routes. The legacy surface (/api/expenses,
// /api/report-data, /export/...) and the v1 API share the same handlers
// and sit behind the same JWT middleware, since every repository call
// needs an acting user.
func SetupRouter(cfg *config.Config, files *service.FileStore) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "expensetracker",
			"version": "1.0.0",
			"docs":    "/swagger/index.html",
		})
	})

	authHandler := api.NewAuthHandler(cfg)
	expenseHandler := api.NewExpenseHandler(files)
	categoryHandler := api.NewCategoryHandler()
	reportHandler := api.NewReportHandler()
	exportHandler := api.NewExportHandler()

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Legacy surface
	legacy := r.Group("/api")
	legacy.Use(middleware.JWTAuth())
	{
		legacy.GET("/expenses", expenseHandler.ListAll)
		legacy.POST("/expenses", expenseHandler.Create)
		legacy.PUT("/expenses/:id", expenseHandler.Update)
		legacy.DELETE("/expenses/:id", expenseHandler.Delete)
		legacy.GET("/report-data/:period", reportHandler.GetReportData)
	}

	exports := r.Group("/export")
	exports.Use(middleware.JWTAuth())
	{
		exports.GET("/excel/:period", exportHandler.ExportExcel)
		exports.GET("/pdf/:period", exportHandler.ExportPDF)
		exports.GET("/csv/:period", exportHandler.ExportPeriodCSV)
	}

	// v1 API
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			authorized.GET("/expenses", expenseHandler.List)
			authorized.POST("/expenses", expenseHandler.Create)
			authorized.GET("/expenses/:id", expenseHandler.Get)
			authorized.PUT("/expenses/:id", expenseHandler.Update)
			authorized.DELETE("/expenses/:id", expenseHandler.Delete)

			authorized.GET("/categories", categoryHandler.List)
			authorized.POST("/categories", categoryHandler.Create)
			authorized.PUT("/categories/:id", categoryHandler.Update)
			authorized.DELETE("/categories/:id", categoryHandler.Delete)

			authorized.GET("/reports/yearly", reportHandler.GetYearlyReport)
			authorized.GET("/export", exportHandler.ExportHistory)
		}
	}

	return r
}
