package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/rohandevadiga3333/wiz/config"
	"github.com/rohandevadiga3333/wiz/internal/auth"
	"github.com/rohandevadiga3333/wiz/internal/task"
)

func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`
			<html>
				<head><title>Wiz</title></head>
				<body style="text-align:center; margin-top: 40px;">
					<h1>Wiz Team Tasks API</h1>
					<p><a href="/swagger/index.html">API documentation</a></p>
				</body>
			</html>
		`))
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, cfg)
	task.TaskRoutes(api, db, cfg)

	return r
}
