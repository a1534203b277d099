package server

import (
	"time"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/admin"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/config"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/controllers"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/middleware"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/services"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/views"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter builds the gin engine with every route of the application
func SetupRouter(db *gorm.DB, conf *config.Config, logger *logrus.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Metrics())

	userController := controllers.NewUserController(services.NewUserService(db))
	siteController := controllers.NewSiteController(services.NewSiteService(db))

	router.GET("/", controllers.Root)
	router.GET("/health", controllers.HealthCheck(db))

	v1 := router.Group("/api/v1")
	v1.Use(apiCORS(conf.CORSAllowedOrigins))
	{
		v1.GET("/users", userController.ListUsers)
		v1.GET("/users/:id", userController.GetUserByID)
		v1.GET("/sites", siteController.ListSites)
		v1.GET("/sites/:id", siteController.GetSiteByID)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	opts := admin.Options{}
	if conf.AdminAuthEnabled() {
		opts.Auth = admin.NewPasswordAuth(conf.AdminUsername, conf.AdminPasswordHash, conf.JWTSecret)
	}
	adm := admin.New(db, opts)
	if err := views.Register(adm); err != nil {
		return nil, err
	}
	adm.Mount(router)

	return router, nil
}

// apiCORS allows read-only cross origin calls to the JSON API
func apiCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Accept", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}
