package main

import (
	"fmt"

	_ "github.com/franciscosanchezn/gin-sqladmin-demo/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/admin"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/config"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/database"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @title SQLAdmin Demo API
// @version 1.0
// @description Users and sites with a generated admin interface
// @host localhost:8000
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	applyLogLevel(configuration)

	// Initialize database connection, schema and seed data
	db := setupDatabase(configuration)

	// Initialize Gin router
	router := setupRouter(db, configuration)

	// Start the server
	addr := fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)
	log.Infof("Starting server on %s", addr)
	checkPanicErr(router.Run(addr))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
	if log.GetLevel() != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

// applyLogLevel lets LOG_LEVEL override the environment default when it parses
// and aligns every package logger with the result
func applyLogLevel(conf *config.Config) {
	level, err := config.ResolveLogLevel(conf.Environment, conf.LogLevel)
	if err != nil {
		log.WithError(err).Warn("Ignoring LOG_LEVEL, keeping the APP_ENV level")
	}
	log.SetLevel(level)
	config.SetLogLevel(level)
	database.SetLogLevel(level)
	admin.SetLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the database, migrates the schema and seeds the sample user
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.FromConfig(conf))
	checkPanicErr(err)

	checkPanicErr(database.Bootstrap(db, conf.SeedData))
	return db
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter(db *gorm.DB, conf *config.Config) *gin.Engine {
	router, err := server.SetupRouter(db, conf, log.StandardLogger())
	checkPanicErr(err)
	return router
}
