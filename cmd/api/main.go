package main

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"tech-envelope/internal/api/handlers"
	"tech-envelope/internal/api/middleware"
)

func main() {
	log := setupLogger()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	buildHandler := handlers.NewBuildHandler(log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := router.Group("/api/v1")
	{
		v1.POST("/build", buildHandler.Build)
		v1.POST("/fit", buildHandler.Fit)
		v1.POST("/analyze", buildHandler.Analyze)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	log.WithField("port", port).Info("starting envelope API")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func allowedOrigins() []string {
	if o := os.Getenv("API_CORS_ORIGIN"); o != "" {
		return []string{o}
	}
	return []string{"*"}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if path := os.Getenv("API_LOG_FILE"); path != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}))
	}
	return log
}
