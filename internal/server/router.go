package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lecturelab/lectura-backend/internal/handlers"
	"github.com/lecturelab/lectura-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins   []string
	HealthHandler  *handlers.HealthHandler
	AuthHandler    *handlers.AuthHandler
	LectureHandler *handlers.LectureHandler
	TutorHandler   *handlers.TutorHandler
	StudyHandler   *handlers.StudyHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// App state
	protected.GET("/app/state", cfg.LectureHandler.State)
	protected.POST("/app/reset", cfg.LectureHandler.Reset)
	// Lectures
	protected.POST("/lectures/resolve", cfg.LectureHandler.Resolve)
	protected.POST("/lectures/process", cfg.LectureHandler.Process)
	protected.GET("/lectures/current", cfg.LectureHandler.Current)
	// Tutor
	protected.GET("/tutor/messages", cfg.TutorHandler.ListMessages)
	protected.POST("/tutor/messages", cfg.TutorHandler.SendMessage)
	// Quiz
	protected.POST("/quiz/submit", cfg.StudyHandler.SubmitQuiz)

	return router
}

// ParseOrigins splits a comma-separated origin list from the environment.
func ParseOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
