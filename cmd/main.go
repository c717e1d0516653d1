package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lecturelab/lectura-backend/internal/db"
	"github.com/lecturelab/lectura-backend/internal/handlers"
	"github.com/lecturelab/lectura-backend/internal/middleware"
	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/oembed"
	"github.com/lecturelab/lectura-backend/internal/platform/openai"
	"github.com/lecturelab/lectura-backend/internal/realtime"
	"github.com/lecturelab/lectura-backend/internal/repos"
	"github.com/lecturelab/lectura-backend/internal/server"
	"github.com/lecturelab/lectura-backend/internal/services"
	"github.com/lecturelab/lectura-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Root context, cancelled on SIGINT/SIGTERM so the bus subscription and
	// the forwarder goroutine wind down with the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Store
	store, err := db.NewStore(log)
	if err != nil {
		log.Error("Store init failed", "error", err)
		os.Exit(1)
	}
	if err = store.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := store.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	lectureRepo := repos.NewLectureRepo(theDB, log)
	studyBundleRepo := repos.NewStudyBundleRepo(theDB, log)
	chatMessageRepo := repos.NewChatMessageRepo(theDB, log)

	// Session bus
	log.Info("Setting up session bus from main...")
	bus, err := realtime.NewBus(log)
	if err != nil {
		log.Error("Could not init session bus", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	// Services
	log.Info("Setting up services from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	oembedClient, err := oembed.New(log)
	if err != nil {
		log.Error("Could not init oEmbed client", "error", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(log)
	authService := services.NewAuthService(
		theDB, log, userRepo, userTokenRepo, emailService, bus,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	appStateService := services.NewAppStateService(log, bus)
	if err := appStateService.Start(ctx); err != nil {
		log.Error("Could not start app-state forwarder", "error", err)
		os.Exit(1)
	}
	transcriptService := services.NewTranscriptService(log, openaiClient, oembedClient, nil)
	generationService := services.NewGenerationService(log, openaiClient)
	tutorService := services.NewTutorService(log, openaiClient, chatMessageRepo)
	lectureService := services.NewLectureService(
		theDB, log, lectureRepo, studyBundleRepo, chatMessageRepo,
		generationService, tutorService, appStateService,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler(store.Demo())
	authHandler := handlers.NewAuthHandler(authService)
	lectureHandler := handlers.NewLectureHandler(transcriptService, lectureService, appStateService)
	tutorHandler := handlers.NewTutorHandler(tutorService, lectureService)
	studyHandler := handlers.NewStudyHandler(lectureService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:   server.ParseOrigins(os.Getenv("CORS_ALLOW_ORIGINS")),
		HealthHandler:  healthHandler,
		AuthHandler:    authHandler,
		LectureHandler: lectureHandler,
		TutorHandler:   tutorHandler,
		StudyHandler:   studyHandler,
		AuthMiddleware: authMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
