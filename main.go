package main

import (
	"context"
	"log"

	"learnly/cache"
	"learnly/config"
	"learnly/gateway"
	"learnly/handlers"
	"learnly/middleware"
	"learnly/models"
	"learnly/netcheck"
	"learnly/routes"
	"learnly/services"
	"learnly/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Article{},
		&models.ArticleProgress{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.QuizAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis-backed cache
	redisClient := config.InitRedis(cfg)
	kv := storage.NewRedisStore(redisClient)
	cacheManager := cache.NewManager(context.Background(), kv)

	// Initialize remote gateway and connectivity check
	gw := gateway.New(db)
	checker := netcheck.NewDialer(cfg.ProbeAddr)

	// Initialize refresh hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize sync services
	pending := services.DiscardQueue{}
	articleService := services.NewArticleService(gw, cacheManager, checker, pending, hub)
	quizService := services.NewQuizService(gw, cacheManager, checker, pending, hub)

	// Initialize handlers
	articleHandler := handlers.NewArticleHandler(articleService)
	quizHandler := handlers.NewQuizHandler(quizService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, articleHandler, quizHandler, hub, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
