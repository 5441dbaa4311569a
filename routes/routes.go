package routes

import (
	"net/http"

	"learnly/handlers"
	"learnly/middleware"
	"learnly/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	articleHandler *handlers.ArticleHandler,
	quizHandler *handlers.QuizHandler,
	hub *services.Hub,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// Article routes
			articles := protected.Group("/articles")
			{
				articles.GET("", articleHandler.GetArticles)
				articles.GET("/:id", articleHandler.GetArticleByID)
				articles.POST("/:id/progress", articleHandler.UpdateProgress)
				articles.GET("/:id/quiz", quizHandler.GetQuizByArticleID)
			}

			// Progress and attempt history for the authenticated user
			protected.GET("/progress", articleHandler.GetUserProgress)
			protected.GET("/attempts", quizHandler.GetUserAttempts)

			// Quiz routes
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetQuizzes)
				quizzes.POST("/:id/attempts", quizHandler.SaveAttempt)
			}
		}
	}

	// WebSocket endpoint pushing cache-refresh events to clients
	router.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}
		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
