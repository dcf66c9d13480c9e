package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/handler"
	"github.com/stemsi/smartexam/internal/middleware"
	"github.com/stemsi/smartexam/internal/response"
	"github.com/stemsi/smartexam/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Session  *handler.SessionHandler
	Result   *handler.ResultHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// loginLimiter may be nil to leave the login route unthrottled.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	loginLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	brotliConfig := middleware.DefaultBrotliConfig
	brotliConfig.ExcludedPrefixes = []string{"/ws/"}
	router.Use(middleware.BrotliWithConfig(brotliConfig))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		login := []gin.HandlerFunc{handlers.Auth.AdminLogin}
		if loginLimiter != nil {
			login = append([]gin.HandlerFunc{loginLimiter.Middleware()}, login...)
		}
		auth.POST("/admin/login", login...)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Candidate Group (single trusted local user) ────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/exams", handlers.Exam.ListExams)
		api.GET("/exams/:exam_id", handlers.Exam.GetExam)
		api.GET("/subjects", middleware.PublicMaxAge(60), handlers.Question.ListSubjects)

		api.GET("/results", middleware.NoStore(), handlers.Result.ListResults)
		api.GET("/progress", middleware.NoStore(), handlers.Result.GetProgress)

		sessions := api.Group("/sessions")
		sessions.Use(middleware.NoStore())
		{
			sessions.POST("", handlers.Session.StartSession)
			sessions.GET("/:session_id", handlers.Session.GetState)
			sessions.DELETE("/:session_id", handlers.Session.Abandon)
			sessions.PUT("/:session_id/answers", handlers.Session.RecordAnswer)
			sessions.POST("/:session_id/advance", handlers.Session.Advance)
			sessions.POST("/:session_id/retreat", handlers.Session.Retreat)
			sessions.POST("/:session_id/goto", handlers.Session.GoTo)
			sessions.POST("/:session_id/submit", handlers.Session.Submit)
			sessions.GET("/:session_id/result", handlers.Session.GetResult)
			sessions.GET("/:session_id/review", handlers.Session.GetReview)
		}
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	wsGroup := router.Group("/ws/v1")
	{
		wsGroup.GET("/sessions/:session_id/stream", handlers.WS.SessionStream)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService), middleware.NoStore())
	{
		adminAPI.GET("/questions", handlers.Question.ListQuestions)
		adminAPI.GET("/questions/:question_id", handlers.Question.GetQuestion)
		adminAPI.POST("/questions", handlers.Question.AddQuestion)
		adminAPI.DELETE("/questions/:question_id", handlers.Question.DeleteQuestion)

		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.DELETE("/exams/:exam_id", handlers.Exam.DeleteExam)
	}

	return router
}
