package router

import (
	"net/http"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/handler"
	"github.com/aulavia/examenes-backend/internal/middleware"
	"github.com/aulavia/examenes-backend/internal/response"
	"github.com/aulavia/examenes-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Exam       *handler.ExamHandler
	Auth       *handler.AuthHandler
	Instructor *handler.InstructorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	startLimiter *middleware.RateLimiter,
	handlers *Handlers,
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
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response carries one.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Public exam-taking surface ─────────────────────────────────
	examen := router.Group("/examen")
	{
		examen.POST("/iniciar", startLimiter.Middleware(), handlers.Exam.Start)
		examen.GET("/:intentoId/pregunta-actual", handlers.Exam.CurrentQuestion)
		examen.POST("/responder", handlers.Exam.Answer)
		examen.POST("/finalizar", handlers.Exam.Finalize)
		examen.GET("/:intentoId/resultado", handlers.Exam.Result)
	}

	// ─── 2. Instructor surface (JWT) ───────────────────────────────────
	instructorAPI := router.Group("/api/instructor")
	{
		instructorAPI.POST("/login", handlers.Auth.Login)
		instructorAPI.POST("/tokens", middleware.RequireInstructorJWT(authService), handlers.Instructor.CreateToken)
	}

	return router
}
