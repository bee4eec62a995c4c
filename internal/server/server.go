package server

import (
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"teampulse-backend/internal/common"
	"teampulse-backend/internal/config"
	"teampulse-backend/internal/database"
	"teampulse-backend/internal/handlers"
	"teampulse-backend/internal/models"

	"github.com/go-playground/validator"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CustomValidator Source: https://echo.labstack.com/docs/request#validate-data
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

type Server struct {
	common.ServerState
}

func New(cfg *config.Config) *Server {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Logger.SetLevel(log.INFO)
	e.HideBanner = true

	return &Server{
		common.ServerState{
			Echo:   e,
			Config: cfg,
		},
	}
}

func (s *Server) Initialize() error {
	s.setupDatabase()

	s.JwtIssuer = handlers.NewJwtAuth(s.Config.Auth.TokenSecret)

	s.setupRoutes()

	s.runMigrations()

	if s.Config.SeedSampleData {
		if err := database.Seed(s.DB); err != nil {
			s.Echo.Logger.Warnf("Failed to seed sample data: %v", err)
		}
	}

	s.setupMetrics()

	// Keep last to avoid Recover middleware and panic if something goes
	// wrong on init
	s.setupMiddleware()

	return nil
}

func (s *Server) setupDatabase() {
	dsn := s.Config.Database.DSN
	if dsn == "" {
		s.Echo.Logger.Fatal("DATABASE_DSN environment variable is required")
	}

	var db *gorm.DB
	var err error

	// Detect database driver from DSN
	// SQLite DSNs typically start with "file:"
	if strings.HasPrefix(dsn, "file:") {
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	} else {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	}

	if err != nil {
		s.Echo.Logger.Fatal(err)
	}
	s.DB = db
}

func (s *Server) runMigrations() {
	err := s.DB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Feedback{},
	)
	if err != nil {
		s.Echo.Logger.Fatal(err)
	}
}

func (s *Server) setupMiddleware() {
	s.Echo.Use(middleware.CORS())
	s.Echo.Use(middleware.Recover())
	// Multiple test runs register collectors against the same default
	// registry; don't panic on the second registration
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && err.Error() == "duplicate metrics collector registration attempted" {
				s.Echo.Logger.Warn("Prometheus middleware already registered, skipping")
			} else {
				panic(r)
			}
		}
	}()
	s.Echo.Use(echoprometheus.NewMiddleware("teampulse_backend"))
}

func (s *Server) setupMetrics() {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Subsystem: "feedback",
			Name:      "unacknowledged_total",
			Help:      "The number of feedback records not yet acknowledged by their subject",
		},
		func() float64 {
			var count int64
			if err := s.DB.Model(&models.Feedback{}).Where("acknowledged = ?", false).Count(&count).Error; err != nil {
				return math.NaN()
			}
			return float64(count)
		},
	)

	if err := prometheus.Register(gauge); err != nil {
		// Re-registration happens across test runs against the default
		// registry
		s.Echo.Logger.Warnf("Failed to register feedback gauge: %v", err)
	}
}

func (s *Server) setupRoutes() {
	auth := handlers.NewAuthHandler(s.DB, s.Config, s.JwtIssuer)
	users := handlers.NewUserHandler(s.DB, s.Config, s.JwtIssuer)
	feedback := handlers.NewFeedbackHandler(s.DB, s.Config, s.JwtIssuer)
	teams := handlers.NewTeamHandler(s.DB, s.Config, s.JwtIssuer)

	healthCheck := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	s.Echo.GET("/health", healthCheck)

	api := s.Echo.Group("/api")

	// Public API endpoints
	api.GET("/health", healthCheck)
	api.GET("/metrics", echoprometheus.NewHandler())
	api.POST("/auth/login", auth.Login)

	// Protected API routes group
	protectedAPI := api.Group("", s.JwtIssuer.Middleware())

	protectedAPI.GET("/auth/me", auth.Me)
	protectedAPI.GET("/users", users.ListUsers)
	protectedAPI.GET("/teams", teams.ListTeams)

	protectedAPI.GET("/feedback", feedback.ListFeedback)
	protectedAPI.POST("/feedback", feedback.CreateFeedback)
	protectedAPI.PUT("/feedback/:id", feedback.UpdateFeedback)
	protectedAPI.POST("/feedback/:id/acknowledge", feedback.AcknowledgeFeedback)
}

func (s *Server) Start() error {
	serverURL := s.Config.Server.Host + ":" + s.Config.Server.Port

	if s.Config.Server.TLS.Enabled {
		if _, err := os.Stat(s.Config.Server.TLS.CertFile); os.IsNotExist(err) {
			s.Echo.Logger.Warn("TLS certificate file not found, falling back to HTTP")
			return s.Echo.Start(serverURL)
		}
		if _, err := os.Stat(s.Config.Server.TLS.KeyFile); os.IsNotExist(err) {
			s.Echo.Logger.Warn("TLS key file not found, falling back to HTTP")
			return s.Echo.Start(serverURL)
		}
		return s.Echo.StartTLS(serverURL, s.Config.Server.TLS.CertFile, s.Config.Server.TLS.KeyFile)
	}

	return s.Echo.Start(serverURL)
}
