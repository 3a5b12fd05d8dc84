package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/courseportal/internal/app/auth"
	appControllers "github.com/yigit/courseportal/internal/app/controllers"
	appRepos "github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/app/repositories/postgres"
	"github.com/yigit/courseportal/internal/app/repositories/sqlite"
	appRoutes "github.com/yigit/courseportal/internal/app/routes"
	appServices "github.com/yigit/courseportal/internal/app/services"
	"github.com/yigit/courseportal/internal/app/session"
	"github.com/yigit/courseportal/internal/config"
	"github.com/yigit/courseportal/internal/db"
	appMiddleware "github.com/yigit/courseportal/internal/middleware"
	pkgAuth "github.com/yigit/courseportal/internal/pkg/auth"
	"github.com/yigit/courseportal/internal/pkg/helpers"
	"github.com/yigit/courseportal/internal/pkg/logger"
	"github.com/yigit/courseportal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	Services          *appServices.Services
	Sessions          *session.MemoryStore
	Guard             *appAuth.Guard
	AuthMiddleware    *appMiddleware.AuthMiddleware
	AuthController    *appControllers.AuthController
	AdminController   *appControllers.AdminController
	StudentController *appControllers.StudentController
	HealthController  *appControllers.HealthController
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(config.ResolvePath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := SetupLogger(cfg)
	return cfg, lgr, nil
}

// SetupLogger configures the global logger from cfg and returns it
func SetupLogger(cfg *config.Config) zerolog.Logger {
	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "courseportal",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return lgr
}

// SetupStore opens the configured store, applies migrations and seeds the
// sample courses when enabled.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	var store appRepos.Store

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		lgr.Info().Str("path", cfg.Database.Path).Msg("Opening sqlite store...")
		sqliteStore, err := sqlite.OpenAndMigrate(ctx, cfg.Database.Path, lgr)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to open sqlite store, run initdb to recreate it")
			return nil, err
		}
		store = sqliteStore

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		pgStore := postgres.NewStore(database, lgr)
		if err := pgStore.Migrate(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, err
		}
		store = pgStore

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Store ready, migrations applied.")

	if cfg.Database.SeedSampleCourses {
		if _, err := seed.CreateDefaultData(ctx, store, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create sample courses, proceeding anyway...")
		}
	}

	return store, nil
}

// BuildDependencies initializes services, session handling and controllers over store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	deps.Services = appServices.NewServices(store)

	ttl := helpers.ParseDuration(cfg.Session.TTL, 12*time.Hour)
	deps.Sessions = session.NewMemoryStore(ttl)

	admin, err := pkgAuth.NewAdminAuthenticator(cfg.Admin.Secret, cfg.Admin.SecretHash)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to configure admin authentication")
		return nil, fmt.Errorf("failed to configure admin authentication: %w", err)
	}

	tokens := pkgAuth.NewSessionTokens(cfg.Session.Secret, ttl)
	deps.Guard = appAuth.NewGuard(deps.Sessions, tokens, admin, deps.Services.Students, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Guard, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: int(ttl.Seconds()),
		Secure: cfg.Session.Secure,
	})

	deps.AuthController = appControllers.NewAuthController(deps.Guard, deps.AuthMiddleware)
	deps.AdminController = appControllers.NewAdminController(deps.Services.Courses, deps.Services.Registrations)
	deps.StudentController = appControllers.NewStudentController(deps.Services.Students, deps.Services.Registrations)
	deps.HealthController = appControllers.NewHealthController(store, cfg.Database.Driver)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.AdminController,
		deps.StudentController,
		deps.HealthController,
		deps.AuthMiddleware,
		deps.Store,
	)

	return router
}
