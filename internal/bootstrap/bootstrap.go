package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/schoolbook/marksdesk/internal/app/controllers"
	appMigrations "github.com/schoolbook/marksdesk/internal/app/migrations"
	appRepos "github.com/schoolbook/marksdesk/internal/app/repositories"
	appRoutes "github.com/schoolbook/marksdesk/internal/app/routes"
	appServices "github.com/schoolbook/marksdesk/internal/app/services"
	"github.com/schoolbook/marksdesk/internal/config"
	"github.com/schoolbook/marksdesk/internal/db"
	appMiddleware "github.com/schoolbook/marksdesk/internal/middleware"
	pkgAuth "github.com/schoolbook/marksdesk/internal/pkg/auth"
	"github.com/schoolbook/marksdesk/internal/pkg/logger"
	"github.com/schoolbook/marksdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthService    appServices.AuthService
	StudentService appServices.StudentService
	MarksService   appServices.MarksService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	path := config.PathFromEnv()
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: logger.Format(cfg.Logging.Format),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and applies migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg.Database)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Up(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	if version, err := migrator.Version(ctx); err == nil {
		lgr.Info().Int64("version", version).Msg("Database migrations successfully applied.")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	jwtService, err := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		Algorithm:      cfg.JWT.Algorithm,
		AccessTokenExp: cfg.AccessTokenExp(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	deps.JWTService = jwtService

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.MarksService = appServices.NewMarksService(deps.Repos.MarksRepository, deps.Repos.StudentRepository, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.MarksService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.AuthService, lgr),
		Student: appControllers.NewStudentController(deps.StudentService, lgr),
		Marks:   appControllers.NewMarksController(deps.MarksService, lgr),
		Health:  appControllers.NewHealthController(database, lgr),
	}

	return deps, nil
}

// SeedData ensures the admin account and, when configured, the sample data.
// Failures are logged and do not stop startup.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	seeder := seed.NewSeeder(
		deps.AuthService,
		deps.StudentService,
		deps.MarksService,
		deps.Repos.StudentRepository,
		nil,
		deps.Logger,
	)
	_, err := seeder.Run(ctx, seed.Options{
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
		SampleData:    cfg.Seed.SampleData,
	})
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
		appMiddleware.Timeout(cfg.RequestTimeout()),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router, nil
}
