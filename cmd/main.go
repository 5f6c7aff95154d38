package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/datasource"
	"storefront/internal/features/audit_logs"
	"storefront/internal/features/categories"
	"storefront/internal/features/feeds"
	"storefront/internal/features/products"
	"storefront/internal/features/suppliers"
	system_healthcheck "storefront/internal/features/system/healthcheck"
	system_info "storefront/internal/features/system/info"
	"storefront/internal/features/users"
	"storefront/internal/middleware"
	cache_utils "storefront/internal/util/cache"
	env_utils "storefront/internal/util/env"
	"storefront/internal/util/logger"
	rate_limit "storefront/internal/util/rate_limit"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// modules groups everything the route table needs.
type modules struct {
	users       *users.Module
	auditLogs   *audit_logs.Module
	products    *products.Module
	categories  *categories.Module
	suppliers   *suppliers.Module
	feeds       *feeds.Module
	healthcheck *system_healthcheck.Module
	systemInfo  *system_info.Module
}

// @title Storefront Backend API
// @version 1.0
// @description Generic filterable CRUD API for the storefront catalog

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	log := logger.GetLogger()
	cfg := config.GetEnv()

	runMigrations(log)

	if err := cache_utils.TestCacheConnection(); err != nil {
		log.Error("Failed to connect to cache", "error", err)
		os.Exit(1)
	}

	registry := buildRegistry(log, cfg)
	defer registry.Shutdown()

	mods, err := buildModules(registry, cfg)
	if err != nil {
		log.Error("Failed to wire modules", "error", err)
		os.Exit(1)
	}

	if err := mods.users.Service.EnsureInitialAdmin(cfg.InitialAdminEmail, cfg.InitialAdminPassword); err != nil {
		log.Error("Failed to create initial admin", "error", err)
		os.Exit(1)
	}

	handlePasswordReset(log, mods.users.Service)

	go generateSwaggerDocs(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	// Add GZIP compression middleware
	ginApp.Use(gzip.Gzip(
		gzip.DefaultCompression,
		// Don't compress already compressed files
		gzip.WithExcludedExtensions(
			[]string{".png", ".gif", ".jpeg", ".jpg", ".ico", ".svg", ".pdf", ".mp4"},
		),
	))

	apiLimiter := rate_limit.NewRateLimiter(cache.GetCache())
	ginApp.Use(middleware.RateLimitMiddleware(apiLimiter, cfg.RateLimitRps, cfg.RateLimitBurst))

	enableCors(ginApp)
	setUpRoutes(ginApp, mods)

	startServerWithGracefulShutdown(log, ginApp)
}

func buildRegistry(log *slog.Logger, cfg config.EnvVariables) *datasource.Registry {
	registry := datasource.NewRegistry(datasource.RegistryOptions{
		MaxRetries: cfg.MaxConnectionRetries,
		BaseDelay:  cfg.RetryBaseDelay(),
		Logger:     log,
	})

	if err := registry.Register(datasource.Config{Name: "main", Dsn: cfg.DatabaseDsn}); err != nil {
		log.Error("Failed to register main datasource", "error", err)
		os.Exit(1)
	}

	if cfg.FeedsDatabase != "" {
		if err := registry.Register(datasource.Config{Name: "feeds", Dsn: cfg.FeedsDatabase}); err != nil {
			log.Error("Failed to register feeds datasource", "error", err)
			os.Exit(1)
		}
	}

	// Unreachable datasources are not fatal: the recovery layer retries
	// on first use and the healthcheck reports them as degraded.
	if err := registry.InitializeAll(); err != nil {
		log.Warn("Some datasources failed to initialize", "error", err)
	}

	return registry
}

func buildModules(registry *datasource.Registry, cfg config.EnvVariables) (*modules, error) {
	auditModule, err := audit_logs.NewModule(registry, cfg.MaxPageLimit)
	if err != nil {
		return nil, err
	}

	userModule, err := users.NewModule(registry, cfg.JwtSecret, cfg.MaxPageLimit)
	if err != nil {
		return nil, err
	}
	userModule.Service.SetAuditLogWriter(auditModule.Service)

	productModule, err := products.NewModule(registry, cache.GetCache(), auditModule.Service, cfg.MaxPageLimit)
	if err != nil {
		return nil, err
	}

	categoryModule, err := categories.NewModule(registry, auditModule.Service, cfg.MaxPageLimit)
	if err != nil {
		return nil, err
	}

	supplierModule, err := suppliers.NewModule(registry, auditModule.Service, cfg.MaxPageLimit)
	if err != nil {
		return nil, err
	}

	feedsDatasource := ""
	if cfg.FeedsDatabase != "" {
		feedsDatasource = "feeds"
	}
	feedModule, err := feeds.NewModule(registry, feedsDatasource, auditModule.Service, cfg.MaxPageLimit)
	if err != nil {
		return nil, err
	}

	return &modules{
		users:       userModule,
		auditLogs:   auditModule,
		products:    productModule,
		categories:  categoryModule,
		suppliers:   supplierModule,
		feeds:       feedModule,
		healthcheck: system_healthcheck.NewModule(registry),
		systemInfo:  system_info.NewModule("/"),
	}, nil
}

func setUpRoutes(r *gin.Engine, mods *modules) {
	v1 := r.Group("/api/v1")

	// Mount Swagger UI
	v1.GET("/docs/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	mods.users.Controller.RegisterRoutes(v1)
	mods.healthcheck.Controller.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(users.AuthMiddleware(mods.users.Service))

	mods.users.Controller.RegisterProtectedRoutes(protected)
	mods.products.Controller.RegisterRoutes(protected)
	mods.categories.Controller.RegisterRoutes(protected)
	mods.suppliers.Controller.RegisterRoutes(protected)
	mods.feeds.Controller.RegisterRoutes(protected)

	// Admin-only routes
	admin := protected.Group("", users.RequireRole(users.UserRoleAdmin))
	mods.auditLogs.Controller.RegisterRoutes(admin)
	mods.systemInfo.Controller.RegisterRoutes(admin)
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	host := ""
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:    host + ":8080",
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	// The context is used to inform the server it has 10 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	log.Info("Server gracefully stopped")
}

func runMigrations(log *slog.Logger) {
	log.Info("Running database migrations...")

	cmd := exec.Command("goose", "up")
	cmd.Env = append(
		os.Environ(),
		"GOOSE_DRIVER=postgres",
		"GOOSE_DBSTRING="+config.GetEnv().DatabaseDsn,
		"GOOSE_MIGRATION_DIR=migrations",
	)

	cmd.Dir = config.GetEnv().BackendRootPath

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to run migrations", "error", err, "output", string(output))
		os.Exit(1)
	}

	log.Info("Database migrations completed successfully", "output", string(output))
}

// Keep in mind: docs appear after second launch, because Swagger
// is generated into Go files. So if we changed files, we generate
// new docs, but still need to restart the server to see them.
func generateSwaggerDocs(log *slog.Logger) {
	if config.GetEnv().EnvMode == env_utils.EnvModeProduction {
		return
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Error("Failed to get current directory", "error", err)
		return
	}

	cmd := exec.Command("swag", "init", "-d", currentDir, "-g", "cmd/main.go", "-o", "swagger")

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to generate Swagger docs", "error", err, "output", string(output))
		return
	}

	log.Info("Swagger documentation generated successfully")
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// Setup CORS
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Authorization",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
				"Access-Control-Request-Method",
				"Access-Control-Request-Headers",
				"Access-Control-Allow-Methods",
				"Access-Control-Allow-Headers",
				"Access-Control-Allow-Origin",
			},
			AllowCredentials: true,
		}))
	}
}

func handlePasswordReset(log *slog.Logger, userService *users.UserService) {
	// Handle password reset if flag is provided
	newPassword := flag.String("new-password", "", "Set a new password for the user")
	email := flag.String("email", "", "Email of the user to reset password")

	flag.Parse()

	if *newPassword == "" {
		return
	}

	log.Info("Found reset password command - reseting password...")

	if *email == "" {
		log.Info("No email provided, please provide an email via --email=\"some@email.com\" flag")
		os.Exit(1)
	}

	if err := userService.ResetPasswordByEmail(*email, *newPassword); err != nil {
		log.Error("Failed to reset password", "error", err)
		os.Exit(1)
	}

	log.Info("Password reset successfully")
	os.Exit(0)
}
