package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/analytics"
	"github.com/RahulB-24/ExpenseOps/internal/auth"
	authPostgres "github.com/RahulB-24/ExpenseOps/internal/auth/postgres"
	"github.com/RahulB-24/ExpenseOps/internal/category"
	categoryPostgres "github.com/RahulB-24/ExpenseOps/internal/category/postgres"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
	expensePostgres "github.com/RahulB-24/ExpenseOps/internal/expense/postgres"
	"github.com/RahulB-24/ExpenseOps/internal/transport/rest"
	"github.com/RahulB-24/ExpenseOps/internal/transport/swagger"
	"github.com/RahulB-24/ExpenseOps/internal/user"
	userPostgres "github.com/RahulB-24/ExpenseOps/internal/user/postgres"
	"github.com/RahulB-24/ExpenseOps/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const openAPIPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	if err := swagger.ValidateSpec(context.Background(), openAPIPath); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	router := chi.NewRouter()
	wireHandlers(router, db, gormDB, config, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

func wireHandlers(router *chi.Mux, db *sqlx.DB, gormDB *gorm.DB, config *internal.Config, log *slog.Logger) {
	userRepo := authPostgres.NewUserRepository(gormDB)
	tenantRepo := authPostgres.NewTenantRepository(gormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)
	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	mgmtUserRepo := userPostgres.NewUserRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)

	categoryService := category.NewService(categoryRepo, log)
	authService := auth.NewService(userRepo, tenantRepo, categoryService, tokenGen, config.Security.BCryptCost, log)
	expenseService := expense.NewService(expenseRepo, categoryService, log)
	userService := user.NewService(mgmtUserRepo, authService, tenantRepo, log)

	authHandler := auth.NewHandler(authService, log)
	userHandler := user.NewHandler(userService, log)
	expenseHandler := expense.NewHandler(expenseService, log)
	categoryHandler := category.NewHandler(categoryService, log)
	analyticsHandler := analytics.NewHandler(expenseRepo, log)

	rest.RegisterAllRoutes(router, db.DB, &config.Server,
		authHandler, userHandler, expenseHandler, categoryHandler, analyticsHandler, log)
}

// initDB opens the pgx-backed connection pool used both directly for health
// checks and as the gorm connection.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
