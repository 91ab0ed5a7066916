// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/myeconomy/backend/config"
	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/application/usecase/auth"
	"github.com/myeconomy/backend/internal/application/usecase/dashboard"
	"github.com/myeconomy/backend/internal/application/usecase/expense"
	"github.com/myeconomy/backend/internal/application/usecase/limit"
	"github.com/myeconomy/backend/internal/application/usecase/user"
	"github.com/myeconomy/backend/internal/infra/server/router"
	"github.com/myeconomy/backend/internal/integration/adapters"
	"github.com/myeconomy/backend/internal/integration/cache"
	"github.com/myeconomy/backend/internal/integration/email"
	"github.com/myeconomy/backend/internal/integration/email/templates"
	"github.com/myeconomy/backend/internal/integration/entrypoint/controller"
	"github.com/myeconomy/backend/internal/integration/entrypoint/middleware"
	"github.com/myeconomy/backend/internal/integration/persistence"
	"github.com/myeconomy/backend/internal/integration/report"
)

// Options overrides collaborators that tests replace.
type Options struct {
	// Now is the clock of every use case. Defaults to time.Now.
	Now adapter.Clock

	// EmailSender delivers queued emails. Defaults to Resend when an API
	// key is configured and to a log-only sender otherwise.
	EmailSender adapter.EmailSender

	// PasswordService hashes passwords. Defaults to bcrypt at the default cost.
	PasswordService adapter.PasswordService
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts Options) (*Injector, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db, now)
	expenseRepo := persistence.NewExpenseRepository(db)
	limitRepo := persistence.NewLimitRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Redis-backed collaborators
	snapshotCache := cache.NewSnapshotCache(redisClient, cfg.Redis.SnapshotCacheTTL)
	periodLocker := cache.NewPeriodLocker(redisClient, cfg.Redis.LimitLockTTL)

	// Adapters and services
	passwordService := opts.PasswordService
	if passwordService == nil {
		passwordService = adapters.NewPasswordService()
	}
	tokenService := adapters.NewTokenService(adapters.TokenConfig{
		Secret:          cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTokenExpiry,
		RefreshTokenTTL: cfg.JWT.RefreshTokenExpiry,
		ResetTokenTTL:   cfg.JWT.ResetTokenExpiry,
	}, tokenRepo, now)
	resetTokenService := adapters.NewPasswordResetTokenService(tokenRepo, cfg.JWT.ResetTokenExpiry, now)
	emailService := email.NewService(emailQueueRepo, now)
	exporter := report.NewXLSXExporter()

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	sender := opts.EmailSender
	if sender == nil {
		if cfg.Email.ResendAPIKey != "" {
			resendClient, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, cfg.Email.ResendBaseURL)
			if err != nil {
				return nil, err
			}
			sender = resendClient
		} else {
			slog.Warn("RESEND_API_KEY not set, emails will only be logged")
			sender = email.LogSender{}
		}
	}

	emailWorker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	}, now)

	// Auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, now)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	forgotPasswordUseCase := auth.NewForgotPasswordUseCase(userRepo, resetTokenService, emailService, cfg.Email.AppBaseURL, describeLifetime(cfg.JWT.ResetTokenExpiry))
	resetPasswordUseCase := auth.NewResetPasswordUseCase(userRepo, passwordService, resetTokenService, tokenService, now)
	deleteAccountUseCase := auth.NewDeleteAccountUseCase(userRepo, passwordService, tokenService)

	// User use cases
	getCurrentUserUseCase := user.NewGetCurrentUserUseCase(userRepo)
	updateProfileUseCase := user.NewUpdateProfileUseCase(userRepo, now)

	// Expense use cases
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, snapshotCache, now)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo, snapshotCache, now)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo, snapshotCache, now)
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo, now)
	listGroupedExpensesUseCase := expense.NewListGroupedExpensesUseCase(expenseRepo, now)
	exportExpensesUseCase := expense.NewExportExpensesUseCase(userRepo, expenseRepo, limitRepo, exporter)

	// Limit use cases
	createLimitUseCase := limit.NewCreateLimitUseCase(limitRepo, periodLocker, snapshotCache, now)
	updateLimitUseCase := limit.NewUpdateLimitUseCase(limitRepo, periodLocker, snapshotCache, now)
	deleteLimitUseCase := limit.NewDeleteLimitUseCase(limitRepo, snapshotCache, now)
	listLimitsUseCase := limit.NewListLimitsUseCase(limitRepo, now)

	// Dashboard use cases
	getSnapshotUseCase := dashboard.NewGetSnapshotUseCase(expenseRepo, limitRepo, limitRepo, snapshotCache, now)
	getPeriodOptionsUseCase := dashboard.NewGetPeriodOptionsUseCase(now)

	// Controllers
	healthController := controller.NewHealthController(map[string]controller.HealthChecker{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}, now)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
		forgotPasswordUseCase,
		resetPasswordUseCase,
	)

	userController := controller.NewUserController(
		getCurrentUserUseCase,
		updateProfileUseCase,
		deleteAccountUseCase,
	)

	expenseController := controller.NewExpenseController(
		createExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
		listExpensesUseCase,
		listGroupedExpensesUseCase,
		exportExpensesUseCase,
	)

	limitController := controller.NewLimitController(
		createLimitUseCase,
		updateLimitUseCase,
		deleteLimitUseCase,
		listLimitsUseCase,
	)

	dashboardController := controller.NewDashboardController(
		getSnapshotUseCase,
		getPeriodOptionsUseCase,
	)

	// Middleware
	loginRateLimiter := middleware.NewRateLimiter(redisClient, "login", cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		userController,
		expenseController,
		limitController,
		dashboardController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		EmailWorker: emailWorker,
	}, nil
}

// describeLifetime renders a token lifetime the way the reset email quotes it.
func describeLifetime(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", d/time.Hour)
	case d > time.Minute:
		return fmt.Sprintf("%d minutos", d/time.Minute)
	default:
		return "1 minuto"
	}
}
