// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/BlvckBrry/finance-tracker/config"
	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/auth"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/category"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/currency"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/ledger"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/limits"
	"github.com/BlvckBrry/finance-tracker/internal/application/usecase/report"
	"github.com/BlvckBrry/finance-tracker/internal/infra/server/router"
	"github.com/BlvckBrry/finance-tracker/internal/integration/adapters"
	"github.com/BlvckBrry/finance-tracker/internal/integration/email"
	"github.com/BlvckBrry/finance-tracker/internal/integration/email/templates"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/controller"
	"github.com/BlvckBrry/finance-tracker/internal/integration/entrypoint/middleware"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
	"github.com/BlvckBrry/finance-tracker/internal/integration/rates"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	EmailWorker  *email.Worker
	RateSyncer   *rates.Syncer
	LimitMonitor *limits.Monitor
}

// NewInjector creates a new dependency injector with all dependencies wired.
// The email sender is a parameter so tests can substitute a mock for the
// Resend client.
func NewInjector(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	emailSender adapter.EmailSender,
	dbHealthChecker func() bool,
) (*Injector, error) {
	baseCode := cfg.Currency.BaseCode

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(redisClient)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	currencyRepo := persistence.NewCurrencyRepository(db)
	ledgerRepo := persistence.NewLedgerRepository(db, baseCode)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	notifier := email.NewService(emailQueueRepo, baseCode)

	// Create currency machinery
	converter := currency.NewConverter(currencyRepo, baseCode)
	rateSource := rates.NewClient(redisClient, cfg.Currency.SyncURL, cfg.Currency.CacheTTL)
	syncRatesUseCase := currency.NewSyncRatesUseCase(rateSource, currencyRepo, baseCode)
	rateSyncer := rates.NewSyncer(syncRatesUseCase, cfg.Currency.SyncInterval)

	// Create spending limit monitor
	limitMonitor := limits.NewMonitor(userRepo, transactionRepo, converter, notifier, cfg.Limits.WarningCooldown)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, transactionRepo)

	// Create ledger use cases
	createTransactionUseCase := ledger.NewCreateTransactionUseCase(ledgerRepo, categoryRepo, converter, limitMonitor)
	updateTransactionUseCase := ledger.NewUpdateTransactionUseCase(ledgerRepo, transactionRepo, categoryRepo, converter, limitMonitor)
	deleteTransactionUseCase := ledger.NewDeleteTransactionUseCase(ledgerRepo, transactionRepo, converter)
	listTransactionsUseCase := ledger.NewListTransactionsUseCase(transactionRepo)
	getTransactionUseCase := ledger.NewGetTransactionUseCase(transactionRepo, categoryRepo)
	getBalanceUseCase := ledger.NewGetBalanceUseCase(ledgerRepo, transactionRepo)
	adjustBalanceUseCase := ledger.NewAdjustBalanceUseCase(createTransactionUseCase)
	resetAccountUseCase := ledger.NewResetAccountUseCase(ledgerRepo)

	// Create spending limit use cases
	getSettingsUseCase := limits.NewGetSettingsUseCase(userRepo, limitMonitor)
	updateSettingsUseCase := limits.NewUpdateSettingsUseCase(userRepo)

	// Create currency use cases
	listCurrenciesUseCase := currency.NewListCurrenciesUseCase(currencyRepo)
	getCurrencyUseCase := currency.NewGetCurrencyUseCase(currencyRepo)
	convertCurrencyUseCase := currency.NewConvertCurrencyUseCase(converter)

	// Create report use cases
	summaryUseCase := report.NewSummaryUseCase(transactionRepo, ledgerRepo, converter)
	breakdownUseCase := report.NewCategoryBreakdownUseCase(transactionRepo, converter)
	exportUseCase := report.NewExportTransactionsUseCase(transactionRepo, converter)
	importUseCase := report.NewImportTransactionsUseCase(createTransactionUseCase)

	// Create email worker
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	emailWorker := email.NewWorker(emailQueueRepo, emailSender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	// Create controllers
	healthController := controller.NewHealthController(dbHealthChecker)
	authController := controller.NewAuthController(registerUseCase, loginUseCase, refreshTokenUseCase, logoutUseCase)
	userController := controller.NewUserController(getSettingsUseCase, updateSettingsUseCase)
	categoryController := controller.NewCategoryController(createCategoryUseCase, listCategoriesUseCase, updateCategoryUseCase, deleteCategoryUseCase)
	transactionController := controller.NewTransactionController(createTransactionUseCase, updateTransactionUseCase, deleteTransactionUseCase, listTransactionsUseCase, getTransactionUseCase)
	balanceController := controller.NewBalanceController(getBalanceUseCase, adjustBalanceUseCase, resetAccountUseCase)
	currencyController := controller.NewCurrencyController(listCurrenciesUseCase, getCurrencyUseCase, convertCurrencyUseCase, baseCode)
	reportController := controller.NewReportController(summaryUseCase, breakdownUseCase, exportUseCase, importUseCase)

	// Create middleware
	loginRateLimiter := middleware.NewRateLimiter()
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		userController,
		categoryController,
		transactionController,
		balanceController,
		currencyController,
		reportController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Router:       r,
		EmailWorker:  emailWorker,
		RateSyncer:   rateSyncer,
		LimitMonitor: limitMonitor,
	}, nil
}
