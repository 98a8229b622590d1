package app

import (
	"carbonflow-backend/internal/auth"
	"carbonflow-backend/internal/balances"
	"carbonflow-backend/internal/config"
	"carbonflow-backend/internal/dashboard"
	"carbonflow-backend/internal/database"
	"carbonflow-backend/internal/emails"
	"carbonflow-backend/internal/emissions"
	"carbonflow-backend/internal/health"
	"carbonflow-backend/internal/listings"
	"carbonflow-backend/internal/market"
	"carbonflow-backend/internal/marketplace"
	"carbonflow-backend/internal/middleware"
	"carbonflow-backend/internal/money"
	"carbonflow-backend/internal/onboarding"
	"carbonflow-backend/internal/settings"
	"carbonflow-backend/internal/settlement"
	"carbonflow-backend/internal/transactions"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	var userFinder auth.UserFinder
	var balanceService *balances.Service
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
		balanceService = &balances.Service{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Balances:   balanceService,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db == nil {
		log.Warn().Msg("DATABASE_URL not set; only auth/health routes registered")
		return app, db, rdb, nil
	}

	fees := money.FeeSchedule{
		CommissionRate: cfg.CommissionRate,
		TaxRate:        cfg.TaxRate,
		NetProceeds:    cfg.SellerNetProceeds,
	}
	engine := &settlement.Engine{
		Store: settlement.NewGormStore(db),
		Fees:  fees,
		Log:   log.Logger,
	}
	listingService := &listings.Service{DB: db}
	marketService := &market.Service{DB: db}

	// Marketplace
	mkt := &marketplace.Handlers{
		Balances: balanceService,
		Listings: listingService,
		Market:   marketService,
		Engine:   engine,
	}
	mktGroup := app.Group("/api/v1/marketplace", middleware.RequireAuth())
	mktGroup.Get("/", mkt.Get)
	mktGroup.Get("/quote/:sell_id", mkt.Quote)
	mktGroup.Post("/sell-credits", mkt.Sell)
	mktGroup.Post("/buy-credits", mkt.Buy)

	// Transactions
	txHandlers := &transactions.Handlers{Service: &transactions.Service{DB: db}}
	app.Get("/api/v1/transactions", middleware.RequireAuth(), txHandlers.Get)

	// Emissions + compliance
	var sender emails.Sender
	if cfg.BrevoAPIKey != "" {
		sender = &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}
	}
	emissionService := &emissions.Service{DB: db}
	emissionHandlers := &emissions.Handlers{
		Service:  emissionService,
		Sweeper:  &emissions.Sweeper{DB: db, Sender: sender, Log: log.Logger},
		AdminKey: cfg.AdminKey,
	}
	emGroup := app.Group("/api/v1/emissions", middleware.RequireAuth())
	emGroup.Get("/logs", emissionHandlers.Logs)
	emGroup.Get("/history", emissionHandlers.History)
	emGroup.Get("/reduction", emissionHandlers.Reduction)
	emGroup.Get("/status", emissionHandlers.Status)
	app.Post("/api/v1/compliance/run", emissionHandlers.RunSweep)

	// Onboarding
	var completer onboarding.TextCompleter
	if cfg.GeminiAPIKey != "" {
		completer = &onboarding.GeminiClient{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
	}
	onboardingHandlers := &onboarding.Handlers{
		Service: &onboarding.Service{DB: db, Completer: completer, Log: log.Logger},
	}
	app.Post("/api/v1/onboarding", middleware.RequireAuth(), onboardingHandlers.Submit)

	// Market data
	marketHandlers := &market.Handlers{Service: marketService}
	app.Get("/api/v1/market", middleware.RequireAuth(), marketHandlers.Get)

	// Dashboard
	dashboardHandlers := &dashboard.Handlers{
		Balances:  balanceService,
		Market:    marketService,
		Emissions: emissionService,
	}
	app.Get("/api/v1/dashboard", middleware.RequireAuth(), dashboardHandlers.Get)

	// Settings
	settingsHandlers := &settings.Handlers{Service: &settings.Service{DB: db}}
	app.Patch("/api/v1/settings", middleware.RequireAuth(), settingsHandlers.Update)

	return app, db, rdb, nil
}
