package config

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env           string
	Port          string
	SessionSecret string
	DatabaseURL   string
	RedisURL      string

	// Fee schedule for the settlement engine. Rates are fractions.
	CommissionRate    decimal.Decimal
	TaxRate           decimal.Decimal
	SellerNetProceeds bool

	// External collaborators.
	BrevoAPIKey  string // transactional email (compliance alerts)
	MailFrom     string
	GeminiAPIKey string // AI reasoning text for onboarding allocations
	GeminiModel  string

	AdminKey            string // guards the compliance sweep endpoint
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	model := viper.GetString("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		CommissionRate:      rate("COMMISSION_RATE", "0.02"),
		TaxRate:             rate("TAX_RATE", "0.12"),
		SellerNetProceeds:   strings.EqualFold(viper.GetString("SELLER_NET_PROCEEDS"), "true"),
		BrevoAPIKey:         viper.GetString("BREVO_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		GeminiAPIKey:        viper.GetString("GEMINI_API_KEY"),
		GeminiModel:         model,
		AdminKey:            viper.GetString("ADMIN_KEY"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
	}, nil
}

// rate parses a decimal env var, falling back to the default when unset or
// malformed — a bad fee rate must not silently become zero.
func rate(key, def string) decimal.Decimal {
	s := strings.TrimSpace(viper.GetString(key))
	if s == "" {
		s = def
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		d, _ = decimal.NewFromString(def)
	}
	return d
}
