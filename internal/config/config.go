package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Log       LogConfig
	Email     EmailConfig
	Quote     QuoteConfig
	Company   CompanyConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	Debug       bool
	Version     string
	FrontendURL string
}

type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
	LogLevel   string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// QuoteConfig holds the business parameters printed on offers and invoices.
type QuoteConfig struct {
	OfferValidityDays int
	PaymentTermDays   int
	DefaultCreatedBy  string
}

// CompanyConfig selects the default branded entity and carries the
// deployment-specific values that are not part of the built-in profiles.
type CompanyConfig struct {
	Default  string
	BankName string
	IBAN     string
	BIC      string
	Mobile   string
	// Overrides holds COMPANY_<KEY>_<FIELD> values per company key.
	Overrides map[string]map[string]string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests       int
	Duration       int
	PublicRequests int
}

// AdminConfig seeds the first back office account on an empty database.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Env:         viper.GetString("APP_ENV"),
			Port:        viper.GetString("APP_PORT"),
			Debug:       viper.GetBool("APP_DEBUG"),
			Version:     viper.GetString("APP_VERSION"),
			FrontendURL: strings.TrimRight(viper.GetString("FRONTEND_URL"), "/"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     viper.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:    viper.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:     viper.GetDuration("HTTP_IDLE_TIMEOUT"),
			ShutdownTimeout: viper.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
			LogLevel:   viper.GetString("DB_LOG_LEVEL"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
		Quote: QuoteConfig{
			OfferValidityDays: viper.GetInt("QUOTE_OFFER_VALIDITY_DAYS"),
			PaymentTermDays:   viper.GetInt("QUOTE_PAYMENT_TERM_DAYS"),
			DefaultCreatedBy:  viper.GetString("QUOTE_DEFAULT_CREATED_BY"),
		},
		Company: CompanyConfig{
			Default:   viper.GetString("COMPANY_DEFAULT"),
			BankName:  viper.GetString("COMPANY_BANK_NAME"),
			IBAN:      viper.GetString("COMPANY_IBAN"),
			BIC:       viper.GetString("COMPANY_BIC"),
			Mobile:    viper.GetString("COMPANY_MOBILE"),
			Overrides: companyOverrides(),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests:       viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration:       viper.GetInt("RATE_LIMIT_DURATION"),
			PublicRequests: viper.GetInt("RATE_LIMIT_PUBLIC_REQUESTS"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}
}

var (
	companyKeys   = []string{"relocato", "wertvoll", "ruempelschmiede"}
	companyFields = []string{
		"NAME", "LEGAL_NAME", "TAGLINE", "STREET", "ZIP", "CITY", "PHONE", "MOBILE",
		"EMAIL", "WEBSITE", "CEO", "COURT", "HRB", "TAX_NUMBER", "VAT_ID",
		"BANK_NAME", "IBAN", "BIC",
	}
)

func companyOverrides() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, key := range companyKeys {
		for _, field := range companyFields {
			value := viper.GetString("COMPANY_" + strings.ToUpper(key) + "_" + field)
			if value == "" {
				continue
			}
			if out[key] == nil {
				out[key] = make(map[string]string)
			}
			out[key][field] = value
		}
	}
	return out
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "relocato-quote-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_VERSION", "dev")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("HTTP_READ_TIMEOUT", "15s")
	// PDF rendering plus SMTP delivery can take a while.
	viper.SetDefault("HTTP_WRITE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_IDLE_TIMEOUT", "120s")
	viper.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "relocato")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("DB_SQLITE_PATH", "relocato.db")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("SMTP_HOST", "smtp.ionos.de")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "RELOCATO Bielefeld")
	viper.SetDefault("SMTP_FROM_EMAIL", "bielefeld@relocato.de")
	viper.SetDefault("QUOTE_OFFER_VALIDITY_DAYS", 30)
	viper.SetDefault("QUOTE_PAYMENT_TERM_DAYS", 14)
	viper.SetDefault("QUOTE_DEFAULT_CREATED_BY", "system")
	viper.SetDefault("COMPANY_DEFAULT", "relocato")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("RATE_LIMIT_PUBLIC_REQUESTS", 10)
	viper.SetDefault("ADMIN_NAME", "Admin")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// ConfirmationURL builds the public link a customer uses to accept or
// reject a quote.
func (c *AppConfig) ConfirmationURL(token string) string {
	return c.FrontendURL + "/quote-confirmation/" + token
}
