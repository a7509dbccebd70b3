package config

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	PDF       PDFConfig
	Events    EventsConfig
	Cache     CacheConfig
	Receipt   ReceiptConfig
	Admin     AdminConfig
	Client    ClientConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Debug   bool
	BaseURL string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// StorageConfig selects where rendered PDFs are kept. Driver is "local" or "drive".
type StorageConfig struct {
	Driver          string
	Path            string
	PublicURL       string
	DriveFolderID   string
	CredentialsFile string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type PDFConfig struct {
	ChromePath string
	Timeout    time.Duration
}

type EventsConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type ReceiptConfig struct {
	TaxPercent     decimal.Decimal
	CurrencySymbol string
}

// AdminConfig holds the single dashboard account. PasswordHash is a bcrypt
// hash; Password is hashed at startup when no hash is given.
type AdminConfig struct {
	Email        string
	Password     string
	PasswordHash string
}

// ClientConfig is read by receiptctl
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Mock    bool
	Latency bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "receiptflow")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "receiptflow")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("STORAGE_DRIVER", "local")
	viper.SetDefault("STORAGE_PATH", "./storage/receipts")
	viper.SetDefault("STORAGE_PUBLIC_URL", "")
	viper.SetDefault("DRIVE_FOLDER_ID", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("SMTP_ENABLED", false)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "ReceiptFlow")
	viper.SetDefault("CHROME_PATH", "")
	viper.SetDefault("PDF_TIMEOUT_SECONDS", 30)
	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "receipt-events")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL_SECONDS", 300)
	viper.SetDefault("RECEIPT_TAX_PERCENT", "10")
	viper.SetDefault("RECEIPT_CURRENCY_SYMBOL", "$")
	viper.SetDefault("ADMIN_EMAIL", "admin@receiptflow.com")
	viper.SetDefault("RECEIPT_API_URL", "http://localhost:8080")
	viper.SetDefault("RECEIPT_API_TIMEOUT_SECONDS", 30)
	viper.SetDefault("RECEIPTCTL_MOCK", false)
	viper.SetDefault("RECEIPTCTL_LATENCY", true)

	taxPercent, err := decimal.NewFromString(viper.GetString("RECEIPT_TAX_PERCENT"))
	if err != nil {
		log.Printf("Warning: invalid RECEIPT_TAX_PERCENT %q, using 10: %v", viper.GetString("RECEIPT_TAX_PERCENT"), err)
		taxPercent = decimal.NewFromInt(10)
	}

	return &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Env:     viper.GetString("APP_ENV"),
			Port:    viper.GetString("APP_PORT"),
			Debug:   viper.GetBool("APP_DEBUG"),
			BaseURL: strings.TrimRight(viper.GetString("APP_BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Driver:          viper.GetString("STORAGE_DRIVER"),
			Path:            viper.GetString("STORAGE_PATH"),
			PublicURL:       viper.GetString("STORAGE_PUBLIC_URL"),
			DriveFolderID:   viper.GetString("DRIVE_FOLDER_ID"),
			CredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetStringSlice("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetStringSlice("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetStringSlice("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		Email: EmailConfig{
			Enabled:  viper.GetBool("SMTP_ENABLED"),
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_EMAIL"),
			Password: viper.GetString("SMTP_APP_PASSWORD"),
			From:     viper.GetString("FROM_EMAIL"),
			FromName: viper.GetString("SMTP_FROM_NAME"),
		},
		PDF: PDFConfig{
			ChromePath: viper.GetString("CHROME_PATH"),
			Timeout:    time.Duration(viper.GetInt("PDF_TIMEOUT_SECONDS")) * time.Second,
		},
		Events: EventsConfig{
			Enabled: viper.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(viper.GetStringSlice("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Cache: CacheConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("REDIS_TTL_SECONDS")) * time.Second,
		},
		Receipt: ReceiptConfig{
			TaxPercent:     taxPercent,
			CurrencySymbol: viper.GetString("RECEIPT_CURRENCY_SYMBOL"),
		},
		Admin: AdminConfig{
			Email:        viper.GetString("ADMIN_EMAIL"),
			Password:     viper.GetString("ADMIN_PASSWORD"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Client: ClientConfig{
			BaseURL: strings.TrimRight(viper.GetString("RECEIPT_API_URL"), "/"),
			Timeout: time.Duration(viper.GetInt("RECEIPT_API_TIMEOUT_SECONDS")) * time.Second,
			Mock:    viper.GetBool("RECEIPTCTL_MOCK"),
			Latency: viper.GetBool("RECEIPTCTL_LATENCY"),
		},
	}
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

// IsProduction reports whether the app runs with APP_ENV=production
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// splitList accepts both repeated values and a single comma separated value
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
