package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB          *sql.DB
	Environment string
	Port        string
	BaseURL     string
	JWTSecret   string
	Stripe      StripeConfig
	SendGrid    SendGridConfig
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

var AppConfig *Config

// Load reads configuration from the environment (and .env if present).
// It does not open the database; call InitDB after Load.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
		SendGrid: SendGridConfig{
			APIKey:    os.Getenv("SENDGRID_API_KEY"),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@passpilot.app"),
			FromName:  getEnv("SENDGRID_FROM_NAME", "PassPilot"),
		},
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required but not set")
		}
		cfg.JWTSecret = "passpilot-dev-secret-key"
	}
	if cfg.Stripe.SecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not set, paid registration will fail")
	}
	if cfg.SendGrid.APIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set, outbound email disabled")
	}

	AppConfig = cfg
	return cfg, nil
}

// InitDB opens the Postgres connection pool and verifies it.
func (c *Config) InitDB() error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getEnv("PGHOST", "localhost")
		port := getEnv("PGPORT", "5432")
		user := getEnv("PGUSER", "postgres")
		password := os.Getenv("PGPASSWORD")
		dbname := getEnv("PGDATABASE", "passpilot")

		dsn = fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable", host, port, user, dbname)
		if password != "" {
			dsn += " password=" + password
		}
		log.Printf("DATABASE_URL not set, connecting to %s:%s/%s", host, port, dbname)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	c.DB = db
	log.Println("Database connected successfully")
	return nil
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
