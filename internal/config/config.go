package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	OAuth    OAuthConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	ChatLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type MongoConfig struct {
	URI      string
	Database string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
}

type ChatConfig struct {
	Store               string // "postgres" or "mongo"
	HistoryLimit        int
	MaxContentLength    int
	PersistTimeout      time.Duration
	SendBufferSize      int
	TrustClientIdentity bool
	RedisChannel        string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ChatLogFilePath:    getEnv("CHAT_LOG_FILE_PATH", "logs/chat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "airdrop_tracker"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Airdrop Tracker"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "default_secret"),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		Chat: ChatConfig{
			Store:               strings.ToLower(getEnv("CHAT_STORE", "postgres")),
			HistoryLimit:        getEnvAsInt("CHAT_HISTORY_LIMIT", 50),
			MaxContentLength:    getEnvAsInt("CHAT_MAX_CONTENT_LENGTH", 1000),
			PersistTimeout:      getEnvAsDuration("CHAT_PERSIST_TIMEOUT", 5*time.Second),
			SendBufferSize:      getEnvAsInt("CHAT_SEND_BUFFER", 256),
			TrustClientIdentity: getEnvAsBool("CHAT_TRUST_CLIENT_IDENTITY", false),
			RedisChannel:        getEnv("CHAT_REDIS_CHANNEL", "chat_events"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("5s", "24h").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
