package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	MAIN_ROUTES   string
	APP_PORT      string
	JWTSecret     string
	JWTExpiration int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	AdminEmail   string

	AdminPassword string

	MediaRoot string

	NotifyMaxAttempts int
	NotifyBackoff     time.Duration
	NotifyPoll        time.Duration
	ReminderInterval  time.Duration

	LogLevel string
	LogDebug bool

	allowedOrigins map[string]bool
)

func setDefaults() {
	viper.SetDefault("MAIN_ROUTES", "/api/v1")
	viper.SetDefault("APP_PORT", "9000")
	viper.SetDefault("JWT_SECRET", "calibration_app_secret")
	viper.SetDefault("JWT_EXPIRATION", 86400)

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "calibration")

	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM", "no-reply@localhost")
	viper.SetDefault("ADMIN_EMAIL", "admin@localhost")
	viper.SetDefault("ADMIN_PASSWORD", "admin12345")

	viper.SetDefault("MEDIA_ROOT", "media")

	viper.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	viper.SetDefault("NOTIFY_BACKOFF_SECONDS", 60)
	viper.SetDefault("NOTIFY_POLL_SECONDS", 10)
	viper.SetDefault("REMINDER_INTERVAL_MINUTES", 60)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_DEBUG", false)
}

// LoadConfig reads .env (when present) and the process environment into the package variables.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	viper.AutomaticEnv()
	setDefaults()

	// Server
	MAIN_ROUTES = viper.GetString("MAIN_ROUTES")
	APP_PORT = viper.GetString("APP_PORT")

	// JWT
	JWTSecret = viper.GetString("JWT_SECRET")
	JWTExpiration = viper.GetInt("JWT_EXPIRATION")

	// Database
	DBDriver = viper.GetString("DB_DRIVER")
	DBHost = viper.GetString("DB_HOST")
	DBPort = viper.GetString("DB_PORT")
	DBUser = viper.GetString("DB_USER")
	DBPassword = viper.GetString("DB_PASSWORD")
	DBName = viper.GetString("DB_NAME")

	// Mail
	SMTPHost = viper.GetString("SMTP_HOST")
	SMTPPort = viper.GetInt("SMTP_PORT")
	SMTPUser = viper.GetString("SMTP_USER")
	SMTPPassword = viper.GetString("SMTP_PASSWORD")
	MailFrom = viper.GetString("MAIL_FROM")
	AdminEmail = viper.GetString("ADMIN_EMAIL")
	AdminPassword = viper.GetString("ADMIN_PASSWORD")

	MediaRoot = viper.GetString("MEDIA_ROOT")

	// Notifications
	NotifyMaxAttempts = viper.GetInt("NOTIFY_MAX_ATTEMPTS")
	NotifyBackoff = time.Duration(viper.GetInt("NOTIFY_BACKOFF_SECONDS")) * time.Second
	NotifyPoll = time.Duration(viper.GetInt("NOTIFY_POLL_SECONDS")) * time.Second
	ReminderInterval = time.Duration(viper.GetInt("REMINDER_INTERVAL_MINUTES")) * time.Minute

	LogLevel = viper.GetString("LOG_LEVEL")
	LogDebug = viper.GetBool("LOG_DEBUG")

	loadAllowedOrigins(viper.GetString("ALLOWED_ORIGINS"))
}

func loadAllowedOrigins(originsStr string) {
	allowedOrigins = make(map[string]bool)

	if originsStr == "" {
		allowedOrigins["http://127.0.0.1:3000"] = true
		return
	}

	for _, origin := range strings.Split(originsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		// preflight
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
