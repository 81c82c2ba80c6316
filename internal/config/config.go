package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	AppEnv   string
	LogLevel string

	// history store
	DBDriver string // "mysql" or "sqlite"
	DBDSN    string

	// upstream agent service
	AgentBaseURL string
	AgentTimeout time.Duration

	CORSOrigins []string

	// requests per minute per client on /agent routes; 0 disables
	RateLimitRPM int
}

func Load() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	driver := strings.ToLower(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "mysql"
	}

	// DSN demo:
	// app:apppass@tcp(127.0.0.1:3306)/chat_gateway?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		switch driver {
		case "sqlite":
			dsn = "file:chat_gateway.db?cache=shared"
		default:
			dsn = "app:apppass@tcp(127.0.0.1:3306)/chat_gateway?charset=utf8mb4&parseTime=true&loc=Local"
		}
	}

	agentBaseURL := os.Getenv("AGENT_BASE_URL")
	if agentBaseURL == "" {
		agentBaseURL = "http://localhost:8000"
	}

	agentTimeout := 60 * time.Second
	if v := os.Getenv("AGENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			agentTimeout = d
		}
	}

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	rpm := 0
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			rpm = n
		}
	}

	return Config{
		HTTPAddr: addr,
		AppEnv:   appEnv,
		LogLevel: logLevel,

		DBDriver: driver,
		DBDSN:    dsn,

		AgentBaseURL: agentBaseURL,
		AgentTimeout: agentTimeout,

		CORSOrigins:  origins,
		RateLimitRPM: rpm,
	}
}

// Production reports whether the gateway runs in production mode.
// Error responses include stack traces only when this is false.
func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
