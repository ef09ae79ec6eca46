package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                   string
	MongoURI              string
	MongoDB               string
	ServerAddr            string
	FrontendOrigins       []string
	RateLimitCheckout     int
	RateLimitContact      int
	RateLimitAuth         int
	RateLimitWindowSec    int
	RedisURL              string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	CacheTTLSeconds       int
	AdminAPIKey           string
	AdminEmail            string
	AdminPassword         string
	JWTSecret             string
	AccessTTLMinutes      int
	CookieSecure          bool
	StorageInternalOrigin string
	StoragePublicOrigin   string
	UploadTTLMinutes      int
	BrevoAPIKey           string
	BrevoSenderEmail      string
	BrevoSenderName       string
	BrevoSandbox          bool
	NotifyEmail           string
	Timezone              *time.Location
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the environment, after an optional .env file. Variables already
// present in the environment are not overridden by the file.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	loc, err := time.LoadLocation(getEnv("TZ", "Africa/Johannesburg"))
	if err != nil {
		return nil, err
	}

	env := getEnv("APP_ENV", "development")
	production := env == "production"

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		if production {
			return nil, fmt.Errorf("config: MONGO_URI is required in production")
		}
		mongoURI = "mongodb://localhost:27017/serum_sculpt"
	}
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "serum_sculpt"
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		if production {
			return nil, fmt.Errorf("config: JWT_SECRET is required in production")
		}
		jwtSecret = "dev-secret-change-me"
	}

	internalOrigin := strings.TrimRight(getEnv("STORAGE_INTERNAL_ORIGIN", "http://127.0.0.1:8080"), "/")
	publicOrigin := strings.TrimRight(getEnv("STORAGE_PUBLIC_ORIGIN", ""), "/")
	if publicOrigin == "" {
		if production {
			return nil, fmt.Errorf("config: STORAGE_PUBLIC_ORIGIN is required in production")
		}
		publicOrigin = "http://localhost:8080"
	}

	cfg := &Config{
		Env:                   env,
		MongoURI:              mongoURI,
		MongoDB:               mongoDB,
		ServerAddr:            getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigins:       getEnvList("FRONTEND_ORIGINS", "http://localhost:5173"),
		RateLimitCheckout:     getEnvInt("RATE_LIMIT_CHECKOUT", 10),
		RateLimitContact:      getEnvInt("RATE_LIMIT_CONTACT", 5),
		RateLimitAuth:         getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitWindowSec:    getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:       getEnvInt("CACHE_TTL_SECONDS", 60),
		AdminAPIKey:           getEnv("ADMIN_API_KEY", ""),
		AdminEmail:            strings.ToLower(getEnv("ADMIN_EMAIL", "admin@serumsculpt.local")),
		AdminPassword:         getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:             jwtSecret,
		AccessTTLMinutes:      getEnvInt("ACCESS_TTL_MINUTES", 60*24),
		CookieSecure:          getEnv("COOKIE_SECURE", "false") == "true",
		StorageInternalOrigin: internalOrigin,
		StoragePublicOrigin:   publicOrigin,
		UploadTTLMinutes:      getEnvInt("UPLOAD_TTL_MINUTES", 15),
		BrevoAPIKey:           getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:      getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:       getEnv("BREVO_SENDER_NAME", "Serum Sculpt"),
		BrevoSandbox:          getEnv("BREVO_SANDBOX", "false") == "true",
		NotifyEmail:           getEnv("NOTIFY_EMAIL", ""),
		Timezone:              loc,
	}

	return cfg, nil
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// only the first path segment names the database
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
