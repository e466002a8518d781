package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBName      string
	JWTSecret   string
	ExpoPushURL string
	LogFile     string
	CORSOrigins []string
}

func LoadEnv() Env {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	env := Env{
		AppAddr:     getenv("APP_ADDR", ":8080"),
		GinMode:     getenv("GIN_MODE", ""),
		DBUser:      getenv("DB_USER", "root"),
		DBPassword:  getenv("DB_PASSWORD", ""),
		DBHost:      getenv("DB_HOST", "127.0.0.1:3306"),
		DBName:      getenv("DB_NAME", "yoon"),
		JWTSecret:   getenv("JWT_SECRET", ""),
		ExpoPushURL: getenv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		LogFile:     getenv("LOG_FILE", ""),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}

	return env
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
