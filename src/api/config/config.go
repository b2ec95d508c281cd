package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MySQLDSN     string
	RedisURL     string
	JWTSecret    string
	Port         string
	PythonAPIURL string

	AIProvider string
	AIModel    string
	OpenAIKey  string
	ClaudeKey  string

	// NewsCacheTTL is the news/analysis cache lifetime in seconds.
	NewsCacheTTL int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ttl, _ := strconv.Atoi(getenv("NEWS_CACHE_TTL", "300"))
	return Config{
		MySQLDSN:     getenv("MYSQL_DSN", "veritas:veritas@tcp(127.0.0.1:3306)/veritas?parseTime=true"),
		RedisURL:     getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:    getenv("JWT_SECRET", ""),
		Port:         getenv("PORT", "8080"),
		PythonAPIURL: getenv("PYTHON_API_URL", "http://localhost:8000"),
		AIProvider:   getenv("AI_PROVIDER", "openai"),
		AIModel:      os.Getenv("AI_MODEL"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		ClaudeKey:    os.Getenv("CLAUDE_API_KEY"),
		NewsCacheTTL: ttl,
	}
}
