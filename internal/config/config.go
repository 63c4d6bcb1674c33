package config

import "os"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	OpenAIKey   string
	OpenAIModel string

	ProxycurlKey     string
	ProxycurlBaseURL string

	NewsFeedURL string
}

func Load() *Config {
	return &Config{
		Port:             getenv("PORT", "8080"),
		PostgresDSN:      getenv("POSTGRES_DSN", ""),
		MongoURI:         getenv("MONGO_URI", ""),
		MongoDB:          getenv("MONGO_DB", "launchlens"),
		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		OpenAIKey:        getenv("OPENAI_API_KEY", ""),
		OpenAIModel:      getenv("OPENAI_MODEL", "gpt-4"),
		ProxycurlKey:     getenv("PROXYCURL_API_KEY", ""),
		ProxycurlBaseURL: getenv("PROXYCURL_BASE_URL", "https://nubela.co/proxycurl"),
		NewsFeedURL:      getenv("NEWS_FEED_URL", "https://news.google.com/rss/search"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
