package services

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FeedSource is one configured news feed.
type FeedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config holds every value the services consume. Loaded once in main and
// injected; nothing reads the environment after startup.
type Config struct {
	Port             string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiEmbedModel string
	ChromaURL        string
	ChromaCollection string
	SeedPath         string
	UnidocLicenseKey string
	Feeds            []FeedSource
}

// LoadConfig reads .env (if present), the environment, and the optional
// feeds file. Missing collaborator credentials are not errors; they disable
// the corresponding path.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		Port:             envOr("PORT", "8080"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEmbedModel: envOr("GEMINI_EMBED_MODEL", "gemini-embedding-001"),
		ChromaURL:        os.Getenv("CHROMA_URL"),
		ChromaCollection: envOr("CHROMA_COLLECTION", "news-articles"),
		SeedPath:         os.Getenv("SEED_PATH"),
		UnidocLicenseKey: os.Getenv("UNIDOC_LICENSE_KEY"),
	}

	feeds, err := loadFeeds(envOr("FEEDS_FILE", "feeds.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Feeds = feeds
	return cfg, nil
}

// VectorSearchConfigured reports whether both the embedding credential and
// the vector database endpoint are present.
func (c *Config) VectorSearchConfigured() bool {
	return c.GeminiAPIKey != "" && c.ChromaURL != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadFeeds reads the feed source list from a yaml file. A missing file
// falls back to a small default list so a fresh checkout can ingest
// something immediately.
func loadFeeds(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultFeeds(), nil
		}
		return nil, fmt.Errorf("could not read feeds file %s: %w", path, err)
	}
	var parsed struct {
		Feeds []FeedSource `yaml:"feeds"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse feeds file %s: %w", path, err)
	}
	if len(parsed.Feeds) == 0 {
		return defaultFeeds(), nil
	}
	return parsed.Feeds, nil
}

func defaultFeeds() []FeedSource {
	return []FeedSource{
		{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
		{Name: "Reuters Top News", URL: "https://feeds.reuters.com/reuters/topNews"},
	}
}
