package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsrag/controller"
	"newsrag/services"
)

func main() {
	cfg, err := services.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: failed to load configuration: %v", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini backs both generation and embeddings. A missing key disables
	// generation (template fallback takes over) and the vector path.
	gemini, err := services.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: failed to create Gemini client: %v", err)
	}
	if gemini == nil {
		log.Println("No GEMINI_API_KEY set; answers will use the extractive fallback.")
	}

	// The vector store is an optional capability: without both a Gemini
	// credential and a Chroma endpoint, retrieval uses the lexical index.
	index := services.NewNoopIndex()
	if cfg.VectorSearchConfigured() {
		chromaIndex, err := services.NewChromaIndex(cfg, gemini)
		if err != nil {
			log.Fatalf("FATAL: failed to create chroma client: %v", err)
		}
		defer func() {
			if err := chromaIndex.Close(); err != nil {
				log.Printf("Warning: failed to close chroma client: %v", err)
			}
		}()
		index = chromaIndex
		log.Printf("Vector search enabled against %s (collection '%s')", cfg.ChromaURL, cfg.ChromaCollection)
	} else {
		log.Println("Vector search not configured; using in-process lexical retrieval.")
	}

	store := services.NewDocumentStore()
	var generator services.Generator
	if gemini != nil {
		generator = gemini
	}
	ragService := services.NewRAGService(store, index, generator)
	sessionService := services.NewSessionService(ragService)
	feedService := services.NewFeedService(httpClient, ragService, cfg.Feeds)
	ragController := controller.NewRAGController(ragService, sessionService, feedService)

	// Optional seed directory: scan once, then watch for changes.
	if cfg.SeedPath != "" {
		pdfEnabled := services.SetupPDFSupport(cfg.UnidocLicenseKey)
		seeder := services.NewSeedService(ragService, cfg.SeedPath, pdfEnabled)
		go func() {
			seeder.ScanDirectory(ctx)
			seeder.WatchDirectory(ctx)
		}()
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "News RAG API",
			"version": "1.0.0",
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", ragController.Chat)       // Answer a message within a session
		apiV1.POST("/query", ragController.Query)     // Sessionless pipeline query
		apiV1.POST("/ingest", ragController.Ingest)   // Pull the configured feeds
		apiV1.POST("/documents", ragController.AddDocuments)
		apiV1.DELETE("/documents", ragController.ClearDocuments)
		apiV1.GET("/stats", ragController.Stats)
	}

	log.Printf("News RAG server starting on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("FATAL: failed to start server: %v", err)
	}
}
