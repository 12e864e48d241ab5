package main

import (
	"context"
	"log"
	"strings"

	"hireflow/internal/config"
	"hireflow/internal/repositories"
	"hireflow/internal/services"
)

// Rebuilds the Qdrant candidate index from the applications table. Useful
// after a collection wipe or an embedding model change.
func main() {
	log.Println("🚀 Starting resume reindex...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	searchService, err := services.NewCandidateSearchService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := searchService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	appRepo := repositories.NewApplicationRepository(db)

	apps, err := appRepo.FindAll(nil)
	if err != nil {
		log.Fatalf("❌ Failed to list applications: %v", err)
	}

	ctx := context.Background()
	successCount := 0
	skipCount := 0
	failCount := 0

	for _, app := range apps {
		if app.ResumeText == nil || strings.TrimSpace(*app.ResumeText) == "" {
			skipCount++
			continue
		}

		log.Printf("📄 Indexing %s (%s)", app.Name, app.ID)
		if err := searchService.IndexResume(ctx, app.ID, app.Name, *app.ResumeText); err != nil {
			log.Printf("   ❌ Failed: %v", err)
			failCount++
			continue
		}
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Indexed: %d applications", successCount)
	log.Printf("   ⏭️  Skipped (no resume text): %d applications", skipCount)
	log.Printf("   ❌ Failed: %d applications", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some applications failed to index. Please check the logs above.")
		return
	}

	log.Println("✅ Reindex completed successfully!")
}
