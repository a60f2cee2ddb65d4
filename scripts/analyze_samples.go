package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"parsepro/resume-analyzer/internal/config"
	"parsepro/resume-analyzer/internal/services"
)

// Runs the local keyword analysis over every resume in a directory.
// Usage: go run ./scripts/analyze_samples.go [dir]
func main() {
	log.Println("🚀 Starting sample analysis...")

	cfg := config.Load()

	dir := "./samples"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".docx", ".txt", ".md":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		log.Printf("⚠️  No resumes found in %s", dir)
		return
	}

	worker := services.NewBatchWorker(services.NewTextExtractor(), cfg.Analysis.Keywords, 4)
	results := worker.Run(context.Background(), paths)

	successCount := 0
	failCount := 0

	for _, res := range results {
		log.Printf("\n📄 %s", res.Path)
		if res.Err != nil {
			log.Printf("   ❌ %v", res.Err)
			failCount++
			continue
		}

		log.Printf("   ✅ %d characters, %d words", res.Chars, res.Analysis.WordCount)
		for _, kw := range cfg.Analysis.Keywords {
			log.Printf("   🔑 %-12s %d", kw, res.Analysis.KeywordCounts[kw])
		}
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Analysis Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}
