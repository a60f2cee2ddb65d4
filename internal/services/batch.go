package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"parsepro/resume-analyzer/internal/models"
)

// BatchResult is the keyword analysis of one file on disk.
type BatchResult struct {
	Path     string                 `json:"path"`
	Chars    int                    `json:"chars"`
	Analysis models.KeywordAnalysis `json:"analysis"`
	Err      error                  `json:"-"`
}

// BatchWorker analyzes many resume files with a fixed number of goroutines.
type BatchWorker interface {
	Run(ctx context.Context, paths []string) []BatchResult
}

type batchWorker struct {
	extractor   TextExtractor
	keywords    []string
	concurrency int
}

func NewBatchWorker(extractor TextExtractor, keywords []string, concurrency int) BatchWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &batchWorker{
		extractor:   extractor,
		keywords:    keywords,
		concurrency: concurrency,
	}
}

// Run implements BatchWorker. Results keep the order of paths.
func (w *batchWorker) Run(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))
	jobs := make(chan int)

	log.Printf("🚀 Starting batch with %d concurrent workers\n", w.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				log.Printf("👷 Worker #%d processing %s\n", workerID, paths[idx])
				results[idx] = w.process(ctx, paths[idx])
				if results[idx].Err != nil {
					log.Printf("❌ Worker #%d failed on %s: %v\n", workerID, paths[idx], results[idx].Err)
				}
			}
		}(i + 1)
	}

	for idx := range paths {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			results[idx] = BatchResult{Path: paths[idx], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (w *batchWorker) process(ctx context.Context, path string) BatchResult {
	result := BatchResult{Path: path}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	text, err := w.extractor.ExtractText(filepath.Base(path), data)
	if err != nil {
		result.Err = err
		return result
	}

	result.Chars = len([]rune(text))
	result.Analysis = AnalyzeKeywords(text, w.keywords)
	return result
}
