package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/tmc/langchaingo/textsplitter"

	"newsrag/models"
)

const (
	seedChunkSize    = 1000
	seedChunkOverlap = 100
)

// SeedService ingests local documents from a seed directory into the RAG
// corpus: an initial scan at startup, then a live watch for new or changed
// files. Files are chunked before ingestion; each chunk is keyed by
// file://<path>#<n>, so re-ingesting an unchanged file deduplicates to zero
// new documents.
type SeedService struct {
	rag        RAGService
	dir        string
	pdfEnabled bool
}

func NewSeedService(rag RAGService, dir string, pdfEnabled bool) *SeedService {
	return &SeedService{rag: rag, dir: dir, pdfEnabled: pdfEnabled}
}

// ScanDirectory ingests every supported file currently in the seed
// directory.
func (s *SeedService) ScanDirectory(ctx context.Context) {
	log.Printf("SEEDER: scanning seed directory: %s", s.dir)
	count := 0
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !s.isSupportedFile(path) {
			return nil
		}
		count += s.ingestFile(ctx, path)
		return nil
	})
	if err != nil {
		log.Printf("SEEDER ERROR: error walking %s: %v", s.dir, err)
	}
	log.Printf("SEEDER: scan finished, %d documents added", count)
}

// WatchDirectory ingests files as they appear or change, until the context
// is cancelled. The store is append-only, so changed files add their new
// chunks while identical chunks deduplicate away.
func (s *SeedService) WatchDirectory(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.isSupportedFile(event.Name) {
					continue
				}
				// Editors often write via create-temp-and-rename; Create and
				// Write are handled the same.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("WATCHER: file created/modified: %s", event.Name)
					s.ingestFile(ctx, event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	if err := watcher.Add(s.dir); err != nil {
		log.Printf("WATCHER ERROR: failed to watch %s: %v", s.dir, err)
		return
	}
	log.Printf("WATCHER: watching seed directory: %s", s.dir)
	<-ctx.Done()
}

// ingestFile extracts, chunks, and ingests one file, returning the number of
// newly added documents.
func (s *SeedService) ingestFile(ctx context.Context, path string) int {
	content, err := ExtractTextFromFile(path, s.pdfEnabled)
	if err != nil {
		log.Printf("SEEDER WARN: could not extract %s: %v", path, err)
		return 0
	}
	docs, err := s.chunkFile(path, content)
	if err != nil {
		log.Printf("SEEDER WARN: could not chunk %s: %v", path, err)
		return 0
	}
	return s.rag.AddDocuments(ctx, docs)
}

func (s *SeedService) chunkFile(path, content string) ([]models.Document, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(seedChunkSize),
		textsplitter.WithChunkOverlap(seedChunkOverlap),
	)
	chunks, err := splitter.SplitText(content)
	if err != nil {
		return nil, err
	}

	title := filepath.Base(path)
	docs := make([]models.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, models.Document{
			Text: chunk,
			Metadata: models.DocumentMetadata{
				Title:  title,
				URL:    fmt.Sprintf("file://%s#%d", path, i),
				Source: "seed",
			},
		})
	}
	return docs, nil
}

func (s *SeedService) isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	case ".pdf":
		return s.pdfEnabled
	default:
		return false
	}
}
