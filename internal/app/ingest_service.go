package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/sahaza2shakya/PDFchat-app/internal/cache"
	"github.com/sahaza2shakya/PDFchat-app/internal/model"
	"github.com/sahaza2shakya/PDFchat-app/internal/pkg/textsplit"
	"github.com/sahaza2shakya/PDFchat-app/internal/repository"
)

// Embedder is the slice of the AI client the ingest pipeline needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type IngestService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
	embedder  Embedder
	splitter  *textsplit.Splitter
	catalog   *cache.CatalogCache
	batchSize int
}

func NewIngestService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.ChunkRepository,
	embedder Embedder,
	splitter *textsplit.Splitter,
	catalog *cache.CatalogCache,
	batchSize int,
) *IngestService {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &IngestService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		embedder:  embedder,
		splitter:  splitter,
		catalog:   catalog,
		batchSize: batchSize,
	}
}

// IngestInput carries extracted PDF text into the pipeline. Name is the
// uploaded file's display name.
type IngestInput struct {
	Name    string
	Content string
}

type IngestResult struct {
	PDFID      string `json:"pdf_id"`
	Name       string `json:"filename"`
	ChunkCount int    `json:"chunks"`
}

// Ingest chunks the content, embeds each chunk in batches, and persists the
// document and its chunks under a fresh pdf_id.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyPDF
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Untitled"
	}

	chunks := s.splitter.Split(content)
	if len(chunks) == 0 {
		return nil, ErrEmptyPDF
	}

	// Embedding APIs often cap array input, so batch the calls.
	var embeddings [][]float32
	for i := 0; i < len(chunks); i += s.batchSize {
		end := i + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batched, err := s.embedder.EmbedBatch(ctx, chunks[i:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batched...)
	}
	if len(embeddings) != len(chunks) {
		return nil, errors.New("embedding count mismatch")
	}

	pdfID := uuid.NewString()
	doc := &model.PDFDocument{
		PDFID:       pdfID,
		Name:        name,
		TotalChunks: len(chunks),
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}

	records := make([]model.Chunk, len(chunks))
	for i := range chunks {
		records[i] = model.Chunk{
			PDFID:      pdfID,
			ChunkIndex: i,
			Content:    chunks[i],
		}
		records[i].SetEmbedding(embeddings[i])
	}
	if err := s.chunkRepo.CreateBatch(records); err != nil {
		return nil, err
	}

	if s.catalog != nil {
		if err := s.catalog.Invalidate(ctx); err != nil {
			log.Printf("invalidate catalog cache after ingest failed: %v", err)
		}
	}

	return &IngestResult{
		PDFID:      pdfID,
		Name:       name,
		ChunkCount: len(chunks),
	}, nil
}
