package app

import (
	"context"
	"log"

	"github.com/sahaza2shakya/PDFchat-app/internal/cache"
	"github.com/sahaza2shakya/PDFchat-app/internal/model"
	"github.com/sahaza2shakya/PDFchat-app/internal/repository"
)

// CatalogService lists and deletes uploaded PDFs. Listing goes through the
// Redis cache; cache trouble degrades to the database and is never fatal.
type CatalogService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
	catalog   *cache.CatalogCache
}

func NewCatalogService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.ChunkRepository,
	catalog *cache.CatalogCache,
) *CatalogService {
	return &CatalogService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		catalog:   catalog,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]model.PDFDocument, error) {
	if s.catalog != nil {
		docs, hit, err := s.catalog.Get(ctx)
		if err != nil {
			log.Printf("catalog cache read failed, falling back to db: %v", err)
		} else if hit {
			return docs, nil
		}
	}

	docs, err := s.docRepo.List()
	if err != nil {
		return nil, err
	}

	if s.catalog != nil {
		if err := s.catalog.Set(ctx, docs); err != nil {
			log.Printf("catalog cache write failed: %v", err)
		}
	}
	return docs, nil
}

// Delete removes a PDF and all of its chunks, returning how many chunks went
// away. Unknown ids yield ErrPDFNotFound.
func (s *CatalogService) Delete(ctx context.Context, pdfID string) (int64, error) {
	if pdfID == "" {
		return 0, ErrInvalidInput
	}
	doc, err := s.docRepo.GetByPDFID(pdfID)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, ErrPDFNotFound
	}

	deleted, err := s.chunkRepo.DeleteByPDFID(pdfID)
	if err != nil {
		return 0, err
	}
	if err := s.docRepo.DeleteByPDFID(pdfID); err != nil {
		return deleted, err
	}

	if s.catalog != nil {
		if err := s.catalog.Invalidate(ctx); err != nil {
			log.Printf("invalidate catalog cache after delete failed: %v", err)
		}
	}
	return deleted, nil
}
