package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sahaza2shakya/PDFchat-app/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateBatch(chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create chunks batch failed: %w", err)
	}
	return nil
}

func (r *ChunkRepository) ListByPDFID(pdfID string) ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := r.db.Where("pdf_id = ?", pdfID).Order("chunk_index ASC").Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks by pdf id failed: %w", err)
	}
	return chunks, nil
}

// DeleteByPDFID removes all chunks of a PDF and reports how many went away.
func (r *ChunkRepository) DeleteByPDFID(pdfID string) (int64, error) {
	res := r.db.Where("pdf_id = ?", pdfID).Delete(&model.Chunk{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete chunks by pdf id failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
