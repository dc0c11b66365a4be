package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sahaza2shakya/PDFchat-app/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.PDFDocument) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create pdf document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) List() ([]model.PDFDocument, error) {
	var list []model.PDFDocument
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list pdf documents failed: %w", err)
	}
	return list, nil
}

// GetByPDFID returns nil, nil when no document carries the id.
func (r *DocumentRepository) GetByPDFID(pdfID string) (*model.PDFDocument, error) {
	var doc model.PDFDocument
	if err := r.db.Where("pdf_id = ?", pdfID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pdf document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) DeleteByPDFID(pdfID string) error {
	if err := r.db.Where("pdf_id = ?", pdfID).Delete(&model.PDFDocument{}).Error; err != nil {
		return fmt.Errorf("delete pdf document failed: %w", err)
	}
	return nil
}
