package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahaza2shakya/PDFchat-app/internal/app"
	"github.com/sahaza2shakya/PDFchat-app/internal/model"
	"github.com/sahaza2shakya/PDFchat-app/internal/pkg/pdfextract"
	"github.com/sahaza2shakya/PDFchat-app/internal/transport/http/response"
)

// CatalogPort is the handler-facing slice of the catalog service.
type CatalogPort interface {
	List(ctx context.Context) ([]model.PDFDocument, error)
	Delete(ctx context.Context, pdfID string) (int64, error)
}

// IngestPort is the handler-facing slice of the ingest service.
type IngestPort interface {
	Ingest(ctx context.Context, input app.IngestInput) (*app.IngestResult, error)
}

type PDFHandler struct {
	catalog   CatalogPort
	ingest    IngestPort
	maxUpload int64
}

func NewPDFHandler(catalog CatalogPort, ingest IngestPort, maxUpload int64) *PDFHandler {
	if maxUpload <= 0 {
		maxUpload = 50 << 20
	}
	return &PDFHandler{
		catalog:   catalog,
		ingest:    ingest,
		maxUpload: maxUpload,
	}
}

type listPDFsResponse struct {
	PDFs []model.PDFDocument `json:"pdfs"`
}

func (h *PDFHandler) List(c *gin.Context) {
	docs, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Error listing PDFs: "+err.Error())
		return
	}
	if docs == nil {
		docs = []model.PDFDocument{}
	}
	response.OK(c, listPDFsResponse{PDFs: docs})
}

// Upload accepts a multipart form with a "file" field, extracts the PDF text
// and runs the ingest pipeline.
func (h *PDFHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		response.Error(c, http.StatusBadRequest, "File must be a PDF")
		return
	}
	if file.Size == 0 {
		response.Error(c, http.StatusBadRequest, "Uploaded file is empty")
		return
	}
	if file.Size > h.maxUpload {
		response.Error(c, http.StatusBadRequest,
			fmt.Sprintf("File size exceeds %dMB limit", h.maxUpload>>20))
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}
	defer f.Close()

	text, err := pdfextract.ExtractText(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to extract text from PDF: "+err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		response.Error(c, http.StatusBadRequest, "PDF appears to be empty or contains no extractable text")
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), app.IngestInput{
		Name:    file.Filename,
		Content: text,
	})
	if err != nil {
		if errors.Is(err, app.ErrEmptyPDF) {
			response.Error(c, http.StatusBadRequest, "PDF appears to be empty or contains no extractable text")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Error processing PDF: "+err.Error())
		return
	}

	response.OK(c, gin.H{
		"pdf_id":   result.PDFID,
		"filename": result.Name,
		"chunks":   result.ChunkCount,
		"message":  "PDF processed and stored successfully",
	})
}

func (h *PDFHandler) Delete(c *gin.Context) {
	pdfID := c.Param("pdf_id")
	deleted, err := h.catalog.Delete(c.Request.Context(), pdfID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid pdf id")
		case errors.Is(err, app.ErrPDFNotFound):
			response.Error(c, http.StatusNotFound, "PDF not found")
		default:
			response.Error(c, http.StatusInternalServerError, "Error deleting PDF: "+err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"pdf_id":         pdfID,
		"deleted_chunks": deleted,
		"message":        "PDF deleted successfully",
	})
}
