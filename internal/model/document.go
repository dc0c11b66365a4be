package model

import "time"

// PDFDocument is one uploaded PDF. PDFID is the opaque identifier handed to
// clients; the numeric primary key never leaves the server.
type PDFDocument struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PDFID       string    `gorm:"size:36;not null;uniqueIndex" json:"pdf_id"`
	Name        string    `gorm:"size:256;not null" json:"pdf_name"`
	TotalChunks int       `gorm:"not null" json:"total_chunks"`
	CreatedAt   time.Time `json:"-"`
}
