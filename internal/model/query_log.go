package model

import "time"

// QueryLog is a server-side audit record of an answered question. Entries are
// published to RabbitMQ after each answer and persisted by a background
// worker, so chat latency never pays for the write.
type QueryLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PDFID       string    `gorm:"size:36;index" json:"pdf_id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text;not null" json:"answer"`
	SourceCount int       `json:"source_count"`
	CreatedAt   time.Time `json:"created_at"`
}
