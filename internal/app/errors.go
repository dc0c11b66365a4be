package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyPDF     = errors.New("pdf contains no extractable text")
	ErrPDFNotFound  = errors.New("pdf not found")
	ErrNoChunks     = errors.New("no chunks found for retrieval")
)
