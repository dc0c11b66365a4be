package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sahaza2shakya/PDFchat-app/internal/ai"
	"github.com/sahaza2shakya/PDFchat-app/internal/model"
	"github.com/sahaza2shakya/PDFchat-app/internal/repository"
)

const sourceTextLimit = 200

// LLM is the slice of the AI client the QA pipeline needs.
type LLM interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// QueryLogSink receives audit records of answered questions.
type QueryLogSink interface {
	Publish(ctx context.Context, entry model.QueryLog) error
}

type QAService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
	llm       LLM
	topK      int
	auditLog  QueryLogSink
}

func NewQAService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.ChunkRepository,
	llm LLM,
	topK int,
	auditLog QueryLogSink,
) *QAService {
	if topK <= 0 {
		topK = 5
	}
	return &QAService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		llm:       llm,
		topK:      topK,
		auditLog:  auditLog,
	}
}

// SourceMetadata identifies where a source snippet came from. ChunkIndex is
// zero-based; clients render it one-based.
type SourceMetadata struct {
	PDFID       string `json:"pdf_id"`
	PDFName     string `json:"pdf_name"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

type SourceDocument struct {
	Text     string         `json:"text"`
	Metadata SourceMetadata `json:"metadata"`
}

type Answer struct {
	Answer          string           `json:"answer"`
	SourceDocuments []SourceDocument `json:"source_documents"`
}

// Ask retrieves the most relevant chunks for the question, asks the chat
// model for an answer grounded on them, and returns the answer with source
// citations. An empty pdfID searches every uploaded PDF.
func (s *QAService) Ask(ctx context.Context, question, pdfID string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	chunks, names, err := s.loadChunks(pdfID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	queryEmb, err := s.llm.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredChunk, len(chunks))
	for i := range chunks {
		scored[i].chunk = chunks[i]
		scored[i].score = cosineSimilarity(queryEmb, chunks[i].EmbeddingVector())
	}
	top := topKScored(scored, s.topK)

	answer, err := s.llm.Complete(ctx, buildPrompt(question, top))
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)

	sources := make([]SourceDocument, len(top))
	for i, sc := range top {
		sources[i] = SourceDocument{
			Text: truncateRunes(sc.chunk.Content, sourceTextLimit),
			Metadata: SourceMetadata{
				PDFID:       sc.chunk.PDFID,
				PDFName:     names.name(sc.chunk.PDFID),
				ChunkIndex:  sc.chunk.ChunkIndex,
				TotalChunks: names.totalChunks(sc.chunk.PDFID),
			},
		}
	}

	if s.auditLog != nil {
		entry := model.QueryLog{
			PDFID:       pdfID,
			Question:    question,
			Answer:      answer,
			SourceCount: len(sources),
		}
		if err := s.auditLog.Publish(ctx, entry); err != nil {
			log.Printf("publish query log failed: %v", err)
		}
	}

	return &Answer{Answer: answer, SourceDocuments: sources}, nil
}

func (s *QAService) loadChunks(pdfID string) ([]model.Chunk, docLookup, error) {
	lookup := docLookup{}

	if pdfID != "" {
		doc, err := s.docRepo.GetByPDFID(pdfID)
		if err != nil {
			return nil, nil, err
		}
		if doc == nil {
			return nil, nil, ErrPDFNotFound
		}
		lookup[pdfID] = docEntry{name: doc.Name, totalChunks: doc.TotalChunks}
		chunks, err := s.chunkRepo.ListByPDFID(pdfID)
		if err != nil {
			return nil, nil, err
		}
		return chunks, lookup, nil
	}

	docs, err := s.docRepo.List()
	if err != nil {
		return nil, nil, err
	}
	var all []model.Chunk
	for _, doc := range docs {
		lookup[doc.PDFID] = docEntry{name: doc.Name, totalChunks: doc.TotalChunks}
		chunks, err := s.chunkRepo.ListByPDFID(doc.PDFID)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, chunks...)
	}
	return all, lookup, nil
}

type docEntry struct {
	name        string
	totalChunks int
}

type docLookup map[string]docEntry

func (l docLookup) name(pdfID string) string {
	return l[pdfID].name
}

func (l docLookup) totalChunks(pdfID string) int {
	return l[pdfID].totalChunks
}

func buildPrompt(question string, top []scoredChunk) []ai.ChatMessage {
	var contextBlock strings.Builder
	for _, sc := range top {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(sc.chunk.Content)
	}
	if len(top) > 0 {
		contextBlock.WriteString("\n---")
	}

	system := "Use the following pieces of context from uploaded PDF documents to answer the question. " +
		"If you don't know the answer based on the context, just say that you don't know, don't try to make up an answer."
	user := fmt.Sprintf("Context:%s\n\nQuestion: %s\n\nProvide a detailed answer based only on the context provided:",
		contextBlock.String(), question)

	return []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
