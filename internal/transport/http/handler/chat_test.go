package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahaza2shakya/PDFchat-app/internal/app"
)

type fakeQA struct {
	answer *app.Answer
	err    error

	question string
	pdfID    string
}

func (f *fakeQA) Ask(ctx context.Context, question, pdfID string) (*app.Answer, error) {
	f.question = question
	f.pdfID = pdfID
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func newChatRouter(qa *fakeQA) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat", NewChatHandler(qa).Ask)
	return r
}

func postChat(t *testing.T, r *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAskReturnsAnswerWithSources(t *testing.T) {
	qa := &fakeQA{answer: &app.Answer{
		Answer: "the answer",
		SourceDocuments: []app.SourceDocument{
			{
				Text: "relevant context...",
				Metadata: app.SourceMetadata{
					PDFID:       "abc",
					PDFName:     "report.pdf",
					ChunkIndex:  3,
					TotalChunks: 10,
				},
			},
		},
	}}
	r := newChatRouter(qa)

	w := postChat(t, r, `{"question": "what?", "pdf_id": "abc"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "what?", qa.question)
	assert.Equal(t, "abc", qa.pdfID)

	var body app.Answer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "the answer", body.Answer)
	require.Len(t, body.SourceDocuments, 1)
	assert.Equal(t, 3, body.SourceDocuments[0].Metadata.ChunkIndex)
}

func TestAskRejectsMissingQuestion(t *testing.T) {
	r := newChatRouter(&fakeQA{})

	w := postChat(t, r, `{"pdf_id": "abc"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestAskErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"invalid input", app.ErrInvalidInput, http.StatusBadRequest, "question must not be empty"},
		{"pdf not found", app.ErrPDFNotFound, http.StatusNotFound, "PDF not found"},
		{"no chunks", app.ErrNoChunks, http.StatusBadRequest, "no documents available to answer from"},
		{"upstream failure", errors.New("llm unavailable"), http.StatusInternalServerError, "Error processing question: llm unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newChatRouter(&fakeQA{err: tt.err})

			w := postChat(t, r, `{"question": "hello"}`)
			require.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}
