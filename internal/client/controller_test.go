package client

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	listCalls   int
	uploadCalls int
	deleteCalls int
	askCalls    int

	docs      []Document
	listErr   error
	uploadRes *UploadResult
	uploadErr error
	deleteErr error
	askRes    *ChatResult
	askErr    error
}

func (f *fakeService) ListPDFs(ctx context.Context) ([]Document, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func (f *fakeService) UploadPDF(ctx context.Context, filename string, size int64, file io.Reader, progress func(int)) (*UploadResult, error) {
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadRes, nil
}

func (f *fakeService) DeletePDF(ctx context.Context, pdfID string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeService) Ask(ctx context.Context, question, pdfID string) (*ChatResult, error) {
	f.askCalls++
	if f.askErr != nil {
		return nil, f.askErr
	}
	return f.askRes, nil
}

func newTestController(svc *fakeService) *Controller {
	c := NewController(svc)
	c.logf = func(string, ...interface{}) {}
	return c
}

func TestUploadRejectsNonPDFWithoutNetworkCall(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc)

	err := c.Upload(context.Background(), "notes.txt", 1024, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, svc.uploadCalls)
	assert.False(t, c.IsUploading())
}

func TestUploadRejectsOversizeWithoutNetworkCall(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc)

	err := c.Upload(context.Background(), "big.pdf", MaxUploadBytes+1, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadSuccessSelectsDocumentAndResetsThread(t *testing.T) {
	svc := &fakeService{
		uploadRes: &UploadResult{PDFID: "abc123", Chunks: 12},
		docs:      []Document{{PDFID: "abc123", Name: "report.pdf", TotalChunks: 12}},
	}
	c := newTestController(svc)

	err := c.Upload(context.Background(), "report.pdf", 2<<20, strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "abc123", c.SelectedID())
	messages := c.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, MessageSystem, messages[0].Kind)
	assert.Contains(t, messages[0].Content, "report.pdf")

	// the document list was refreshed after the mutation
	assert.Equal(t, 1, svc.listCalls)
	docs := c.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 12, docs[0].TotalChunks)
	assert.False(t, c.IsUploading())
}

func TestUploadFailureReleasesFlagAndRaisesBanner(t *testing.T) {
	svc := &fakeService{
		uploadErr: &APIError{Kind: KindServerError, StatusCode: 500, Message: "boom"},
	}
	c := newTestController(svc)

	err := c.Upload(context.Background(), "report.pdf", 1024, strings.NewReader("%PDF"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerError, apiErr.Kind)

	assert.False(t, c.IsUploading())
	banner := c.Banner()
	require.NotNil(t, banner)
	assert.Equal(t, BannerError, banner.Level)
	assert.Contains(t, banner.Text, "boom")
}

func TestUploadDisallowedWhilePending(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc)

	require.NoError(t, c.BeginUpload("a.pdf", 100))
	err := c.BeginUpload("b.pdf", 100)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSelectDocumentResetsThreadToSingleSystemMessage(t *testing.T) {
	svc := &fakeService{
		docs: []Document{
			{PDFID: "a", Name: "alpha.pdf"},
			{PDFID: "b", Name: "beta.pdf"},
		},
		askRes: &ChatResult{Answer: "hi"},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())

	c.SelectDocument("a")
	for i := 0; i < 3; i++ {
		c.SendQuestion(context.Background(), "a question")
	}
	require.Len(t, c.Messages(), 7)

	c.SelectDocument("b")
	messages := c.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, MessageSystem, messages[0].Kind)
	assert.Contains(t, messages[0].Content, "beta.pdf")
}

func TestSelectSameDocumentKeepsThread(t *testing.T) {
	svc := &fakeService{
		docs:   []Document{{PDFID: "a", Name: "alpha.pdf"}},
		askRes: &ChatResult{Answer: "hi"},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())

	c.SelectDocument("a")
	c.SendQuestion(context.Background(), "q")
	before := len(c.Messages())

	c.SelectDocument("a")
	assert.Len(t, c.Messages(), before)
}

func TestDeleteSelectedClearsSelectionAndThread(t *testing.T) {
	svc := &fakeService{
		docs: []Document{{PDFID: "a", Name: "alpha.pdf"}},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	c.SelectDocument("a")

	require.NoError(t, c.DeleteDocument(context.Background(), "a"))
	assert.Empty(t, c.SelectedID())
	assert.Empty(t, c.Messages())
	assert.Equal(t, 1, svc.deleteCalls)
}

func TestDeleteOtherDocumentKeepsSelectionButRefreshesList(t *testing.T) {
	svc := &fakeService{
		docs: []Document{
			{PDFID: "a", Name: "alpha.pdf"},
			{PDFID: "b", Name: "beta.pdf"},
		},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	c.SelectDocument("a")
	listCallsBefore := svc.listCalls

	require.NoError(t, c.DeleteDocument(context.Background(), "b"))
	assert.Equal(t, "a", c.SelectedID())
	require.Len(t, c.Messages(), 1)
	assert.Greater(t, svc.listCalls, listCallsBefore)
}

func TestSendQuestionNoSelectionIsNoOp(t *testing.T) {
	svc := &fakeService{askRes: &ChatResult{Answer: "hi"}}
	c := newTestController(svc)

	c.SendQuestion(context.Background(), "anyone there?")
	assert.Empty(t, c.Messages())
	assert.Zero(t, svc.askCalls)
}

func TestSendQuestionBlankIsNoOp(t *testing.T) {
	svc := &fakeService{
		docs:   []Document{{PDFID: "a", Name: "alpha.pdf"}},
		askRes: &ChatResult{Answer: "hi"},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	c.SelectDocument("a")
	before := len(c.Messages())

	c.SendQuestion(context.Background(), "   \t  ")
	assert.Len(t, c.Messages(), before)
	assert.Zero(t, svc.askCalls)
}

func TestSendQuestionAppendsExactlyOneUserAndOneAssistant(t *testing.T) {
	svc := &fakeService{
		docs: []Document{{PDFID: "abc123", Name: "report.pdf"}},
		askRes: &ChatResult{
			Answer: "the summary",
			SourceDocuments: []ChatSource{
				{Metadata: ChatSourceMetadata{PDFName: "report.pdf", ChunkIndex: 3}},
			},
		},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	c.SelectDocument("abc123")

	c.SendQuestion(context.Background(), "What is the summary?")

	messages := c.Messages()
	require.Len(t, messages, 3) // system notice + user + assistant
	assert.Equal(t, MessageUser, messages[1].Kind)
	assert.Equal(t, "What is the summary?", messages[1].Content)
	assert.Equal(t, MessageAssistant, messages[2].Kind)
	assert.Equal(t, "the summary", messages[2].Content)

	require.Len(t, messages[2].Sources, 1)
	assert.Equal(t, "report.pdf (chunk 4)", messages[2].Sources[0].Label())
	assert.False(t, c.IsAwaitingAnswer())
}

func TestSendQuestionFailureAppendsExactlyOneErrorMessage(t *testing.T) {
	svc := &fakeService{
		docs:   []Document{{PDFID: "a", Name: "alpha.pdf"}},
		askErr: &APIError{Kind: KindServerError, StatusCode: 500, Message: "Error processing question: upstream down"},
	}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	c.SelectDocument("a")

	c.SendQuestion(context.Background(), "hello?")

	messages := c.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, MessageUser, messages[1].Kind)
	assert.Equal(t, MessageError, messages[2].Kind)
	assert.Contains(t, messages[2].Content, "upstream down")
	assert.False(t, c.IsAwaitingAnswer())
}

func TestSendDisallowedWhileAwaitingAnswer(t *testing.T) {
	svc := &fakeService{docs: []Document{{PDFID: "a", Name: "alpha.pdf"}}}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	c.SelectDocument("a")

	_, ok := c.BeginSend("first")
	require.True(t, ok)
	_, ok = c.BeginSend("second")
	assert.False(t, ok)
}

func TestRefreshDocumentsFailureKeepsPreviousCache(t *testing.T) {
	svc := &fakeService{docs: []Document{{PDFID: "a", Name: "alpha.pdf"}}}
	c := newTestController(svc)
	c.RefreshDocuments(context.Background())
	require.Len(t, c.Documents(), 1)

	svc.listErr = &APIError{Kind: KindNetworkUnreachable, Message: "down"}
	c.RefreshDocuments(context.Background())
	assert.Len(t, c.Documents(), 1)
}

func TestBannerExpiresAndDeduplicates(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.setBanner(BannerSuccess, "done")
	require.NotNil(t, c.Banner())

	// same text extends instead of stacking
	firstExpiry := c.banner.ExpiresAt
	current = current.Add(time.Second)
	c.setBanner(BannerSuccess, "done")
	assert.True(t, c.banner.ExpiresAt.After(firstExpiry))

	current = current.Add(successBannerTTL + time.Second)
	assert.Nil(t, c.Banner())
}
