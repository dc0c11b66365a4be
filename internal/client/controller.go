package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MaxUploadBytes is the client-side ceiling; bigger files are rejected
// before any request goes out.
const MaxUploadBytes = 50 << 20

const (
	successBannerTTL = 3 * time.Second
	errorBannerTTL   = 8 * time.Second
)

// ErrValidation marks local pre-flight rejections (wrong extension, file too
// large). No network call was made when a returned error wraps it.
var ErrValidation = errors.New("validation failed")

type MessageKind string

const (
	MessageUser      MessageKind = "user"
	MessageAssistant MessageKind = "assistant"
	MessageSystem    MessageKind = "system"
	MessageError     MessageKind = "error"
)

// Citation points at one chunk an answer was grounded on. ChunkIndex is
// zero-based as delivered by the server.
type Citation struct {
	PDFName    string
	ChunkIndex int
}

// Label renders the citation one-based for display. The +1 offset mirrors
// the server's zero-based indexing and must not change, or displayed chunk
// numbers silently shift.
func (c Citation) Label() string {
	return fmt.Sprintf("%s (chunk %d)", c.PDFName, c.ChunkIndex+1)
}

// Message is one entry of the conversation thread.
type Message struct {
	Kind    MessageKind
	Content string
	Sources []Citation
}

type BannerLevel int

const (
	BannerSuccess BannerLevel = iota
	BannerError
)

// Banner is the transient status line shown above the thread. Success
// banners expire quickly; errors stick around longer.
type Banner struct {
	Level     BannerLevel
	Text      string
	ExpiresAt time.Time
}

// Service is the API surface the controller drives. *API satisfies it.
type Service interface {
	ListPDFs(ctx context.Context) ([]Document, error)
	UploadPDF(ctx context.Context, filename string, size int64, file io.Reader, progress func(pct int)) (*UploadResult, error)
	DeletePDF(ctx context.Context, pdfID string) error
	Ask(ctx context.Context, question, pdfID string) (*ChatResult, error)
}

// Controller owns all transient UI state: the document cache, the active
// selection, the conversation thread, and the in-flight flags. Methods may
// be called from UI callbacks on different goroutines; a mutex keeps each
// transition atomic.
type Controller struct {
	svc  Service
	now  func() time.Time
	logf func(format string, args ...interface{})

	mu         sync.Mutex
	docs       []Document
	selectedID string
	messages   []Message
	uploading  bool
	awaiting   bool
	banner     *Banner
	uploadPct  int
}

func NewController(svc Service) *Controller {
	return &Controller{
		svc:  svc,
		now:  time.Now,
		logf: log.Printf,
	}
}

// RefreshDocuments replaces the local cache wholesale. A failed fetch is
// logged and leaves the previous cache in place.
func (c *Controller) RefreshDocuments(ctx context.Context) {
	docs, err := c.svc.ListPDFs(ctx)
	if err != nil {
		c.logf("list documents failed: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = docs
}

// Upload validates and uploads a file, selecting the new document on
// success. Validation failures return an error wrapping ErrValidation and
// never touch the network; transport failures land in the status banner.
func (c *Controller) Upload(ctx context.Context, filename string, size int64, file io.Reader) error {
	if err := c.BeginUpload(filename, size); err != nil {
		return err
	}
	return c.CompleteUpload(ctx, filename, size, file)
}

// BeginUpload runs the local pre-flight checks and takes the uploading flag.
// Callers that pass it must follow with CompleteUpload.
func (c *Controller) BeginUpload(filename string, size int64) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return fmt.Errorf("%w: only .pdf files can be uploaded", ErrValidation)
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds the 50 MB upload limit", ErrValidation)
	}
	if size == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uploading {
		return fmt.Errorf("%w: an upload is already in progress", ErrValidation)
	}
	c.uploading = true
	c.uploadPct = 0
	return nil
}

// CompleteUpload performs the network half of an upload. The uploading flag
// is released on every exit path.
func (c *Controller) CompleteUpload(ctx context.Context, filename string, size int64, file io.Reader) error {
	defer func() {
		c.mu.Lock()
		c.uploading = false
		c.mu.Unlock()
	}()

	result, err := c.svc.UploadPDF(ctx, filename, size, file, c.setUploadProgress)
	if err != nil {
		apiErr := classifyTransportError(err)
		c.setBanner(BannerError, "Upload failed: "+apiErr.Message)
		return apiErr
	}

	c.mu.Lock()
	c.selectedID = result.PDFID
	c.messages = []Message{{
		Kind:    MessageSystem,
		Content: fmt.Sprintf("Uploaded %s (%d chunks). Ask away.", filename, result.Chunks),
	}}
	c.mu.Unlock()

	c.setBanner(BannerSuccess, fmt.Sprintf("Uploaded %s (%d chunks)", filename, result.Chunks))
	c.RefreshDocuments(ctx)
	return nil
}

// SelectDocument switches the active document and resets the thread to one
// system notice naming it. Selecting the already-active document changes
// nothing.
func (c *Controller) SelectDocument(pdfID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pdfID == c.selectedID {
		return
	}
	c.selectedID = pdfID
	name := pdfID
	for _, d := range c.docs {
		if d.PDFID == pdfID {
			name = d.Name
			break
		}
	}
	c.messages = []Message{{
		Kind:    MessageSystem,
		Content: fmt.Sprintf("Now chatting with %s.", name),
	}}
}

// DeleteDocument removes a document server-side. The UI asks the user for
// confirmation before calling this. If the deleted document was selected,
// the selection and the thread are cleared. The catalog is refreshed either
// way.
func (c *Controller) DeleteDocument(ctx context.Context, pdfID string) error {
	err := c.svc.DeletePDF(ctx, pdfID)
	if err != nil {
		apiErr := classifyTransportError(err)
		c.setBanner(BannerError, "Delete failed: "+apiErr.Message)
		c.RefreshDocuments(ctx)
		return apiErr
	}

	c.mu.Lock()
	if c.selectedID == pdfID {
		c.selectedID = ""
		c.messages = nil
	}
	c.mu.Unlock()

	c.setBanner(BannerSuccess, "Document deleted")
	c.RefreshDocuments(ctx)
	return nil
}

// SendQuestion runs the full ask flow: one user message appended up front,
// then exactly one assistant or error message once the call resolves. Blank
// input, no selection, or a pending answer make it a no-op.
func (c *Controller) SendQuestion(ctx context.Context, question string) {
	question, ok := c.BeginSend(question)
	if !ok {
		return
	}
	c.CompleteSend(ctx, question)
}

// BeginSend validates the question, appends the optimistic user message and
// takes the awaiting flag. The trimmed question is returned for the network
// half.
func (c *Controller) BeginSend(question string) (string, bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedID == "" || c.awaiting {
		return "", false
	}
	c.awaiting = true
	c.messages = append(c.messages, Message{Kind: MessageUser, Content: question})
	return question, true
}

// CompleteSend performs the network half of a question. The awaiting flag is
// released on every exit path; failures become error messages inline in the
// thread, not banners.
func (c *Controller) CompleteSend(ctx context.Context, question string) {
	c.mu.Lock()
	pdfID := c.selectedID
	c.mu.Unlock()

	result, err := c.svc.Ask(ctx, question, pdfID)

	c.mu.Lock()
	defer func() {
		c.awaiting = false
		c.mu.Unlock()
	}()

	if err != nil {
		apiErr := classifyTransportError(err)
		c.messages = append(c.messages, Message{Kind: MessageError, Content: apiErr.Message})
		return
	}

	sources := make([]Citation, 0, len(result.SourceDocuments))
	for _, src := range result.SourceDocuments {
		sources = append(sources, Citation{
			PDFName:    src.Metadata.PDFName,
			ChunkIndex: src.Metadata.ChunkIndex,
		})
	}
	c.messages = append(c.messages, Message{
		Kind:    MessageAssistant,
		Content: result.Answer,
		Sources: sources,
	})
}

// Documents returns a copy of the cached catalog.
func (c *Controller) Documents() []Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

func (c *Controller) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// SelectedName resolves the active document's display name, falling back to
// the id when the catalog has not caught up yet.
func (c *Controller) SelectedName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if d.PDFID == c.selectedID {
			return d.Name
		}
	}
	return c.selectedID
}

// Messages returns a copy of the conversation thread.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) IsUploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

func (c *Controller) IsAwaitingAnswer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaiting
}

// UploadProgress is the last reported upload percentage.
func (c *Controller) UploadProgress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploadPct
}

// Banner returns the current status banner, or nil once it has expired.
func (c *Controller) Banner() *Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner == nil || c.now().After(c.banner.ExpiresAt) {
		return nil
	}
	b := *c.banner
	return &b
}

func (c *Controller) setUploadProgress(pct int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploadPct = pct
}

// setBanner replaces the status banner, de-duplicating repeats of the same
// text by extending their expiry instead of stacking.
func (c *Controller) setBanner(level BannerLevel, text string) {
	ttl := successBannerTTL
	if level == BannerError {
		ttl = errorBannerTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner != nil && c.banner.Text == text && c.banner.Level == level && c.now().Before(c.banner.ExpiresAt) {
		c.banner.ExpiresAt = c.now().Add(ttl)
		return
	}
	c.banner = &Banner{Level: level, Text: text, ExpiresAt: c.now().Add(ttl)}
}
