package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = 30 * time.Second
	// Uploads wait on server-side extraction and embedding, so they get a
	// much longer timeout than metadata calls.
	defaultUploadTimeout = 5 * time.Minute
)

// Document is one entry of the server's PDF catalog.
type Document struct {
	PDFID       string `json:"pdf_id"`
	Name        string `json:"pdf_name"`
	TotalChunks int    `json:"total_chunks"`
}

type UploadResult struct {
	PDFID  string `json:"pdf_id"`
	Chunks int    `json:"chunks"`
}

type ChatSourceMetadata struct {
	PDFName    string `json:"pdf_name"`
	ChunkIndex int    `json:"chunk_index"`
}

type ChatSource struct {
	Text     string             `json:"text"`
	Metadata ChatSourceMetadata `json:"metadata"`
}

type ChatResult struct {
	Answer          string       `json:"answer"`
	SourceDocuments []ChatSource `json:"source_documents"`
}

// API is the typed REST client for the PDF chat backend. All failures are
// *APIError values carrying a closed ErrorKind.
type API struct {
	baseURL      string
	httpClient   *http.Client
	uploadClient *http.Client
}

func NewAPI(baseURL string, requestTimeout, uploadTimeout time.Duration) *API {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	if uploadTimeout <= 0 {
		uploadTimeout = defaultUploadTimeout
	}
	return &API{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: requestTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
	}
}

func (a *API) ListPDFs(ctx context.Context) ([]Document, error) {
	raw, err := a.do(ctx, a.httpClient, http.MethodGet, "/api/pdfs", "", nil)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		PDFs []Document `json:"pdfs"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "malformed pdf list response"}
	}
	return parsed.PDFs, nil
}

// UploadPDF streams the file as a multipart body. progress, when non-nil,
// receives a coarse percentage of bytes handed to the transport.
func (a *API) UploadPDF(ctx context.Context, filename string, size int64, file io.Reader, progress func(pct int)) (*UploadResult, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := file
		if progress != nil && size > 0 {
			src = &progressReader{r: file, total: size, report: progress}
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	raw, err := a.do(ctx, a.uploadClient, http.MethodPost, "/api/upload-pdf", form.FormDataContentType(), pr)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "malformed upload response"}
	}
	return &result, nil
}

func (a *API) DeletePDF(ctx context.Context, pdfID string) error {
	_, err := a.do(ctx, a.httpClient, http.MethodDelete, "/api/pdfs/"+pdfID, "", nil)
	return err
}

func (a *API) Ask(ctx context.Context, question, pdfID string) (*ChatResult, error) {
	payload, err := json.Marshal(map[string]string{
		"question": question,
		"pdf_id":   pdfID,
	})
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: err.Error()}
	}

	raw, err := a.do(ctx, a.httpClient, http.MethodPost, "/api/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var result ChatResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "malformed chat response"}
	}
	return &result, nil
}

func (a *API) do(ctx context.Context, httpClient *http.Client, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode >= 300 {
		return nil, newServerError(resp.StatusCode, raw)
	}
	return raw, nil
}

// progressReader reports whole-percent progress while the multipart body is
// consumed by the transport.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if pct != p.last {
		p.last = pct
		p.report(pct)
	}
	return n, err
}
