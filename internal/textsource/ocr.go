package textsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultOCRURL is where the OCR service listens when run locally.
const DefaultOCRURL = "http://127.0.0.1:8000"

var ErrOCRFailed = errors.New("ocr extraction failed")

// OCRClient talks to a document-to-text service: the file is posted as
// multipart field "file" to {base}/extract and the service answers
// {"ok": bool, "text": string}.
type OCRClient struct {
	baseURL    string
	httpClient *http.Client
	maxTries   uint
}

type ocrResponse struct {
	OK   bool   `json:"ok"`
	Text string `json:"text"`
}

// NewOCRClient returns a client for baseURL. An empty baseURL uses
// DefaultOCRURL; a nil httpClient gets a 60s timeout client.
func NewOCRClient(baseURL string, httpClient *http.Client) *OCRClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultOCRURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &OCRClient{baseURL: baseURL, httpClient: httpClient, maxTries: 3}
}

// BaseURL returns the normalized service URL.
func (c *OCRClient) BaseURL() string {
	return c.baseURL
}

// Extract uploads a document and returns the text recognized by the service.
func (c *OCRClient) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	body, contentType, err := multipartFile(filename, data)
	if err != nil {
		return "", err
	}

	operation := func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
		if err != nil {
			return "", backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return "", fmt.Errorf("ocr status %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
		if err != nil {
			return "", err
		}

		var out ocrResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", backoff.Permanent(fmt.Errorf("%w: decode response: %v", ErrOCRFailed, err))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.OK {
			return "", backoff.Permanent(fmt.Errorf("%w: status %d", ErrOCRFailed, resp.StatusCode))
		}
		return out.Text, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	text, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(c.maxTries), backoff.WithMaxElapsedTime(90*time.Second))
	if err != nil {
		if errors.Is(err, ErrOCRFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	return text, nil
}

func multipartFile(filename string, data []byte) ([]byte, string, error) {
	if filename == "" {
		filename = "resume.pdf"
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
