package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

const defaultFileName = "upload.pdf"

// Client posts a document to an external extract/fill endpoint as a
// multipart form. An empty URL means the endpoint is not configured and
// callers are expected to fall back without going over the network.
type Client struct {
	log        *logger.Logger
	url        string
	bearer     string
	httpClient *http.Client
}

type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func New(log *logger.Logger, url, bearer string) *Client {
	return &Client{
		log:        log.With("client", "ExtractorClient"),
		url:        url,
		bearer:     bearer,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

func (c *Client) Send(ctx context.Context, fileName string, content []byte) (*Response, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("extractor endpoint not configured")
	}
	if fileName == "" {
		fileName = defaultFileName
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("write multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send file to extractor: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extractor response: %w", err)
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
