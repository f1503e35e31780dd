package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"moltbook/internal/auth"
	"moltbook/internal/cli/clierr"
)

// Version is reported in the User-Agent header.
var Version = "dev"

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    Doer
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTP(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client. No request timeout is set; callers bound requests
// through the context they pass.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Logger() *slog.Logger { return c.log }

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Upload posts filePath as a multipart/form-data part named field.
func (c *Client) Upload(ctx context.Context, path, field, filePath string, out any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return clierr.Wrap(clierr.KindIO, err, "read %s", filePath)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(filePath)))
	h.Set("Content-Type", detectContentType(filePath, data))
	part, err := mw.CreatePart(h)
	if err != nil {
		return clierr.Wrap(clierr.KindIO, err, "build upload")
	}
	if _, err := part.Write(data); err != nil {
		return clierr.Wrap(clierr.KindIO, err, "build upload")
	}
	if err := mw.Close(); err != nil {
		return clierr.Wrap(clierr.KindIO, err, "build upload")
	}
	c.log.Debug("upload", "url", c.baseURL+path, "file", filePath, "bytes", len(data))
	return c.send(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func detectContentType(filePath string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filePath))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
		c.log.Debug("request body", "method", method, "path", path, "body", auth.Redact(string(b), c.apiKey))
	}
	return c.send(ctx, method, path, reader, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return clierr.Wrap(clierr.KindNetwork, err, "%s %s", method, path)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "moltbook-cli/"+Version)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if h := auth.BearerHeader(c.apiKey); h != "" {
		req.Header.Set("Authorization", h)
	}
	c.log.Debug("request", "method", method, "url", url, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return clierr.Wrap(clierr.KindNetwork, err, "%s %s: interrupted", method, path)
		}
		return clierr.Wrap(clierr.KindNetwork, err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return clierr.Wrap(clierr.KindNetwork, err, "read response")
	}
	c.log.Debug("response", "status", resp.StatusCode, "request_id", requestID, "body", auth.Redact(string(raw), c.apiKey))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, resp.Header, raw)
	}
	if apiErr := unsuccessful(resp.StatusCode, raw); apiErr != nil {
		return apiErr
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if rm, ok := out.(*json.RawMessage); ok {
		*rm = append((*rm)[:0], raw...)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return clierr.Wrap(clierr.KindAPI, err, "decode response from %s", path)
	}
	return nil
}
