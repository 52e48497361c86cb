package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/extsync-labs/extsync/internal/extension"
)

// Descriptor describes an extension as returned by a gallery query.
type Descriptor struct {
	Identifier  string `json:"identifier"`
	Version     string `json:"version"`
	DisplayName string `json:"displayName,omitempty"`
	PackageURL  string `json:"packageUrl"`
}

// QueryOptions narrows a gallery query.
type QueryOptions struct {
	// Names restricts results to the given publisher.name identifiers.
	Names []string `json:"names,omitempty"`
	// PageSize caps the size of the first (and only fetched) result page.
	PageSize int `json:"pageSize,omitempty"`
}

// QueryResult is the first page of a gallery query.
type QueryResult struct {
	FirstPage []Descriptor `json:"extensions"`
	Total     int          `json:"total"`
}

// Client talks to the extension gallery over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Client) {
		g.httpClient = c
	}
}

// NewClient creates a gallery client for the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query runs an extension query and returns the first result page.
func (c *Client) Query(ctx context.Context, opts QueryOptions) (*QueryResult, error) {
	payload, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	url := c.baseURL + "/extensions/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "extsync-gallery")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying gallery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gallery query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading query response: %w", err)
	}

	var result QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing query response: %w", err)
	}
	return &result, nil
}

// Download fetches a descriptor's package archive into destDir and returns
// the archive path.
func (c *Client) Download(ctx context.Context, desc Descriptor, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.PackageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", "extsync-gallery")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", desc.Identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download of %s returned status %d", desc.Identifier, resp.StatusCode)
	}

	name := fmt.Sprintf("%s-%s.zip", extension.Fold(desc.Identifier), desc.Version)
	destPath := filepath.Join(destDir, name)

	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing download: %w", err)
	}
	return destPath, nil
}
