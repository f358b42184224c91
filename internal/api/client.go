package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is where the backend listens when run locally.
	DefaultBaseURL = "http://127.0.0.1:8000"

	userAgent = "pricetrack-tui/1.0"
)

// Client talks to the price-tracker backend. All view state lives on the
// caller's side; the client only encodes requests and decodes responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a backend client with a 30 second timeout. An empty
// baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithLogging creates a backend client that logs every request to
// an api.log file placed next to the given cache path.
func NewClientWithLogging(baseURL, cachePath string) *Client {
	c := NewClient(baseURL)

	logFile := filepath.Join(filepath.Dir(cachePath), "api.log")
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		// Fall back to a silent client if the log file cannot be opened
		return c
	}

	c.logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "API",
	})
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ack is the mutation envelope used by the backend. Only an explicit
// ok=false is a domain failure; most mutation endpoints answer with no body
// at all, and several success replies carry no ok field either, so absence
// means success.
type ack struct {
	OK      *bool  `json:"ok"`
	Error   string `json:"error"`
	Deleted int    `json:"deleted"`
}

func (a ack) err(fallback string) error {
	if a.OK == nil || *a.OK {
		return nil
	}
	if a.Error != "" {
		return fmt.Errorf("%s", a.Error)
	}
	return fmt.Errorf("%s", fallback)
}

// do issues a request against the backend and returns the raw body for a
// 2xx response. Non-2xx responses become errors carrying the status and
// body text.
func (c *Client) do(method, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", u, "error", err)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.logger != nil {
		c.logger.Info(method, "endpoint", u)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", u, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("Response", "status", resp.StatusCode, "bytes", len(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", string(data))
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return data, nil
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(path string, query url.Values, out any) error {
	data, err := c.do(http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postJSON performs a POST and decodes the response into out when out is
// non-nil and the backend sent a body.
func (c *Client) postJSON(path string, query url.Values, body, out any) error {
	data, err := c.do(http.MethodPost, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Code, e.Body)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == http.StatusNotFound
}
