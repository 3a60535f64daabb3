package trackerapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

// errTransient marks failures worth retrying later: the server was
// unreachable or answered 5xx. Validation and not-found responses are not
// marked, so the sync coordinator can stop resubmitting bad records.
var errTransient = crerr.New("tracker api transient failure")

// IsTransient reports whether err represents a connectivity-class failure.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

// APIError is a structured non-2xx response from the tracker API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker api responded %d: %s", e.StatusCode, e.Message)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client is a stateless REST wrapper for the tracker API. It issues one
// HTTP call per operation and surfaces failures to the caller; retry and
// backoff belong to the synchronization layer, not here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
}

// serverEnvelope is the error body every non-2xx response carries.
type serverEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		encoded, err := sonic.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body for %s %s: %w", method, path, err)
		}
		if _, err := buf.Write(encoded); err != nil {
			return fmt.Errorf("buffer request body: %w", err)
		}
		body = bytes.NewReader(buf.B)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return crerr.Mark(fmt.Errorf("%s %s: %w", method, path, err), errTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return crerr.Mark(fmt.Errorf("read response of %s %s: %w", method, path, err), errTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope serverEnvelope
		if decodeErr := sonic.Unmarshal(raw, &envelope); decodeErr == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		if resp.StatusCode >= 500 {
			return crerr.Mark(apiErr, errTransient)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// normalizeServerID fills the ServerID slot for records the server
// created itself, whose only identifier has the 24-hex server shape.
func normalizeServerID(localID, serverID string) string {
	if serverID != "" {
		return serverID
	}
	if id.LooksLikeServerID(localID) {
		return localID
	}
	return ""
}
