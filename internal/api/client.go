package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/types"
)

const (
	profilePath  = "/api/profile/"
	generatePath = "/api/generate"

	// DefaultTimeout bounds a single backend call
	DefaultTimeout = 30 * time.Second
)

// Client talks to the README generation backend.
// Every call makes exactly one attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	TLS       *types.TLSConfig
	UserAgent string
}

// NewClient builds a client for the backend at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient, err := BuildHTTPClient(opts.TLS, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "readmectl"
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
	}, nil
}

// BaseURL returns the backend base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProfile performs GET /api/profile/{username}
func (c *Client) FetchProfile(ctx context.Context, username string) (*types.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+profilePath+url.PathEscape(username), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !IsSuccessStatus(resp.StatusCode) {
		return nil, statusError(resp)
	}

	var profile types.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("invalid profile response: %v", err),
		}
	}
	return &profile, nil
}

// GenerateBody is the POST /api/generate payload
type GenerateBody struct {
	Username string          `json:"username"`
	Config   compose.Request `json:"config"`
}

type generateWire struct {
	Markdown json.RawMessage `json:"markdown"`
	Assets   json.RawMessage `json:"assets"`
}

// GenerateDocument performs POST /api/generate
func (c *Client) GenerateDocument(ctx context.Context, username string, config compose.Request) (*types.GenerateResponse, error) {
	payload, err := json.Marshal(GenerateBody{Username: username, Config: config})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !IsSuccessStatus(resp.StatusCode) {
		return nil, statusError(resp)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSON(contentType) {
		return nil, &UnexpectedContentTypeError{ContentType: contentType, BaseURL: c.baseURL}
	}

	var wire generateWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &StatusError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("invalid generation response: %v", err),
		}
	}

	return decodeGenerate(wire), nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("backend request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	slog.Debug("backend request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", FormatDuration(time.Since(start).Milliseconds()),
	)
	return resp, nil
}

// decodeGenerate keeps a non-string markdown value as nil rather than failing
func decodeGenerate(wire generateWire) *types.GenerateResponse {
	out := &types.GenerateResponse{}

	// null and non-string values both leave Markdown nil
	var markdown *string
	if len(wire.Markdown) > 0 && json.Unmarshal(wire.Markdown, &markdown) == nil {
		out.Markdown = markdown
	}

	var assets map[string]string
	if len(wire.Assets) > 0 && json.Unmarshal(wire.Assets, &assets) == nil && len(assets) > 0 {
		out.Assets = assets
	}

	return out
}

// statusError extracts the most useful message from a failed response:
// JSON "detail" string, then the JSON text, then the raw body, then a generic
// message carrying the status.
func statusError(resp *http.Response) *StatusError {
	generic := fmt.Sprintf("request failed (%d)", resp.StatusCode)
	e := &StatusError{Status: resp.StatusCode, Message: generic}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return e
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return e
		}
		if obj, ok := data.(map[string]any); ok {
			if detail, ok := obj["detail"].(string); ok {
				e.Message = detail
				return e
			}
		}
		if compact, err := json.Marshal(data); err == nil {
			e.Message = string(compact)
		}
		return e
	}

	if text := string(body); text != "" {
		e.Message = text
	}
	return e
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// BuildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func BuildHTTPClient(tlsConfig *types.TLSConfig, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		// Load client certificate if provided (for mTLS)
		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	return fmt.Sprintf("%.2fs", seconds)
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
