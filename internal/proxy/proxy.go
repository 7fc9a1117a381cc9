package proxy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Hop-by-hop headers that must not be forwarded
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Proxy-Connection":    true,
	"Te":                  true,
	"Trailers":            true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// maxBodySize caps what one forwarded request body may carry
const maxBodySize = 1 << 20

// Entry records one forwarded exchange
type Entry struct {
	ID        int
	Timestamp time.Time
	Method    string
	URL       string
	Status    int
	Bytes     int64
	Duration  time.Duration
	Err       string
}

// Forwarder relays requests for backend routes (the image proxy and the
// JSON API) from the local preview server to the generation backend
type Forwarder struct {
	target  *url.URL
	client  *http.Client
	mu      sync.RWMutex
	entries []Entry
	nextID  int
	maxLogs int
}

// New creates a forwarder for the backend at baseURL. A nil client uses
// a keep-alive client with a 30s timeout.
func New(baseURL string, client *http.Client) (*Forwarder, error) {
	target, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing scheme or host", baseURL)
	}

	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Forwarder{
		target:  target,
		client:  client,
		nextID:  1,
		maxLogs: 200,
	}, nil
}

// ServeHTTP forwards r to the same path and query on the backend
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	targetURL := f.targetURL(r.URL)

	entry := Entry{
		ID:        f.getNextID(),
		Timestamp: start,
		Method:    r.Method,
		URL:       targetURL,
	}

	var bodyReader io.Reader
	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				f.fail(w, &entry, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", maxBodySize))
				return
			}
			f.fail(w, &entry, http.StatusBadRequest, fmt.Sprintf("Error reading request body: %v", err))
			return
		}
		if len(body) > 0 {
			bodyReader = bytes.NewReader(body)
		}
	}

	proxyReq, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, bodyReader)
	if err != nil {
		f.fail(w, &entry, http.StatusInternalServerError, fmt.Sprintf("Error creating proxy request: %v", err))
		return
	}
	copyHeaders(proxyReq.Header, r.Header)

	resp, err := f.client.Do(proxyReq)
	if err != nil {
		f.fail(w, &entry, http.StatusBadGateway, fmt.Sprintf("Error forwarding request: %v", err))
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	n, err := io.Copy(w, resp.Body)

	entry.Status = resp.StatusCode
	entry.Bytes = n
	entry.Duration = time.Since(start)
	if err != nil {
		entry.Err = err.Error()
	}
	f.addEntry(entry)

	slog.Debug("forwarded", "method", entry.Method, "url", entry.URL, "status", entry.Status, "duration", entry.Duration)
}

func (f *Forwarder) targetURL(u *url.URL) string {
	out := *f.target
	out.Path = f.target.Path + u.Path
	out.RawPath = ""
	out.RawQuery = u.RawQuery
	return out.String()
}

func (f *Forwarder) fail(w http.ResponseWriter, entry *Entry, status int, msg string) {
	entry.Status = status
	entry.Err = msg
	entry.Duration = time.Since(entry.Timestamp)
	f.addEntry(*entry)
	slog.Warn("forward failed", "url", entry.URL, "error", msg)
	http.Error(w, msg, status)
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		if hopHeaders[name] {
			continue
		}
		for _, value := range values {
			dst.Add(name, value)
		}
	}
}

// getNextID returns the next entry ID and increments the counter
func (f *Forwarder) getNextID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	return id
}

// addEntry adds an entry and maintains the maximum log limit
func (f *Forwarder) addEntry(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, e)
	if len(f.entries) > f.maxLogs {
		f.entries = f.entries[len(f.entries)-f.maxLogs:]
	}
}

// Entries returns a copy of the recorded exchanges, oldest first
func (f *Forwarder) Entries() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries := make([]Entry, len(f.entries))
	copy(entries, f.entries)
	return entries
}
