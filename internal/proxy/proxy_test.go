package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studiowebux/readmectl/internal/api"
	"github.com/studiowebux/readmectl/internal/types"
)

func TestForwarder_RelaysPathQueryAndBody(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotConn, gotCustom string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("url")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotConn = r.Header.Get("Proxy-Authorization")
		gotCustom = r.Header.Get("X-Custom")

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Keep-Alive", "timeout=5")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<svg/>"))
	}))
	defer backend.Close()

	f, err := New(backend.URL+"/", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/proxy-image?url=https%3A%2F%2Fimg.shields.io%2Fx", strings.NewReader("payload"))
	req.Header.Set("Proxy-Authorization", "secret")
	req.Header.Set("X-Custom", "kept")
	rec := httptest.NewRecorder()

	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "<svg/>" {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("Keep-Alive") != "" {
		t.Error("Hop-by-hop response header should be dropped")
	}
	if rec.Header().Get("Content-Type") != "image/svg+xml" {
		t.Errorf("Content-Type not forwarded: %q", rec.Header().Get("Content-Type"))
	}

	if gotPath != "/api/proxy-image" {
		t.Errorf("Path = %q", gotPath)
	}
	if gotQuery != "https://img.shields.io/x" {
		t.Errorf("Query = %q", gotQuery)
	}
	if gotBody != "payload" {
		t.Errorf("Body = %q", gotBody)
	}
	if gotConn != "" {
		t.Error("Hop-by-hop request header should be dropped")
	}
	if gotCustom != "kept" {
		t.Error("End-to-end header should be forwarded")
	}

	entries := f.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Status != http.StatusOK || entries[0].Bytes != int64(len("<svg/>")) {
		t.Errorf("Unexpected entry %+v", entries[0])
	}
}

func TestForwarder_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	f, err := New(url, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile/octocat", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", rec.Code)
	}
	if entries := f.Entries(); len(entries) != 1 || entries[0].Err == "" {
		t.Errorf("Expected a failed entry, got %+v", entries)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	tests := []string{"", "localhost", "://bad"}
	for _, raw := range tests {
		if _, err := New(raw, nil); err == nil {
			t.Errorf("New(%q) should fail", raw)
		}
	}
}

func TestForwarder_KeepsBoundedLog(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer backend.Close()

	f, _ := New(backend.URL, nil)
	f.maxLogs = 3
	for i := 0; i < 5; i++ {
		f.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))
	}

	entries := f.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID != 3 || entries[2].ID != 5 {
		t.Errorf("Expected the newest entries, got IDs %d..%d", entries[0].ID, entries[2].ID)
	}
}

func TestForwarder_RejectsOversizedBody(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	f, err := New(backend.URL, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	body := strings.NewReader(strings.Repeat("x", maxBodySize+1))
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", body))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rec.Code)
	}
	if called {
		t.Error("Oversized body should not reach the backend")
	}
	if entries := f.Entries(); len(entries) != 1 || entries[0].Status != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected a rejected entry, got %+v", entries)
	}
}

func TestForwarder_BodyAtLimitIsForwarded(t *testing.T) {
	var got int
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = len(body)
	}))
	defer backend.Close()

	f, _ := New(backend.URL, nil)
	body := strings.NewReader(strings.Repeat("x", maxBodySize))
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got != maxBodySize {
		t.Errorf("Backend received %d bytes, want %d", got, maxBodySize)
	}
}

func TestForwarder_UsesConfiguredTLS(t *testing.T) {
	backend := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<svg/>"))
	}))
	defer backend.Close()

	tests := []struct {
		name string
		tls  *types.TLSConfig
		want int
	}{
		{"default trust rejects self-signed backend", nil, http.StatusBadGateway},
		{"insecure skip verify reaches backend", &types.TLSConfig{InsecureSkipVerify: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := api.BuildHTTPClient(tt.tls, api.DefaultTimeout)
			if err != nil {
				t.Fatalf("BuildHTTPClient failed: %v", err)
			}
			f, err := New(backend.URL, client)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			rec := httptest.NewRecorder()
			f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy-image?url=x", nil))
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
