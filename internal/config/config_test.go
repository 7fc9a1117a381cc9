package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), FilePermissions); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected api_url %q, got %q", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.CopyAckDelay != 1800*time.Millisecond {
		t.Errorf("Expected 1800ms copy delay, got %v", cfg.CopyAckDelay)
	}
	if cfg.ProxyPath != "/api/proxy-image" {
		t.Errorf("Expected default proxy path, got %q", cfg.ProxyPath)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "full file",
			content: "api_url: https://readme.example.com/\ntimeout: 5s\ncopy_ack_delay: 1s\nimage_hosts: [cdn.example.com]\nlog:\n  level: DEBUG\ntls:\n  insecure_skip_verify: true\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.APIURL != "https://readme.example.com" {
					t.Errorf("Expected trailing slash trimmed, got %q", cfg.APIURL)
				}
				if cfg.Timeout != 5*time.Second {
					t.Errorf("Expected 5s timeout, got %v", cfg.Timeout)
				}
				if cfg.CopyAckDelay != time.Second {
					t.Errorf("Expected 1s copy delay, got %v", cfg.CopyAckDelay)
				}
				if len(cfg.ImageHosts) != 1 || cfg.ImageHosts[0] != "cdn.example.com" {
					t.Errorf("Unexpected image hosts %v", cfg.ImageHosts)
				}
				if cfg.Log.Level != "debug" {
					t.Errorf("Expected lowercased level, got %q", cfg.Log.Level)
				}
				if cfg.TLS == nil || !cfg.TLS.InsecureSkipVerify {
					t.Error("Expected TLS settings to be read")
				}
			},
		},
		{
			name:    "empty values fall back",
			content: "api_url: \"\"\nproxy_path: \"\"\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.APIURL != DefaultAPIURL || cfg.ProxyPath != "/api/proxy-image" {
					t.Errorf("Expected defaults, got %q %q", cfg.APIURL, cfg.ProxyPath)
				}
			},
		},
		{name: "bad url", content: "api_url: not a url\n", wantErr: "APIURL"},
		{name: "relative proxy path", content: "proxy_path: api/proxy\n", wantErr: "ProxyPath"},
		{name: "bad host", content: "image_hosts: [\"not a host!\"]\n", wantErr: "ImageHosts"},
		{name: "bad level", content: "log:\n  level: loud\n", wantErr: "Level"},
		{name: "negative timeout", content: "timeout: -1s\n", wantErr: "Timeout"},
		{name: "broken yaml", content: "api_url: [\n", wantErr: "invalid config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".readmectl")
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt failed: %v", err)
	}

	if ConfigFile != filepath.Join(dir, "config.yaml") {
		t.Errorf("Unexpected config file path %q", ConfigFile)
	}

	// The written default must load cleanly
	cfg, err := Load(ConfigFile)
	if err != nil {
		t.Fatalf("Default config does not load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected %q, got %q", DefaultAPIURL, cfg.APIURL)
	}

	// Existing file is left alone
	if err := os.WriteFile(ConfigFile, []byte("api_url: https://x.example.com\n"), FilePermissions); err != nil {
		t.Fatal(err)
	}
	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt failed: %v", err)
	}
	data, _ := os.ReadFile(ConfigFile)
	if !strings.Contains(string(data), "x.example.com") {
		t.Error("InitializeAt overwrote an existing config")
	}
}

func TestResolveOutputDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Default()
	cfg.OutputDir = "~/docs"
	got, err := cfg.ResolveOutputDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "docs") {
		t.Errorf("Expected %q, got %q", filepath.Join(home, "docs"), got)
	}
}
