package types

import (
	"encoding/json"
	"fmt"
)

// Profile is the public developer profile returned by GET /api/profile/{username}
type Profile struct {
	Username     string         `json:"username" yaml:"username"`
	Name         *string        `json:"name,omitempty" yaml:"name,omitempty"`
	Bio          *string        `json:"bio,omitempty" yaml:"bio,omitempty"`
	Followers    *int           `json:"followers,omitempty" yaml:"followers,omitempty"`
	PublicRepos  *int           `json:"public_repos,omitempty" yaml:"public_repos,omitempty"`
	TopLanguages []LanguageStat `json:"top_languages" yaml:"top_languages"`
	Repos        []Repo         `json:"repos" yaml:"repos"`
}

// DisplayName returns the display name, falling back to the username
func (p *Profile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Username
}

// BioOrDefault returns the biography or a placeholder when absent
func (p *Profile) BioOrDefault() string {
	if p.Bio != nil && *p.Bio != "" {
		return *p.Bio
	}
	return "No bio available."
}

// LanguageStat is one ranked (language, bytes) pair.
// On the wire it is a two-element array: ["Go", 12345].
type LanguageStat struct {
	Language string `yaml:"language"`
	Bytes    int64  `yaml:"bytes"`
}

// UnmarshalJSON decodes the [name, bytes] tuple form
func (l *LanguageStat) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("language entry must be a [name, bytes] pair: %w", err)
	}
	if len(tuple) != 2 {
		return fmt.Errorf("language entry must have 2 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &l.Language); err != nil {
		return fmt.Errorf("invalid language name: %w", err)
	}
	var bytes float64
	if err := json.Unmarshal(tuple[1], &bytes); err != nil {
		return fmt.Errorf("invalid byte count for %s: %w", l.Language, err)
	}
	l.Bytes = int64(bytes)
	return nil
}

// MarshalJSON encodes the stat back into the tuple form
func (l LanguageStat) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Language, l.Bytes})
}

// Repo is a repository summary inside a Profile
type Repo struct {
	Name        string  `json:"name" yaml:"name"`
	URL         string  `json:"url" yaml:"url"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Stars       *int    `json:"stars,omitempty" yaml:"stars,omitempty"`
	Forks       *int    `json:"forks,omitempty" yaml:"forks,omitempty"`
	Language    *string `json:"language,omitempty" yaml:"language,omitempty"`
}

// GenerateResponse is the decoded body of POST /api/generate.
// Markdown is nil when the field was absent or not a string.
type GenerateResponse struct {
	Markdown *string
	Assets   map[string]string
}

// GeneratedDocument is the document currently held by the controller
type GeneratedDocument struct {
	Markdown string            `json:"markdown" yaml:"markdown"`
	Assets   map[string]string `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// TLSConfig contains TLS/mTLS settings for talking to the backend
type TLSConfig struct {
	CertFile           string `json:"certFile,omitempty" yaml:"cert_file,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"key_file,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}
