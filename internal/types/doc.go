/*
Package types defines the data structures shared by the readmectl packages.

# Profile Types

Profile:
  - Read-only mirror of GET /api/profile/{username}
  - Optional fields are pointers so "absent" and "zero" stay distinct
  - TopLanguages is ranked, Repos keeps backend order

LanguageStat:
  - Encoded as a two-element JSON array: ["Go", 123456]

# Generation Types

GenerateResponse:
  - Tolerant decoding of POST /api/generate
  - Markdown is nil when missing or not a string

GeneratedDocument:
  - The document held by the controller
  - Markdown may be edited in place, Assets never change after generation

# Configuration

TLSConfig:
  - Client certificates (mTLS)
  - CA certificates
  - InsecureSkipVerify flag

# Example Structures

Profile:
	{
	  "username": "octocat",
	  "name": "The Octocat",
	  "followers": 42,
	  "public_repos": 8,
	  "top_languages": [["Go", 120000], ["Shell", 800]],
	  "repos": [{"name": "hello", "url": "https://github.com/octocat/hello", "stars": 3}]
	}
*/
package types
