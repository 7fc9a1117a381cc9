package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/export"
	"github.com/studiowebux/readmectl/internal/types"
)

const (
	// MessageInvalidUsername is the failure of a submit with a blank username
	MessageInvalidUsername = "invalid username"
	// MessageMissingBody is the failure of a 2xx generation without markdown
	MessageMissingBody = "missing document body"
)

// Backend is the remote collaborator the controller drives
type Backend interface {
	FetchProfile(ctx context.Context, username string) (*types.Profile, error)
	GenerateDocument(ctx context.Context, username string, config compose.Request) (*types.GenerateResponse, error)
}

// ProfileResult is the outcome of one profile fetch
type ProfileResult struct {
	Username string
	Profile  *types.Profile
	Err      error
}

// GenerateResult is the outcome of one generation request
type GenerateResult struct {
	Username string
	Request  compose.Request
	Response *types.GenerateResponse
	Err      error
}

// ProfileTask performs the network part of a profile fetch.
// It must not touch controller state; hand its result to ApplyProfile.
type ProfileTask func() ProfileResult

// GenerateTask performs the network part of a generation request.
// It must not touch controller state; hand its result to ApplyGenerate.
type GenerateTask func() GenerateResult

// Controller owns the configuration, the two request state machines, the
// cached profile and the generated document. It is not safe for concurrent
// use: every method must be called from the single owning goroutine. Tasks
// returned by Submit* may run anywhere.
type Controller struct {
	backend Backend
	config  *compose.Configuration

	profileFetch Machine[*types.Profile]
	generate     Machine[*types.GeneratedDocument]

	profile  *types.Profile
	document *types.GeneratedDocument

	status  Status
	nextSeq uint64
}

// New creates a controller with the initial configuration
func New(backend Backend) *Controller {
	return &Controller{
		backend: backend,
		config:  compose.NewConfiguration(),
	}
}

// Config returns the mutable configuration
func (c *Controller) Config() *compose.Configuration {
	return c.config
}

// ProfileFetch exposes the profile machine for display
func (c *Controller) ProfileFetch() *Machine[*types.Profile] {
	return &c.profileFetch
}

// Generate exposes the generation machine for display
func (c *Controller) Generate() *Machine[*types.GeneratedDocument] {
	return &c.generate
}

// Profile returns the cached profile, nil when absent
func (c *Controller) Profile() *types.Profile {
	return c.profile
}

// Document returns the generated document, nil when absent
func (c *Controller) Document() *types.GeneratedDocument {
	return c.document
}

// Markdown returns the current document text, "" when absent
func (c *Controller) Markdown() string {
	if c.document == nil {
		return ""
	}
	return c.document.Markdown
}

// Status returns the transient status
func (c *Controller) Status() Status {
	return c.status
}

// SubmitProfile starts a profile fetch. With a blank username the machine
// fails immediately, the cached profile is cleared and nil is returned.
func (c *Controller) SubmitProfile(ctx context.Context) ProfileTask {
	if err := c.config.Validate(); err != nil {
		c.profile = nil
		c.profileFetch.fail(MessageInvalidUsername)
		return nil
	}

	username := c.config.TrimmedUsername()
	c.profileFetch.begin()
	slog.Debug("profile fetch submitted", "username", username)

	backend := c.backend
	return func() ProfileResult {
		profile, err := backend.FetchProfile(ctx, username)
		return ProfileResult{Username: username, Profile: profile, Err: err}
	}
}

// ApplyProfile folds a completed fetch into the state. Results are applied
// in completion order, so the last one to complete wins.
func (c *Controller) ApplyProfile(res ProfileResult) {
	if res.Err != nil {
		slog.Debug("profile fetch failed", "username", res.Username, "error", res.Err)
		c.profile = nil
		c.profileFetch.fail(res.Err.Error())
		return
	}
	if res.Profile == nil {
		c.profile = nil
		c.profileFetch.fail("empty profile response")
		return
	}
	c.profile = res.Profile
	c.profileFetch.succeed(res.Profile)
}

// SubmitGenerate starts a generation request from a snapshot of the current
// configuration. Entering Loading drops any transient status.
func (c *Controller) SubmitGenerate(ctx context.Context) GenerateTask {
	if err := c.config.Validate(); err != nil {
		c.generate.fail(MessageInvalidUsername)
		return nil
	}

	username := c.config.TrimmedUsername()
	request := c.config.ToRequest()
	c.generate.begin()
	c.clearStatus()
	slog.Debug("generation submitted", "username", username, "sections", request.SectionNames())

	backend := c.backend
	return func() GenerateResult {
		resp, err := backend.GenerateDocument(ctx, username, request)
		return GenerateResult{Username: username, Request: request, Response: resp, Err: err}
	}
}

// ApplyGenerate folds a completed generation into the state. A transport
// success without a markdown string is still a failure, and leaves the
// current document untouched.
func (c *Controller) ApplyGenerate(res GenerateResult) {
	if res.Err != nil {
		slog.Debug("generation failed", "username", res.Username, "error", res.Err)
		c.generate.fail(res.Err.Error())
		return
	}
	if res.Response == nil || res.Response.Markdown == nil {
		c.generate.fail(MessageMissingBody)
		return
	}

	doc := &types.GeneratedDocument{
		Markdown: *res.Response.Markdown,
		Assets:   res.Response.Assets,
	}
	c.document = doc
	c.generate.succeed(doc)
}

// EditDocument replaces the document text in place. Assets are kept.
func (c *Controller) EditDocument(text string) {
	if c.document == nil {
		return
	}
	c.document.Markdown = text
}

// ClearDocument drops the generated document and resets the machine
func (c *Controller) ClearDocument() {
	c.document = nil
	c.generate.reset()
	c.clearStatus()
}

// Copy writes the document text to the clipboard. On success it returns a
// token that the caller passes to ClearStatus after the acknowledgment delay.
func (c *Controller) Copy(cb export.Clipboard) (StatusToken, bool) {
	switch export.Copy(cb, c.Markdown()) {
	case export.CopyDone:
		return c.setStatus(statusCopied, StatusInfo), true
	case export.CopyUnavailable:
		c.setStatus(statusClipboardMissing, StatusError)
	case export.CopyFailed:
		c.setStatus(statusCopyFailed, StatusError)
	}
	return 0, false
}

// Download saves the document text as README.md inside dir
func (c *Controller) Download(dir string) (string, error) {
	path, err := export.Save(dir, c.Markdown())
	if errors.Is(err, export.ErrNothingToExport) {
		return "", err
	}
	if err != nil {
		c.setStatus(fmt.Sprintf(statusDownloadFailedFmt, err), StatusError)
		return "", err
	}
	c.setStatus(statusDownloadedPrefix+path, StatusInfo)
	return path, nil
}

// ClearStatus removes the status identified by token, if it is still shown
func (c *Controller) ClearStatus(token StatusToken) {
	if c.status.seq == uint64(token) {
		c.clearStatus()
	}
}

func (c *Controller) setStatus(text string, kind StatusKind) StatusToken {
	c.nextSeq++
	c.status = Status{Text: text, Kind: kind, seq: c.nextSeq}
	return StatusToken(c.nextSeq)
}

func (c *Controller) clearStatus() {
	c.status = Status{}
}
