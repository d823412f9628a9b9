// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/profchat/internal/backend"
	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/model"
	"github.com/jeranaias/profchat/internal/stream"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// ChatBackend opens streamed chat replies.
type ChatBackend interface {
	ChatStream(ctx context.Context, in backend.ChatRequest) (*backend.ChatStream, error)
}

// Directory accepts ingestion requests.
type Directory interface {
	Add(ctx context.Context, name, institution string) (bool, error)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// DefaultGreeting is the greeting template; %s is the persona name.
const DefaultGreeting = "How can I help you learn about %s?"

// DefaultCollege pre-fills the ingestion form.
const DefaultCollege = "Stony Brook University"

// Config holds configuration for the controller.
type Config struct {
	// Greeting is a fmt template with one %s for the persona name.
	Greeting string

	// DefaultCollege is the initial ingestion college field.
	DefaultCollege string

	// ChunkSize is the stream read buffer size (0 = default).
	ChunkSize int
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		Greeting:       DefaultGreeting,
		DefaultCollege: DefaultCollege,
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Exchange is one submitted user message awaiting its streamed reply.
type Exchange struct {
	Persona string
	Text    string
	Request backend.ChatRequest
	Handle  model.Handle
}

// Controller owns the selected persona, transcript, draft and ingestion form.
//
// It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	state      State
	persona    string
	transcript *model.Transcript
	draft      string

	ingestName    string
	ingestCollege string
	ingesting     bool

	active  *Exchange
	cancel  context.CancelFunc
	lastErr error

	chat ChatBackend
	dir  Directory
	cfg  Config
	log  zerolog.Logger
}

// New creates a controller with no persona selected.
func New(chat ChatBackend, dir Directory, cfg Config, log zerolog.Logger) *Controller {
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	if cfg.DefaultCollege == "" {
		cfg.DefaultCollege = DefaultCollege
	}
	return &Controller{
		state:         StateNoPersona,
		transcript:    model.NewTranscript(),
		ingestCollege: cfg.DefaultCollege,
		chat:          chat,
		dir:           dir,
		cfg:           cfg,
		log:           logging.For(log, logging.Session),
	}
}

// Greeting returns the opening assistant turn for persona.
func (c *Controller) Greeting(persona string) string {
	if strings.Contains(c.cfg.Greeting, "%s") {
		return fmt.Sprintf(c.cfg.Greeting, persona)
	}
	return c.cfg.Greeting
}

// =============================================================================
// SELECTION
// =============================================================================

// Select toggles persona selection. Selecting a different persona resets
// the transcript to that persona's greeting; selecting the current one
// deselects it and empties the transcript. An in-flight stream is
// cancelled. It returns the persona selected afterwards ("" for none).
func (c *Controller) Select(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abortLocked()

	if name == "" || name == c.persona {
		c.persona = ""
		c.transcript.Reset("")
		c.state = StateNoPersona
		c.log.Debug().Msg("persona deselected")
		return ""
	}

	c.persona = name
	c.transcript.Reset(c.Greeting(name))
	c.state = StatePersonaSelected
	c.lastErr = nil
	c.log.Debug().Str("persona", name).Msg("persona selected")
	return name
}

// Persona returns the selected persona, or "".
func (c *Controller) Persona() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persona
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns a copy of the current turns.
func (c *Controller) Transcript() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Turns()
}

// View returns a consistent copy of all state for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State:         c.state,
		Persona:       c.persona,
		Turns:         c.transcript.Turns(),
		Generation:    c.transcript.Generation(),
		Draft:         c.draft,
		IngestName:    c.ingestName,
		IngestCollege: c.ingestCollege,
		Ingesting:     c.ingesting,
		LastErr:       c.lastErr,
	}
}

// =============================================================================
// COMPOSER
// =============================================================================

// SetDraft replaces the pending draft.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the pending draft.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// BeginSend validates the draft and, if accepted, clears it and appends the
// user turn plus an empty assistant placeholder in one step. The returned
// exchange carries the request body; history excludes the placeholder.
func (c *Controller) BeginSend() (*Exchange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft == "" {
		return nil, ErrEmptyDraft
	}
	if c.persona == "" {
		return nil, ErrNoPersona
	}
	if !c.state.CanSend() {
		return nil, ErrBusy
	}

	text := c.draft
	c.draft = ""
	h := c.transcript.AppendUserAndPlaceholder(text)

	ex := &Exchange{
		Persona: c.persona,
		Text:    text,
		Handle:  h,
		Request: backend.ChatRequest{
			Professor: c.persona,
			History:   c.transcript.Wire(true),
		},
	}
	c.active = ex
	c.state = StateSending
	c.lastErr = nil
	return ex, nil
}

// Stream posts ex and applies every snapshot of the reply to its
// placeholder. onSnapshot, if set, runs after each applied snapshot,
// outside the controller lock. On failure the placeholder keeps whatever
// text had arrived. The final accumulated text is returned.
func (c *Controller) Stream(ctx context.Context, ex *Exchange, onSnapshot func(string)) (final string, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.active != ex {
		c.mu.Unlock()
		return "", ErrSuperseded
	}
	c.cancel = cancel
	c.mu.Unlock()

	start := time.Now()
	var (
		first     time.Duration
		snapshots int
		requestID string
	)
	defer func() {
		c.finish(ex, err)
		ev := c.log.Info()
		if err != nil {
			ev = c.log.Error().Err(err)
		}
		ev.Str("persona", ex.Persona).
			Str("request_id", requestID).
			Int("snapshots", snapshots).
			Int("chars", len(final)).
			Dur("first_chunk", first).
			Dur("elapsed", time.Since(start)).
			Msg("chat exchange finished")
	}()

	cs, err := c.chat.ChatStream(ctx, ex.Request)
	if err != nil {
		return "", err
	}
	defer cs.Close()
	requestID = cs.RequestID

	final, err = stream.Consume(ctx, cs.Body, cs.ContentType, func(text string) {
		c.mu.Lock()
		uerr := c.transcript.Update(ex.Handle, text)
		c.mu.Unlock()
		if uerr != nil {
			return
		}
		if snapshots == 0 {
			first = time.Since(start)
		}
		snapshots++
		if onSnapshot != nil {
			onSnapshot(text)
		}
	}, stream.WithChunkSize(c.cfg.ChunkSize))

	if errors.Is(err, stream.ErrNoBody) {
		err = &backend.ClientError{
			Type:      backend.ErrTypeNoBody,
			Message:   "chat response has no body",
			RequestID: cs.RequestID,
			Cause:     err,
		}
	}
	return final, err
}

// Send is BeginSend followed by Stream.
func (c *Controller) Send(ctx context.Context, onSnapshot func(string)) (string, error) {
	ex, err := c.BeginSend()
	if err != nil {
		return "", err
	}
	return c.Stream(ctx, ex, onSnapshot)
}

// Cancel stops the in-flight stream, if any. It reports whether one was
// running.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return false
	}
	if c.cancel != nil {
		c.cancel()
	}
	return true
}

func (c *Controller) finish(ex *Exchange, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != ex {
		return
	}
	c.active = nil
	c.cancel = nil
	c.state = StateIdle
	c.lastErr = err
}

// abortLocked cancels and forgets the in-flight exchange. c.mu must be held.
func (c *Controller) abortLocked() {
	if c.active == nil {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.active = nil
	c.cancel = nil
}

// =============================================================================
// INGESTION FORM
// =============================================================================

// SetIngestName sets the ingestion form's professor name.
func (c *Controller) SetIngestName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingestName = name
}

// SetIngestCollege sets the ingestion form's college.
func (c *Controller) SetIngestCollege(college string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingestCollege = college
}

// IngestForm returns the ingestion form fields.
func (c *Controller) IngestForm() (name, college string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ingestName, c.ingestCollege
}

// SubmitIngest sends the ingestion form. Empty fields are a no-op. When the
// HTTP exchange completed, whatever its status, the name field is cleared
// and the directory has been refreshed; the college is kept.
func (c *Controller) SubmitIngest(ctx context.Context) error {
	c.mu.Lock()
	name, college := c.ingestName, c.ingestCollege
	if name == "" || college == "" {
		c.mu.Unlock()
		return ErrIncompleteForm
	}
	if c.ingesting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.ingesting = true
	c.mu.Unlock()

	completed, err := c.dir.Add(ctx, name, college)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingesting = false
	if completed && c.ingestName == name {
		c.ingestName = ""
	}
	c.lastErr = err
	if err != nil {
		c.log.Error().Err(err).Str("professor", name).Str("college", college).Msg("ingestion failed")
	} else {
		c.log.Info().Str("professor", name).Str("college", college).Msg("ingestion requested")
	}
	return err
}
