// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backendtest provides an in-process fake of the professor chat
// service for tests.
package backendtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Request is a request recorded by the fake server.
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      []byte
}

// Decode unmarshals the recorded body into v.
func (r Request) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Server is a fake backend. All setters are safe to call while the server
// is handling requests.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	professors   []string
	omitField    bool
	listStatus   int
	chatChunks   [][]byte
	chatDelay    time.Duration
	chatStatus   int
	chatNoBody   bool
	contentType  string
	ingestStatus int
	onIngest     func(name string)
	requests     []Request
}

// New starts a fake server offering the given professors.
func New(professors ...string) *Server {
	s := &Server{
		professors:   append([]string(nil), professors...),
		listStatus:   http.StatusOK,
		chatStatus:   http.StatusOK,
		ingestStatus: http.StatusOK,
		contentType:  "text/plain; charset=utf-8",
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/professors", s.handleProfessors).Methods(http.MethodGet)
	r.HandleFunc("/chat_with_professor", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/scrape_and_upload_professor", s.handleIngest).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetProfessors replaces the directory served by /professors.
func (s *Server) SetProfessors(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.professors = append([]string(nil), names...)
}

// OmitProfessorsField makes /professors answer with an object lacking the
// professors field.
func (s *Server) OmitProfessorsField(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitField = omit
}

// SetListStatus sets the status code returned by /professors.
func (s *Server) SetListStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listStatus = code
}

// SetChatChunks sets the raw chunks streamed by /chat_with_professor. Each
// chunk is written and flushed separately.
func (s *Server) SetChatChunks(chunks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatChunks = s.chatChunks[:0]
	for _, c := range chunks {
		s.chatChunks = append(s.chatChunks, []byte(c))
	}
}

// SetChatBytes is SetChatChunks for arbitrary byte chunks.
func (s *Server) SetChatBytes(chunks ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatChunks = append([][]byte(nil), chunks...)
}

// SetChatDelay pauses between streamed chunks.
func (s *Server) SetChatDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatDelay = d
}

// SetChatStatus sets the status code returned by /chat_with_professor.
func (s *Server) SetChatStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatStatus = code
}

// SetChatNoBody makes /chat_with_professor answer with an empty body.
func (s *Server) SetChatNoBody(noBody bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatNoBody = noBody
}

// SetContentType sets the Content-Type of streamed chat replies.
func (s *Server) SetContentType(ct string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentType = ct
}

// SetIngestStatus sets the status code returned by ingestion.
func (s *Server) SetIngestStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingestStatus = code
}

// OnIngest registers a hook run for each ingestion request. The default
// hook appends the name to the directory.
func (s *Server) OnIngest(fn func(name string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onIngest = fn
}

// =============================================================================
// INSPECTION
// =============================================================================

// Requests returns a copy of all recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns recorded requests for path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleProfessors(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, omit := s.listStatus, s.omitField
	names := append([]string{}, s.professors...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		return
	}
	if omit {
		_, _ = w.Write([]byte(`{"names": []}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string][]string{"professors": names})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, noBody, ct, delay := s.chatStatus, s.chatNoBody, s.contentType, s.chatDelay
	chunks := append([][]byte(nil), s.chatChunks...)
	s.mu.Unlock()

	if noBody {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	flusher, _ := w.(http.Flusher)
	for i, c := range chunks {
		if i > 0 && delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(delay):
			}
		}
		if _, err := w.Write(c); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Professor string `json:"professor"`
		College   string `json:"college"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	status, hook := s.ingestStatus, s.onIngest
	if hook == nil && status == http.StatusOK && in.Professor != "" {
		s.professors = append(s.professors, in.Professor)
	}
	s.mu.Unlock()

	if hook != nil {
		hook(in.Professor)
	}
	w.WriteHeader(status)
}
