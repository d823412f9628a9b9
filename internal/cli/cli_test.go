// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/profchat/internal/backend"
	"github.com/jeranaias/profchat/internal/backend/backendtest"
	"github.com/jeranaias/profchat/internal/config"
	"github.com/jeranaias/profchat/internal/logging"
)

// isolate points HOME at a temp dir and clears environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"PROFCHAT_HOST", "REACT_API_URL", "PROFCHAT_COLLEGE", "PROFCHAT_LOG_LEVEL", "PROFCHAT_LOG_FILE"} {
		t.Setenv(k, "")
	}
	color.NoColor = true
	return home
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// =============================================================================
// PROFESSORS
// =============================================================================

func TestProfessors_ListsInOrder(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing", "Lovelace")
	defer srv.Close()

	out, _, err := run(t, "--host", srv.URL, "professors")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Turing"), strings.Index(out, "Lovelace"))
	assert.Contains(t, out, "  1  Turing")
}

func TestProfessors_JSON(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing", "Lovelace")
	defer srv.Close()

	out, _, err := run(t, "--host", srv.URL, "professors", "--json")
	require.NoError(t, err)

	var got struct {
		Professors []string `json:"professors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Turing", "Lovelace"}, got.Professors)
}

func TestProfessors_Empty(t *testing.T) {
	isolate(t)
	srv := backendtest.New()
	defer srv.Close()

	out, _, err := run(t, "--host", srv.URL, "professors")
	require.NoError(t, err)
	assert.Contains(t, out, "No professors available")
}

func TestProfessors_ServiceDown(t *testing.T) {
	isolate(t)
	srv := backendtest.New()
	url := srv.URL
	srv.Close()

	_, _, err := run(t, "--host", url, "professors")
	require.Error(t, err)
	assert.True(t, backend.IsConnection(err))
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_StreamsAnswer(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	srv.SetChatChunks("Hi", " there")
	defer srv.Close()

	out, _, err := run(t, "--host", srv.URL, "ask", "Turing", "Hello", "professor")
	require.NoError(t, err)
	assert.Equal(t, "Hi there\n", out)

	reqs := srv.RequestsTo("/chat_with_professor")
	require.Len(t, reqs, 1)
	var body backend.ChatRequest
	require.NoError(t, reqs[0].Decode(&body))
	assert.Equal(t, "Turing", body.Professor)
	require.Len(t, body.History, 2)
	assert.Equal(t, "How can I help you learn about Turing?", body.History[0].Content)
	assert.Equal(t, "Hello professor", body.History[1].Content)
}

func TestAsk_UnknownProfessor(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	defer srv.Close()

	_, _, err := run(t, "--host", srv.URL, "ask", "Newton", "Hello")
	require.ErrorIs(t, err, errUnknownProfessor)
	assert.Empty(t, srv.RequestsTo("/chat_with_professor"))
}

func TestAsk_ErrorStatus(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	srv.SetChatStatus(http.StatusInternalServerError)
	defer srv.Close()

	_, _, err := run(t, "--host", srv.URL, "ask", "Turing", "Hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrHTTPStatus)
}

// =============================================================================
// ADD
// =============================================================================

func TestAdd_DefaultCollege(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	defer srv.Close()

	out, _, err := run(t, "--host", srv.URL, "add", "Isaac", "Newton")
	require.NoError(t, err)
	assert.Contains(t, out, "Requested Isaac Newton (Stony Brook University)")
	assert.Contains(t, out, "now in the directory")

	reqs := srv.RequestsTo("/scrape_and_upload_professor")
	require.Len(t, reqs, 1)
	var body backend.IngestRequest
	require.NoError(t, reqs[0].Decode(&body))
	assert.Equal(t, "Isaac Newton", body.Professor)
	assert.Equal(t, "Stony Brook University", body.College)
}

func TestAdd_CollegeFlag(t *testing.T) {
	isolate(t)
	srv := backendtest.New()
	srv.OnIngest(func(string) {})
	defer srv.Close()

	out, _, err := run(t, "--host", srv.URL, "add", "Newton", "--college", "Trinity College")
	require.NoError(t, err)
	assert.Contains(t, out, "Trinity College")
	assert.Contains(t, out, "not listed yet")
}

func TestAdd_ErrorStatusIsReported(t *testing.T) {
	isolate(t)
	srv := backendtest.New()
	srv.SetIngestStatus(http.StatusBadGateway)
	defer srv.Close()

	_, errOut, err := run(t, "--host", srv.URL, "add", "Newton")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "✗")
	assert.Len(t, srv.RequestsTo("/professors"), 1)
}

// =============================================================================
// CONFIG / VERSION
// =============================================================================

func TestConfig_SetThenGet(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, _, err := run(t, "--config", path, "config", "set", "backend.host", "http://prof.test:5000")
	require.NoError(t, err)
	assert.Contains(t, out, "backend.host")

	out, _, err = run(t, "--config", path, "config", "get", "backend.host")
	require.NoError(t, err)
	assert.Equal(t, "http://prof.test:5000\n", out)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://prof.test:5000", cfg.Backend.Host)
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	_, _, err := run(t, "--config", path, "config", "set", "ui.directory_position", "sideways")
	require.Error(t, err)
}

func TestConfig_PathAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := run(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, _, err = run(t, "--config", path, "--host", "http://flag.test:1", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[backend]")
	assert.Contains(t, out, "http://flag.test:1")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "profchat "+Version)
}

// =============================================================================
// REPL
// =============================================================================

type scriptedInput struct {
	lines   []string
	history []string
}

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func newTestREPL(t *testing.T, srv *backendtest.Server, lines ...string) (*repl, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	a, err := newApp(&globalOptions{Host: srv.URL, ConfigPath: filepath.Join(t.TempDir(), "config.toml")}, logging.ModeLine)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	var out, errOut bytes.Buffer
	return &repl{app: a, in: &scriptedInput{lines: lines}, out: &out, errOut: &errOut}, &out, &errOut
}

func TestREPL_Conversation(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing", "Lovelace")
	srv.SetChatChunks("Hi", " there")
	defer srv.Close()

	r, out, errOut := newTestREPL(t, srv, "/switch Turing", "Hello", "", "/professors", "/quit")
	require.NoError(t, r.run(context.Background()))
	assert.Empty(t, errOut.String())

	text := out.String()
	assert.Contains(t, text, "How can I help you learn about Turing?")
	assert.Contains(t, text, "Hi there\n")
	assert.Contains(t, text, "* Turing")
	assert.Contains(t, text, "  Lovelace")
	assert.Len(t, srv.RequestsTo("/chat_with_professor"), 1)
}

func TestREPL_MessageWithoutProfessor(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	defer srv.Close()

	r, _, errOut := newTestREPL(t, srv, "Hello")
	require.NoError(t, r.run(context.Background()))
	assert.Contains(t, errOut.String(), "no professor selected")
	assert.Empty(t, srv.RequestsTo("/chat_with_professor"))
}

func TestREPL_ClearRestartsConversation(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	defer srv.Close()

	r, _, _ := newTestREPL(t, srv, "/switch Turing", "Hello", "/clear")
	require.NoError(t, r.run(context.Background()))

	turns := r.app.ctrl.Transcript()
	require.Len(t, turns, 1)
	assert.Equal(t, "How can I help you learn about Turing?", turns[0].Content)
}

func TestREPL_Export(t *testing.T) {
	isolate(t)
	srv := backendtest.New("Turing")
	defer srv.Close()

	r, out, errOut := newTestREPL(t, srv, "/export", "/switch Turing", "/export json", "/export html")
	r.exportDir = t.TempDir()
	require.NoError(t, r.run(context.Background()))

	assert.Contains(t, errOut.String(), "conversation is empty")
	assert.Contains(t, errOut.String(), "unknown export format")
	assert.Contains(t, out.String(), "Saved "+r.exportDir)

	entries, err := os.ReadDir(r.exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestREPL_UnknownCommand(t *testing.T) {
	isolate(t)
	srv := backendtest.New()
	defer srv.Close()

	r, _, errOut := newTestREPL(t, srv, "/bogus")
	require.NoError(t, r.run(context.Background()))
	assert.Contains(t, errOut.String(), "unknown command /bogus")
}

func TestREPL_InterruptStopsReplyOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("cannot deliver SIGINT to self on windows")
	}
	isolate(t)
	srv := backendtest.New("Turing", "Lovelace")
	srv.SetChatChunks("a", "b", "c", "d", "e")
	srv.SetChatDelay(200 * time.Millisecond)
	defer srv.Close()

	// Same wiring as Execute.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, out, _ := newTestREPL(t, srv, "/switch Turing", "Hello", "/professors", "/quit")

	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for len(srv.RequestsTo("/chat_with_professor")) == 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		time.Sleep(300 * time.Millisecond)
		p, err := os.FindProcess(os.Getpid())
		if err == nil {
			_ = p.Signal(os.Interrupt)
		}
	}()

	require.NoError(t, r.run(ctx))

	turns := r.app.ctrl.Transcript()
	require.Len(t, turns, 3)
	assert.NotEmpty(t, turns[2].Content)
	assert.NotEqual(t, "abcde", turns[2].Content)

	// The session kept going after the interrupted reply.
	assert.Len(t, srv.RequestsTo("/professors"), 2)
	assert.Contains(t, out.String(), "* Turing")
	assert.Contains(t, out.String(), "  Lovelace")
}

// =============================================================================
// OUTPUT
// =============================================================================

func TestStreamPrinter_WritesSuffixes(t *testing.T) {
	var buf bytes.Buffer
	p := newStreamPrinter(&buf, "notty")
	p.snapshot("Hi")
	p.snapshot("Hi")
	p.snapshot("Hi there")
	p.finish("Hi there")
	assert.Equal(t, "Hi there\n", buf.String())
}

func TestStreamPrinter_NothingForEmptyReply(t *testing.T) {
	var buf bytes.Buffer
	p := newStreamPrinter(&buf, "notty")
	p.finish("")
	assert.Empty(t, buf.String())
}
