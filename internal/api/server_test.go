package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/hongye-zhang/public-texteditor/internal/config"
	"github.com/hongye-zhang/public-texteditor/internal/intent"
	"github.com/hongye-zhang/public-texteditor/internal/llm"
	"github.com/hongye-zhang/public-texteditor/internal/pipeline"
)

const testAPIKey = "test-key"

type stubGenerator struct {
	fn func(req llm.Request) (string, error)
}

func (g *stubGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	return g.fn(req)
}

func testServer(t *testing.T, gen pipeline.Generator) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		EditorAPIKey:   testAPIKey,
		MaxUploadBytes: 1 << 20,
	}
	p := pipeline.New(gen, log)
	sessions := pipeline.NewSessionStore(time.Hour)
	classifier := intent.NewClassifier(gen, log)
	client := llm.NewClient("unused", "test-model")
	return NewServer(p, sessions, classifier, client, log, cfg)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestHealth_Public(t *testing.T) {
	srv := testServer(t, &stubGenerator{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("expected ok body, got %q", rec.Body.String())
	}
}

func TestAuth_MissingToken(t *testing.T) {
	srv := testServer(t, &stubGenerator{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats/llm", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongToken(t *testing.T) {
	srv := testServer(t, &stubGenerator{})
	req := httptest.NewRequest("GET", "/api/stats/llm", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

var editDumpRe = regexp.MustCompile(`\[ID:([a-zA-Z0-9]+)\] World`)

func TestEdit_EndToEnd(t *testing.T) {
	gen := &stubGenerator{fn: func(req llm.Request) (string, error) {
		m := editDumpRe.FindStringSubmatch(req.Prompt)
		if m == nil {
			return "", nil
		}
		return "[ID:" + m[1] + "] Goodbye", nil
	}}
	srv := testServer(t, gen)

	body, _ := json.Marshal(map[string]any{
		"message": "change World to Goodbye",
		"document": map[string]any{
			"type": "doc",
			"content": []any{
				map[string]any{"type": "paragraph", "content": []any{
					map[string]any{"type": "text", "text": "Hello"},
				}},
				map[string]any{"type": "paragraph", "content": []any{
					map[string]any{"type": "text", "text": "World"},
				}},
			},
		},
	})
	req := authed(httptest.NewRequest("POST", "/api/document/edit", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SessionID   string `json:"session_id"`
		Error       string `json:"error"`
		PathUpdates []struct {
			Path    *string `json:"path"`
			Content string  `json:"content"`
			ID      string  `json:"id"`
		} `json:"path_updates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.SessionID == "" {
		t.Error("expected a session ID")
	}
	if len(resp.PathUpdates) != 1 {
		t.Fatalf("expected 1 path update, got %v", resp.PathUpdates)
	}
	if resp.PathUpdates[0].Path != nil || resp.PathUpdates[0].Content != "Goodbye" {
		t.Errorf("expected content replacement, got %+v", resp.PathUpdates[0])
	}
}

func TestEdit_MissingDocument(t *testing.T) {
	srv := testServer(t, &stubGenerator{})
	body := []byte(`{"message": "edit something"}`)
	req := authed(httptest.NewRequest("POST", "/api/document/edit", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChat_EditIntentRoutesToPipeline(t *testing.T) {
	gen := &stubGenerator{fn: func(req llm.Request) (string, error) {
		// First call classifies, second edits.
		if strings.Contains(req.System, "intent recognition") {
			return `{"intent_type": "modify_existing", "confidence": 0.9}`, nil
		}
		m := editDumpRe.FindStringSubmatch(req.Prompt)
		if m == nil {
			return "", nil
		}
		return "[ID:" + m[1] + "] Farewell", nil
	}}
	srv := testServer(t, gen)

	body, _ := json.Marshal(map[string]any{
		"message": "rewrite it",
		"document": map[string]any{
			"type": "doc",
			"content": []any{
				map[string]any{"type": "paragraph", "content": []any{
					map[string]any{"type": "text", "text": "World"},
				}},
			},
		},
	})
	req := authed(httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	it, _ := resp["intent"].(map[string]any)
	if it == nil || it["intent_type"] != "modify_existing" {
		t.Errorf("expected intent in response, got %v", resp["intent"])
	}
	if resp["path_updates"] == nil {
		t.Errorf("expected path updates from pipeline, got %v", resp)
	}
}

func TestImport_TextFile(t *testing.T) {
	srv := testServer(t, &stubGenerator{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	fw.Write([]byte("First paragraph.\n\nSecond paragraph."))
	mw.Close()

	req := authed(httptest.NewRequest("POST", "/api/import", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Filename   string         `json:"filename"`
		Document   map[string]any `json:"document"`
		Dump       string         `json:"dump"`
		Paragraphs int            `json:"paragraphs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Paragraphs != 2 {
		t.Errorf("expected 2 paragraphs, got %d", resp.Paragraphs)
	}
	if !strings.Contains(resp.Dump, "First paragraph.") {
		t.Errorf("expected dump to contain text, got %q", resp.Dump)
	}
	if _, has := resp.Document["id"]; !has {
		t.Error("expected imported tree to carry assigned IDs")
	}
}

func TestImport_UnsupportedExtension(t *testing.T) {
	srv := testServer(t, &stubGenerator{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "binary.exe")
	fw.Write([]byte{0x4d, 0x5a})
	mw.Close()

	req := authed(httptest.NewRequest("POST", "/api/import", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSession_NotFound(t *testing.T) {
	srv := testServer(t, &stubGenerator{})
	req := authed(httptest.NewRequest("GET", "/api/sessions/nope", nil))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestSession_HistoryAfterEdit(t *testing.T) {
	gen := &stubGenerator{fn: func(req llm.Request) (string, error) {
		return "[ID:none]", nil
	}}
	srv := testServer(t, gen)

	body, _ := json.Marshal(map[string]any{
		"message":    "no-op edit",
		"session_id": "sess-1",
		"document":   map[string]any{"type": "doc", "content": []any{}},
	})
	req := authed(httptest.NewRequest("POST", "/api/document/edit", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit failed: %d %s", rec.Code, rec.Body.String())
	}

	req = authed(httptest.NewRequest("GET", "/api/sessions/sess-1", nil))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		History []llm.Message `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.History) != 2 {
		t.Errorf("expected user+assistant turns recorded, got %v", resp.History)
	}
}

func TestStats_Available(t *testing.T) {
	srv := testServer(t, &stubGenerator{})
	req := authed(httptest.NewRequest("GET", "/api/stats/llm", nil))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["model"] != "test-model" {
		t.Errorf("expected model name, got %v", resp["model"])
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.txt", "report.txt"},
		{"../../etc/passwd", "passwd"},
		{"dir/file.md", "file.md"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
