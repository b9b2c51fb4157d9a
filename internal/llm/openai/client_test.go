package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumeline/internal/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBackend serves chat/completions with a fixed message content and
// records the last request for assertions.
type fakeBackend struct {
	content  string
	status   int
	lastAuth string
	lastBody map[string]any
}

func (f *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &f.lastBody)

		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": f.content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	ts := httptest.NewServer(backend.handler())
	t.Cleanup(ts.Close)
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "gpt-4o-mini",
	}, testLogger())
}

func TestEnrichRoleParsesFencedJSON(t *testing.T) {
	backend := &fakeBackend{content: "Here is your result:\n```json\n" +
		`{"role_description":"Led the team.","star_stories":["s1","s2"],"metrics":["cut latency 30%"]}` +
		"\n```"}
	client := newTestClient(t, backend)

	out, raw, err := client.EnrichRole(context.Background(), llm.RoleContext{
		CompanyName: "Acme", RoleTitle: "Lead", RoleDescription: "Led the team.",
	})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if out.RoleDescription != "Led the team." {
		t.Fatalf("description = %q", out.RoleDescription)
	}
	if len(out.StarStories) != 2 || len(out.Metrics) != 1 {
		t.Fatalf("stories=%d metrics=%d", len(out.StarStories), len(out.Metrics))
	}
	if len(raw) == 0 {
		t.Fatal("expected sanitized raw JSON returned for diagnostics")
	}
	if backend.lastAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", backend.lastAuth)
	}
}

func TestEnrichRoleSendsSchemaAndJSONMode(t *testing.T) {
	backend := &fakeBackend{content: `{"role_description":"x"}`}
	client := newTestClient(t, backend)

	if _, _, err := client.EnrichRole(context.Background(), llm.RoleContext{
		CompanyName: "Acme", RoleTitle: "Dev", RoleDescription: "x",
	}); err != nil {
		t.Fatalf("enrich: %v", err)
	}

	rf, ok := backend.lastBody["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Fatalf("response_format = %v", backend.lastBody["response_format"])
	}
	msgs, ok := backend.lastBody["messages"].([]any)
	if !ok || len(msgs) != 3 {
		t.Fatalf("messages = %v", backend.lastBody["messages"])
	}
	last := msgs[2].(map[string]any)
	if !strings.Contains(last["content"].(string), "star_stories") {
		t.Fatalf("schema message missing field names: %v", last["content"])
	}
}

func TestEnrichRoleNormalizesSynonyms(t *testing.T) {
	backend := &fakeBackend{content: `{"description":"did work","stories":["a"],"confidence":0.8}`}
	client := newTestClient(t, backend)

	out, _, err := client.EnrichRole(context.Background(), llm.RoleContext{
		CompanyName: "Acme", RoleTitle: "Dev", RoleDescription: "did work",
	})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if out.RoleDescription != "did work" {
		t.Fatalf("description = %q", out.RoleDescription)
	}
	if len(out.StarStories) != 1 || out.StarStories[0] != "a" {
		t.Fatalf("stories = %v", out.StarStories)
	}
}

func TestEnrichRoleBackendError(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError}
	client := newTestClient(t, backend)

	_, _, err := client.EnrichRole(context.Background(), llm.RoleContext{CompanyName: "Acme"})
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error should carry status: %v", err)
	}
}

func TestEnrichRoleUnparseableContent(t *testing.T) {
	backend := &fakeBackend{content: "I'm sorry, I can't produce JSON today."}
	client := newTestClient(t, backend)

	_, _, err := client.EnrichRole(context.Background(), llm.RoleContext{CompanyName: "Acme"})
	if err == nil {
		t.Fatal("expected error on non-JSON content")
	}
}
