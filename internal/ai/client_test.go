package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(content, finishReason string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"finish_reason": finishReason,
				"message":       map[string]any{"content": content},
			},
		},
	}
}

func newTestClient(url string) *Client {
	return NewClient(
		Config{APIKey: "test", BaseURL: url, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
	)
}

func TestCompleteSendsSchemaAndAttachments(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(completionBody(`{"ok":true}`, "stop"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	content, err := client.Complete(context.Background(), Request{
		System: "sys",
		Prompt: "summarize",
		Attachments: []Attachment{
			{Name: "notes.pdf", MimeType: "application/pdf", Data: []byte("pdf")},
			{Name: "Lecture", URL: "https://example.com/lecture"},
		},
		Schema: &Schema{Name: "demo", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("unexpected content %q", content)
	}

	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", got["response_format"])
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["name"] != "demo" {
		t.Fatalf("expected schema name demo, got %v", schema)
	}

	messages, _ := got["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	parts, _ := user["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected text and one inline file, got %v", user["content"])
	}
	text, _ := parts[0].(map[string]any)
	if !strings.Contains(text["text"].(string), "https://example.com/lecture") {
		t.Fatalf("link attachment missing from prompt: %v", text["text"])
	}
	file, _ := parts[1].(map[string]any)
	image, _ := file["image_url"].(map[string]any)
	if image["url"] != "data:application/pdf;base64,cGRm" {
		t.Fatalf("unexpected data url %v", image["url"])
	}
}

func TestCompletePlainPromptWithoutSchema(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(completionBody("hello", "stop"))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Complete(context.Background(), Request{Prompt: "hi"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, ok := got["response_format"]; ok {
		t.Fatalf("response_format should be omitted without a schema")
	}
	messages := got["messages"].([]any)
	if len(messages) != 1 || messages[0].(map[string]any)["content"] != "hi" {
		t.Fatalf("unexpected messages %v", messages)
	}
}

func TestCompleteBlocked(t *testing.T) {
	cases := map[string]map[string]any{
		"content filter": completionBody("", "content_filter"),
		"refusal": {
			"choices": []any{map[string]any{"message": map[string]any{"content": "", "refusal": "no"}}},
		},
		"prompt feedback": {"promptFeedback": map[string]any{"blockReason": "SAFETY"}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_ = json.NewEncoder(w).Encode(body)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Complete(context.Background(), Request{Prompt: "x"})
			if !errors.Is(err, ErrBlocked) {
				t.Fatalf("expected ErrBlocked, got %v", err)
			}
			if calls != 1 {
				t.Fatalf("blocked responses must not be retried, got %d calls", calls)
			}
		})
	}
}

func TestCompleteEmptyContentIsMalformed(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(completionBody("", "stop"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), Request{Prompt: "x"})
	var mre *MalformedResponseError
	if !errors.As(err, &mre) || !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("malformed responses must not be retried, got %d calls", calls)
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(completionBody("done", "stop"))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).Complete(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "done" || calls != 3 {
		t.Fatalf("content=%q calls=%d", content, calls)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), Request{Prompt: "x"})
	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
	if msg := UserMessage(err); msg != "The AI API key was rejected." {
		t.Fatalf("unexpected user message %q", msg)
	}
}

func TestCompleteRequiresKeyAndPrompt(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Complete(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	client = NewClient(Config{APIKey: "k"})
	if _, err := client.Complete(context.Background(), Request{Prompt: "  "}); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if client.cfg.BaseURL != defaultBaseURL || client.cfg.Model != defaultModel {
		t.Fatalf("defaults not applied: %+v", client.cfg)
	}
}

func TestBackoffDelay(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := client.backoffDelay(i + 1); got != w {
			t.Fatalf("attempt %d: got %v want %v", i+1, got, w)
		}
	}
}

func TestDecodeJSONCodeFence(t *testing.T) {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := DecodeJSON("Sure!\n```json\n{\"ok\":true}\n```", &out); err != nil || !out.OK {
		t.Fatalf("DecodeJSON failed: %v %+v", err, out)
	}
	if err := DecodeJSON("   ", &out); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
