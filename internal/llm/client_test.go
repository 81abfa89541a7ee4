package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewSelectsProvider(t *testing.T) {
	g, err := New(Options{Provider: "anthropic", AnthropicAPIKey: "k", AnthropicModel: "m"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := g.(*AnthropicClient); !ok {
		t.Errorf("expected *AnthropicClient, got %T", g)
	}

	g, err = New(Options{Provider: "OpenAI", OpenAIAPIKey: "k", OpenAIModel: "m"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := g.(*OpenAIClient); !ok {
		t.Errorf("expected *OpenAIClient, got %T", g)
	}
}

func TestNewWithoutKeyReturnsNil(t *testing.T) {
	g, err := New(Options{Provider: "anthropic"})
	if err != nil || g != nil {
		t.Fatalf("expected (nil, nil) without a key, got (%v, %v)", g, err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Options{Provider: "llama"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var body map[string]any
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			http.NotFound(w, r)
			return
		}
		apiKey = r.Header.Get("x-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "1/ Hook tweet"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	c := NewAnthropicClient(Options{
		AnthropicAPIKey: "sk-test",
		AnthropicModel:  "claude-sonnet-4-20250514",
		BaseURL:         srv.URL,
		Timeout:         5 * time.Second,
	})
	out, err := c.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != "1/ Hook tweet" {
		t.Errorf("output = %q", out)
	}
	if apiKey != "sk-test" {
		t.Errorf("x-api-key = %q", apiKey)
	}
	if body["model"] != "claude-sonnet-4-20250514" {
		t.Errorf("model = %v", body["model"])
	}
	if body["max_tokens"] != float64(2000) {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	raw, _ := json.Marshal(body["system"])
	if !strings.Contains(string(raw), "system prompt") {
		t.Errorf("system prompt missing from request: %s", raw)
	}
}

func TestAnthropicGenerateErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"overloaded"}}`)
	}))
	defer srv.Close()

	c := NewAnthropicClient(Options{AnthropicAPIKey: "k", AnthropicModel: "m", BaseURL: srv.URL})
	if _, err := c.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly one attempt, got %d", n)
	}
}

func TestAnthropicGenerateEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`)
	}))
	defer srv.Close()

	c := NewAnthropicClient(Options{AnthropicAPIKey: "k", AnthropicModel: "m", BaseURL: srv.URL})
	if _, err := c.Generate(context.Background(), "s", "u"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "A LinkedIn post"}}]
		}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(Options{OpenAIAPIKey: "k", OpenAIModel: "gpt-4o-mini", BaseURL: srv.URL + "/v1/"})
	out, err := c.Generate(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != "A LinkedIn post" {
		t.Errorf("output = %q", out)
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", body["messages"])
	}
}
