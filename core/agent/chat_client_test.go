package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kanekosora-114/Tune-into-English/model"
)

func TestCompleteSendsSystemAndUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req model.OpenAIChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || req.Temperature != 0.2 || req.Stream {
			t.Errorf("request = %+v", req)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Fatalf("messages = %+v", req.Messages)
		}
		if req.Messages[1].Content != "hello" {
			t.Errorf("user content = %q", req.Messages[1].Content)
		}
		w.Write([]byte(`{"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":" こんにちは \n"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(&ChatClientConfig{APIBaseURL: srv.URL, APIKey: "sk-test", Timeout: time.Second})
	got, err := c.Complete(context.Background(), model.CompletionRequest{
		Model: "gpt-4o-mini", System: "translate", User: "hello", Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != " こんにちは \n" {
		t.Errorf("Complete() = %q, want the raw content", got)
	}
}

func TestCompleteWithoutSystemMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.OpenAIChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 {
			t.Errorf("messages = %d, want 1", len(req.Messages))
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(&ChatClientConfig{APIBaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), model.CompletionRequest{User: "x"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewChatClient(&ChatClientConfig{APIBaseURL: srv.URL}).Complete(context.Background(), model.CompletionRequest{User: "x"})
	if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "Incorrect API key") {
		t.Fatalf("Complete() error = %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewChatClient(&ChatClientConfig{APIBaseURL: srv.URL}).Complete(context.Background(), model.CompletionRequest{User: "x"})
	if !errors.Is(err, ErrNoChoices) {
		t.Fatalf("Complete() error = %v, want ErrNoChoices", err)
	}
}
