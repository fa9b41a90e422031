package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url string) openai.Client {
	return openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(url),
		option.WithMaxRetries(0),
	)
}

func TestAskSendsSingleTurn(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"logprobs": null,
				"message": {"role": "assistant", "content": "  Paris is the capital of France. ", "refusal": null}
			}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28}
		}`)
	}))
	defer srv.Close()

	r := NewResponder(newTestClient(srv.URL), Config{Model: "gpt-4o", MaxTokens: 150, Temperature: 0.7}, discard())
	reply, err := r.Ask(context.Background(), "what is the capital of france")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Paris is the capital of France." {
		t.Errorf("unexpected reply: %q", reply)
	}

	if got["model"] != "gpt-4o" {
		t.Errorf("unexpected model: %v", got["model"])
	}
	if got["max_completion_tokens"] != float64(150) {
		t.Errorf("unexpected token cap: %v", got["max_completion_tokens"])
	}
	if got["temperature"] != 0.7 {
		t.Errorf("unexpected temperature: %v", got["temperature"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user message, got %d", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	if user["role"] != "user" || user["content"] != "what is the capital of france" {
		t.Errorf("unexpected user message: %v", user)
	}
}

func TestAskReturnsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`)
	}))
	defer srv.Close()

	r := NewResponder(newTestClient(srv.URL), Config{}, discard())
	_, err := r.Ask(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected the status in the error, got %q", err.Error())
	}
}
