package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/askagent/askagent/internal/llm"
)

func fakeMessagesAPI(t *testing.T, status int, reply string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicModelGenerate(t *testing.T) {
	var body map[string]any
	srv := fakeMessagesAPI(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "test-model",
		"content": [
			{"type": "text", "text": "Thought: easy\n"},
			{"type": "text", "text": "Final Answer: 4"}
		],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 12, "output_tokens": 7}
	}`, &body)

	m := llm.NewAnthropicModel(llm.AnthropicOptions{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Model:   "test-model",
	})
	if m.Name() != "test-model" {
		t.Errorf("name = %q", m.Name())
	}

	out, err := m.Generate(context.Background(), llm.Prompt{
		System: "be brief",
		User:   "What is 2+2?",
		Stop:   []string{"\nObservation:"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Thought: easy\nFinal Answer: 4" {
		t.Errorf("out = %q", out)
	}

	if body["model"] != "test-model" {
		t.Errorf("request model = %v", body["model"])
	}
	stops, _ := body["stop_sequences"].([]any)
	if len(stops) != 1 || stops[0] != "\nObservation:" {
		t.Errorf("stop_sequences = %v", body["stop_sequences"])
	}
	if _, ok := body["system"]; !ok {
		t.Error("system prompt missing from request")
	}
}

func TestAnthropicModelError(t *testing.T) {
	srv := fakeMessagesAPI(t, http.StatusBadRequest,
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad request"}}`, nil)

	m := llm.NewAnthropicModel(llm.AnthropicOptions{APIKey: "k", BaseURL: srv.URL + "/"})
	_, err := m.Generate(context.Background(), llm.Prompt{User: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "LLM call failed") {
		t.Errorf("error should be wrapped, got %v", err)
	}
}
