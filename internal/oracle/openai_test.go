package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pvoronin/quotecheck/internal/model"
	"github.com/sashabaranov/go-openai"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_Verify_Success(t *testing.T) {
	server := chatServer(t, `[{"location": "Page 1, Para 1", "quote_text": "The die is cast", "claimed_source": "Julius Caesar", "status": "ACCURATE", "notes": "Suetonius attributes it"}]`)
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	items, err := provider.Verify(context.Background(), "[P1]\n\"The die is cast\" — Julius Caesar")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Status != model.StatusAccurate {
		t.Errorf("Expected ACCURATE, got %s", items[0].Status)
	}
	if items[0].Location != "Page 1, Para 1" {
		t.Errorf("Unexpected location: %s", items[0].Location)
	}
}

func TestOpenAIProvider_Verify_FencedResponse(t *testing.T) {
	server := chatServer(t, "```json\n[{\"location\": \"Page 2\", \"quote_text\": \"q\", \"claimed_source\": \"s\", \"status\": \"PARAPHRASED\", \"notes\": \"\"}]\n```")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	items, err := provider.Verify(context.Background(), "text")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(items) != 1 || items[0].Status != model.StatusParaphrased {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestOpenAIProvider_Verify_MalformedOutputTolerated(t *testing.T) {
	// Unparsable oracle prose yields zero items, not an error.
	server := chatServer(t, "Sorry, I cannot produce JSON today.")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	items, err := provider.Verify(context.Background(), "text")
	if err != nil {
		t.Fatalf("Expected malformed output to be tolerated, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(items))
	}
}

func TestOpenAIProvider_Verify_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Verify(context.Background(), "text"); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIProvider_Verify_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Verify(context.Background(), "text"); err == nil {
		t.Fatal("Expected auth error to propagate, got nil")
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}
