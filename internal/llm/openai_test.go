package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path    string
	Referer string
	Title   string
	Body    map[string]any
}

func newUpstream(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Path = r.URL.Path
			captured.Referer = r.Header.Get("HTTP-Referer")
			captured.Title = r.Header.Get("X-Title")
			_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenAI(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "vision-model",
		Referer: "https://gia.example",
		Title:   "Gia Fashion AI",
	})
	require.NoError(t, err)
	return c
}

const okBody = `{
	"id": "cmpl-1",
	"object": "chat.completion",
	"model": "vision-model",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "**Score: 8/10** Love it"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160}
}`

func TestOpenAIComplete_MultimodalRequest(t *testing.T) {
	var got capturedRequest
	srv := newUpstream(t, http.StatusOK, okBody, &got)
	c := newTestOpenAI(t, srv.URL+"/api/v1")

	resp, err := c.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "You are Gia."},
			{Role: RoleUser, Parts: []Part{
				TextPart("Is this better?"),
				TextPart("Original outfit for reference:"),
				ImagePart("data:image/jpeg;base64,AAA"),
				TextPart("New photo:"),
				ImagePart("data:image/jpeg;base64,BBB"),
			}},
		},
		MaxTokens:      800,
		Temperature:    0.7,
		ResponseFormat: ResponseFormatJSON,
	})
	require.NoError(t, err)

	require.Equal(t, "**Score: 8/10** Love it", resp.Content)
	require.Equal(t, 120, resp.TokensIn)
	require.Equal(t, 40, resp.TokensOut)
	require.Equal(t, "stop", resp.StopReason)

	require.Equal(t, "/api/v1/chat/completions", got.Path)
	require.Equal(t, "https://gia.example", got.Referer)
	require.Equal(t, "Gia Fashion AI", got.Title)
	require.Equal(t, "vision-model", got.Body["model"])
	require.EqualValues(t, 800, got.Body["max_tokens"])
	require.Equal(t, map[string]any{"type": "json_object"}, got.Body["response_format"])

	msgs := got.Body["messages"].([]any)
	require.Len(t, msgs, 2)
	require.Equal(t, "You are Gia.", msgs[0].(map[string]any)["content"])

	parts := msgs[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 5)
	kinds := make([]string, len(parts))
	for i, p := range parts {
		kinds[i] = p.(map[string]any)["type"].(string)
	}
	require.Equal(t, []string{"text", "text", "image_url", "text", "image_url"}, kinds)
	first := parts[2].(map[string]any)["image_url"].(map[string]any)["url"]
	second := parts[4].(map[string]any)["image_url"].(map[string]any)["url"]
	require.Equal(t, "data:image/jpeg;base64,AAA", first)
	require.Equal(t, "data:image/jpeg;base64,BBB", second)
}

func TestOpenAIComplete_UpstreamError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		temporary bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, true},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad image","type":"invalid_request_error"}}`, false},
		{"non json error", http.StatusBadGateway, `<html>bad gateway</html>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, tt.status, tt.body, nil)
			c := newTestOpenAI(t, srv.URL)

			_, err := c.Complete(context.Background(), &CompletionRequest{
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			})

			var up *UpstreamError
			require.ErrorAs(t, err, &up)
			require.Equal(t, tt.status, up.StatusCode)
			require.Equal(t, tt.temporary, up.Temporary())
			require.True(t, IsFailure(err))
		})
	}
}

func TestOpenAIComplete_MissingChoices(t *testing.T) {
	srv := newUpstream(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)
	c := newTestOpenAI(t, srv.URL)

	_, err := c.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.True(t, IsFailure(err))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{Provider: ProviderOpenAI})
	require.Error(t, err)

	c, err := NewClient(Config{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "openai", c.Name())

	c, err = NewClient(Config{Provider: ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "anthropic", c.Name())

	_, err = NewClient(Config{Provider: "mystery", APIKey: "k"})
	require.Error(t, err)
}

func TestMessageText(t *testing.T) {
	m := Message{Role: RoleUser, Parts: []Part{TextPart("a"), ImagePart("u1"), TextPart("b"), ImagePart("u2")}}
	require.Equal(t, "a\nb", m.Text())
	require.Equal(t, []string{"u1", "u2"}, m.Images())
	require.Equal(t, "plain", Message{Content: "plain"}.Text())
}

func TestSplitDataURL(t *testing.T) {
	mt, data, ok := splitDataURL("data:image/png;base64,iVBOR")
	require.True(t, ok)
	require.Equal(t, "image/png", mt)
	require.Equal(t, "iVBOR", data)

	_, _, ok = splitDataURL("https://cdn.example/look.jpg")
	require.False(t, ok)

	_, _, ok = splitDataURL("data:image/png,raw")
	require.False(t, ok)
}

func TestUpstreamErrorTemporary(t *testing.T) {
	require.True(t, (&UpstreamError{Err: errors.New("dial tcp: refused")}).Temporary())
	require.False(t, (&UpstreamError{Err: context.Canceled}).Temporary())
	require.False(t, (&UpstreamError{StatusCode: 401, Err: errors.New("auth")}).Temporary())
}
