// Package llm provides the completion client used by the stylist pipeline.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ResponseFormatJSON asks the provider for a JSON object response.
const ResponseFormatJSON = "json_object"

// PartType discriminates the parts of a multipart message.
type PartType string

const (
	PartText     PartType = "text"
	PartImageURL PartType = "image_url"
)

// Part is one typed piece of message content.
type Part struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

// ImagePart returns an image reference part.
func ImagePart(url string) Part {
	return Part{Type: PartImageURL, ImageURL: url}
}

// Message is one entry of the ordered message list sent to a provider.
// Content is used when Parts is empty.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

// Multipart reports whether the message carries typed parts.
func (m Message) Multipart() bool {
	return len(m.Parts) > 0
}

// Text returns the textual content, joining text parts.
func (m Message) Text() string {
	if !m.Multipart() {
		return m.Content
	}
	var texts []string
	for _, p := range m.Parts {
		if p.Type == PartText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// Images returns the image URLs of the message in order.
func (m Message) Images() []string {
	var urls []string
	for _, p := range m.Parts {
		if p.Type == PartImageURL {
			urls = append(urls, p.ImageURL)
		}
	}
	return urls
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model          string
	Messages       []Message
	MaxTokens      int
	Temperature    float64
	ResponseFormat string
}

// CompletionResponse is the first choice of a completion.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for completion providers.
type Client interface {
	// Complete sends the request and returns choices[0].message.content.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// ErrMalformedResponse is returned when a successful response lacks a completion choice.
var ErrMalformedResponse = errors.New("malformed completion response")

// UpstreamError is returned when the provider call does not succeed.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s upstream unavailable: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the call may succeed.
func (e *UpstreamError) Temporary() bool {
	switch {
	case e.StatusCode == 0:
		return !errors.Is(e.Err, context.Canceled)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= 500
	}
}

// IsFailure reports whether err belongs to the completion failure taxonomy.
func IsFailure(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up) || errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Provider is the type of completion provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Config selects and configures a provider.
type Config struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Model    string
	// Referer and Title are sent as HTTP-Referer and X-Title, which
	// OpenRouter uses for attribution.
	Referer    string
	Title      string
	HTTPClient *http.Client
}

// NewClient creates a completion client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
