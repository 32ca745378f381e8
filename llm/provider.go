// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("llm: api key not configured")
	// ErrEmptyCompletion is returned when the service answers without text.
	ErrEmptyCompletion = errors.New("llm: response has no completion text")
	// ErrUnknownProvider is returned by New for unregistered names.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// Provider sends one chat completion request to a hosted model.
type Provider interface {
	// Name returns the provider's identifier, e.g. "dashscope".
	Name() string

	// Chat performs a single non-streaming completion.
	Chat(ctx context.Context, opts *Options) (*Result, error)
}

// Options configures one completion request.
type Options struct {
	// URL is the endpoint. For dashscope it is the full generation URL; for
	// openai it is the API base and "/chat/completions" is appended. Empty
	// selects the provider default.
	URL string

	APIKey string
	Model  string

	// SystemPrompt is sent as a leading system message when set.
	SystemPrompt string
	Messages     []Message

	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the provider-independent completion.
type Result struct {
	Content      string
	FinishReason string
	Model        string
	RequestID    string
	Usage        Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// StatusError reports a non-2xx reply from the completion service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: API error (status %d): %s", e.StatusCode, e.Body)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

type constructor func(client *http.Client) Provider

var providers = map[string]constructor{
	"dashscope": func(c *http.Client) Provider { return &DashScope{client: c} },
	"openai":    func(c *http.Client) Provider { return &OpenAI{client: c} },
}

// New returns the provider registered under name. A nil client uses
// http.DefaultClient.
func New(name string, client *http.Client) (Provider, error) {
	ctor, ok := providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}
	if client == nil {
		client = http.DefaultClient
	}
	return ctor(client), nil
}

// Names lists the registered provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// messages prepends the system prompt to the conversation
func (o *Options) messages() []Message {
	msgs := make([]Message, 0, len(o.Messages)+1)
	if o.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: o.SystemPrompt})
	}
	return append(msgs, o.Messages...)
}
