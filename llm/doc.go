// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package llm is a minimal client for hosted text-completion services.

Two wire formats are supported:

  - dashscope: Qwen text-generation API ({model, input.messages, parameters} → output.text)
  - openai: chat completions API (choices[0].message.content)

# Usage

	provider, err := llm.New("dashscope", &http.Client{Timeout: 15 * time.Second})
	result, err := provider.Chat(ctx, &llm.Options{
		APIKey:       key,
		Model:        "qwen-max",
		SystemPrompt: "...",
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		Temperature:  0.3,
		TopP:         0.8,
	})

# Errors

  - ErrNotConfigured: empty API key, no request is sent
  - *StatusError: non-2xx reply, carries the status code and a body excerpt
  - ErrEmptyCompletion: the reply decoded but held no text
  - anything else: transport or decode failures, wrapped with %w
*/
package llm
