// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultDashScopeURL = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// DashScope speaks the Qwen text-generation API.
type DashScope struct {
	client *http.Client
}

var _ Provider = (*DashScope)(nil)

func (p *DashScope) Name() string {
	return "dashscope"
}

func (p *DashScope) Chat(ctx context.Context, opts *Options) (*Result, error) {
	if opts.APIKey == "" {
		return nil, ErrNotConfigured
	}
	url := opts.URL
	if url == "" {
		url = defaultDashScopeURL
	}

	reqData, err := json.Marshal(p.buildRequest(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+opts.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var apiResp dashScopeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Output.Text == "" {
		return nil, ErrEmptyCompletion
	}

	return &Result{
		Content:      apiResp.Output.Text,
		FinishReason: apiResp.Output.FinishReason,
		Model:        opts.Model,
		RequestID:    apiResp.RequestID,
		Usage: Usage{
			InputTokens:  apiResp.Usage.InputTokens,
			OutputTokens: apiResp.Usage.OutputTokens,
		},
	}, nil
}

func (p *DashScope) buildRequest(opts *Options) dashScopeRequest {
	req := dashScopeRequest{Model: opts.Model}
	req.Input.Messages = opts.messages()
	req.Parameters.Temperature = opts.Temperature
	req.Parameters.TopP = opts.TopP
	req.Parameters.MaxTokens = opts.MaxTokens
	req.Parameters.ResultFormat = "text"
	return req
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []Message `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Temperature  float64 `json:"temperature,omitempty"`
		TopP         float64 `json:"top_p,omitempty"`
		MaxTokens    int     `json:"max_tokens,omitempty"`
		ResultFormat string  `json:"result_format"`
	} `json:"parameters"`
}

type dashScopeResponse struct {
	Output struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	RequestID string `json:"request_id"`
}
