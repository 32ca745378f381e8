// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/classvote/llm"
	"github.com/danielhkuo/classvote/models"
)

var (
	ErrRemoteUnavailable     = errors.New("remote parser unavailable")
	ErrInvalidResponseFormat = errors.New("remote parser returned an invalid response")
)

const (
	remoteTemperature = 0.3
	remoteTopP        = 0.8
)

const systemPrompt = "你是一个语音识别助手，帮助解析学生的投票信息。"

const instructionTemplate = `你是一个专业的语音识别解析助手。请从以下语音识别文本中提取学号、姓名和投票班级信息。

语音文本: "%s"

请严格按照以下JSON格式返回结果，不要包含任何其他文字或解释:
{
  "studentId": "提取的学号",
  "studentName": "提取的姓名",
  "classId": 提取的班级编号(数字1-7),
  "error": null
}

如果是中文数字（一到七），请转换为阿拉伯数字(1-7)。
如果无法提取某项信息，请在对应字段填写null，并在error字段说明原因。`

// RemoteError is a failure of the remote parser as a whole, as opposed to
// a transcript that lacked a field.
type RemoteError struct {
	Kind       error // ErrRemoteUnavailable or ErrInvalidResponseFormat
	StatusCode int   // HTTP status from the completion service, if any
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Code returns the ParsedVoiceResult error code for this failure.
func (e *RemoteError) Code() string {
	if errors.Is(e.Kind, ErrInvalidResponseFormat) {
		return models.ErrCodeInvalidResponseFormat
	}
	return models.ErrCodeRemoteUnavailable
}

// RemoteConfig holds the completion service settings.
type RemoteConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// RemoteParser asks a hosted language model to structure a transcript.
// Its output is untrusted; callers keep Parse as the fallback.
type RemoteParser struct {
	provider llm.Provider
	cfg      RemoteConfig
}

func NewRemoteParser(provider llm.Provider, cfg RemoteConfig) *RemoteParser {
	return &RemoteParser{provider: provider, cfg: cfg}
}

// Configured reports whether a credential is available.
func (p *RemoteParser) Configured() bool {
	return p != nil && p.provider != nil && p.cfg.APIKey != ""
}

// ProviderName returns the wire format in use.
func (p *RemoteParser) ProviderName() string {
	if p == nil || p.provider == nil {
		return ""
	}
	return p.provider.Name()
}

// Model returns the configured model identifier.
func (p *RemoteParser) Model() string {
	if p == nil {
		return ""
	}
	return p.cfg.Model
}

// Complete sends a raw prompt with the parser's sampling settings and
// returns the model's text.
func (p *RemoteParser) Complete(ctx context.Context, prompt string) (string, error) {
	if !p.Configured() {
		return "", &RemoteError{Kind: ErrRemoteUnavailable, Err: llm.ErrNotConfigured}
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	result, err := p.provider.Chat(ctx, &llm.Options{
		URL:          p.cfg.URL,
		APIKey:       p.cfg.APIKey,
		Model:        p.cfg.Model,
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		Temperature:  remoteTemperature,
		TopP:         remoteTopP,
	})
	if errors.Is(err, llm.ErrEmptyCompletion) {
		return "", &RemoteError{Kind: ErrInvalidResponseFormat, Err: err}
	}
	if err != nil {
		return "", &RemoteError{Kind: ErrRemoteUnavailable, StatusCode: llm.StatusCode(err), Err: err}
	}
	return result.Content, nil
}

// Parse sends the transcript to the model and validates what comes back.
// A *RemoteError means the remote path failed entirely; a result with
// Error set means the model answered but could not fill every field.
func (p *RemoteParser) Parse(ctx context.Context, transcript string) (models.ParsedVoiceResult, error) {
	text, err := p.Complete(ctx, fmt.Sprintf(instructionTemplate, transcript))
	if err != nil {
		return models.ParsedVoiceResult{}, err
	}
	return DecodeRemote(text)
}

// DecodeRemote extracts and validates the JSON object in a completion.
func DecodeRemote(text string) (models.ParsedVoiceResult, error) {
	raw, ok := FirstJSONObject(text)
	if !ok {
		return models.ParsedVoiceResult{}, &RemoteError{
			Kind: ErrInvalidResponseFormat,
			Err:  errors.New("no JSON object in completion"),
		}
	}

	var payload remotePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.ParsedVoiceResult{}, &RemoteError{Kind: ErrInvalidResponseFormat, Err: err}
	}

	result := models.ParsedVoiceResult{
		Source:      models.SourceRemote,
		StudentID:   string(payload.StudentID),
		StudentName: string(payload.StudentName),
	}
	if payload.ClassID.Valid() {
		result.ClassID = payload.ClassID.Value
	}

	switch {
	case result.StudentID == "":
		return fail(result, models.ErrCodeMissingStudentID), nil
	case result.StudentName == "":
		return fail(result, models.ErrCodeMissingName), nil
	case !payload.ClassID.Present:
		return fail(result, models.ErrCodeMissingClass), nil
	case !payload.ClassID.Valid():
		return fail(result, models.ErrCodeInvalidClass), nil
	}
	return confirm(result), nil
}

// FirstJSONObject returns the first balanced {...} substring of s. Braces
// inside JSON string literals are ignored.
func FirstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		depth := 0
		inString, escaped := false, false
		for i := start; i < len(s); i++ {
			c := s[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
		// Unbalanced from here; try the next opening brace.
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

type remotePayload struct {
	StudentID   models.LooseString `json:"studentId"`
	StudentName models.LooseString `json:"studentName"`
	ClassID     looseClass  `json:"classId"`
	Error       any         `json:"error"`
}

// looseClass accepts a number, a numeric string, a spoken designator or null.
type looseClass struct {
	Present bool
	Value   models.ClassNumber
}

func (c looseClass) Valid() bool {
	return c.Present && c.Value.Valid()
}

func (c *looseClass) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = looseClass{}
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		v = strings.TrimSuffix(strings.TrimSpace(v), "班")
		if v == "" {
			*c = looseClass{}
			return nil
		}
		*c = looseClass{Present: true}
		if n, ok := ClassNumberFromDesignator(v); ok {
			c.Value = n
		} else if n, err := strconv.Atoi(v); err == nil {
			c.Value = models.ClassNumber(n)
		}
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*c = looseClass{Present: true}
		if f == math.Trunc(f) && math.Abs(f) < 1e6 {
			c.Value = models.ClassNumber(f)
		}
	default:
		return fmt.Errorf("expected class number, got %s", data)
	}
	return nil
}
