package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Class range
const (
	MinClassID = 1
	MaxClassID = 7
)

// Voice parse error codes
const (
	ErrCodeMissingStudentID      = "missing_student_id"
	ErrCodeMissingName           = "missing_name"
	ErrCodeMissingClass          = "missing_class"
	ErrCodeInvalidClass          = "invalid_class"
	ErrCodeRemoteUnavailable     = "remote_unavailable"
	ErrCodeInvalidResponseFormat = "invalid_response_format"
)

// Vote submission error codes
const (
	ErrCodeMissingFields = "missing_fields"
	ErrCodeDuplicateVote = "duplicate_vote"
	ErrCodeUnauthorized  = "unauthorized"
)

// Parse sources
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// ClassNumber is a class id that tolerates the encodings older records use.
// Numbers and numeric strings decode to their integer value; anything else
// decodes to 0, which belongs to no class.
type ClassNumber int

// Valid reports whether c is one of the configured classes.
func (c ClassNumber) Valid() bool {
	return c >= MinClassID && c <= MaxClassID
}

// ParseClassNumber coerces a loosely typed value into a ClassNumber.
func ParseClassNumber(v any) ClassNumber {
	switch n := v.(type) {
	case ClassNumber:
		return n
	case int:
		return ClassNumber(n)
	case int32:
		return ClassNumber(n)
	case int64:
		return ClassNumber(n)
	case float64:
		if n != math.Trunc(n) {
			return 0
		}
		return ClassNumber(n)
	case json.Number:
		return ParseClassNumber(string(n))
	case []byte:
		return ParseClassNumber(string(n))
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return ClassNumber(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ParseClassNumber(f)
		}
	}
	return 0
}

func (c *ClassNumber) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ParseClassNumber(v)
	return nil
}

// Scan implements sql.Scanner
func (c *ClassNumber) Scan(src any) error {
	if src == nil {
		*c = 0
		return nil
	}
	switch src.(type) {
	case int64, float64, string, []byte:
		*c = ParseClassNumber(src)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ClassNumber", src)
}

// Value implements driver.Valuer
func (c ClassNumber) Value() (driver.Value, error) {
	return int64(c), nil
}

// LooseString is a text field that also accepts a bare JSON number, as
// older clients and model replies send student ids unquoted. null decodes
// to "". Strings are trimmed.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*s = ""
	case strings.HasPrefix(raw, `"`):
		var v string
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		*s = LooseString(strings.TrimSpace(v))
	case raw != "" && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return err
		}
		*s = LooseString(n.String())
	default:
		return fmt.Errorf("expected string or number, got %s", raw)
	}
	return nil
}

// Request types

type SubmitVoteRequest struct {
	StudentID   LooseString `json:"studentId"`
	StudentName LooseString `json:"studentName"`
	ClassID     ClassNumber `json:"classId"`
	Timestamp   *time.Time  `json:"timestamp,omitempty"`
}

type ClearVotesRequest struct {
	Password string `json:"password"`
}

type ParseVoiceRequest struct {
	Text string `json:"text"`
}

type CompleteRequest struct {
	Prompt string `json:"prompt"`
}

// Response types

type VoteResponse struct {
	Message string `json:"message"`
	Vote    Vote   `json:"vote"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type VoiceStatusResponse struct {
	Status        string `json:"status"`
	APIConfigured bool   `json:"apiConfigured"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
}

type CompleteResponse struct {
	Text string `json:"text"`
}

// Domain types

type Vote struct {
	StudentID   string      `json:"studentId"`
	StudentName string      `json:"studentName"`
	ClassID     ClassNumber `json:"classId"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ParsedVoiceResult is the structured form of a transcript. When Error is
// empty all three data fields are set and ClassID is valid.
type ParsedVoiceResult struct {
	StudentID    string      `json:"studentId,omitempty"`
	StudentName  string      `json:"studentName,omitempty"`
	ClassID      ClassNumber `json:"classId,omitempty"`
	Error        string      `json:"error,omitempty"`
	Message      string      `json:"message,omitempty"`
	Source       string      `json:"source,omitempty"`
	Confirmation string      `json:"confirmation,omitempty"`
}

// OK reports whether the transcript produced a complete vote.
func (p ParsedVoiceResult) OK() bool {
	return p.Error == ""
}

type ClassInfo struct {
	ID   ClassNumber `json:"id"`
	Name string      `json:"name"`
}

type ClassTally struct {
	ClassID   ClassNumber `json:"classId"`
	ClassName string      `json:"className"`
	Count     int         `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
