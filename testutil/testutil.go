// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/danielhkuo/classvote/cliparse"
	"github.com/danielhkuo/classvote/db"
	"github.com/danielhkuo/classvote/llm"
	"github.com/danielhkuo/classvote/models"
	"github.com/danielhkuo/classvote/store"
	"github.com/danielhkuo/classvote/voice"
)

// TestClearPassword is the clear-votes password in GetTestConfig
const TestClearPassword = "test-clear-password"

// SetupTestStore creates a fresh SQLite-backed vote store in a temp dir
func SetupTestStore(t *testing.T) store.VoteStore {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.SQLite, filepath.Join(t.TempDir(), "votes.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	s := store.NewSQLStore(conn, db.SQLite)
	t.Cleanup(func() { s.Close() })
	return s
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		StoreBackend:  cliparse.BackendSQL,
		DatabaseType:  cliparse.DatabaseSQLite,
		ClearPassword: TestClearPassword,
		LLMProvider:   "dashscope",
		LLMModel:      "qwen-max",
		LLMTimeout:    2 * time.Second,
	}
}

// InsertTestVote stores a vote with a random student id and name
func InsertTestVote(t *testing.T, s store.VoteStore, classID models.ClassNumber) models.Vote {
	t.Helper()

	vote, err := s.Insert(context.Background(), models.Vote{
		StudentID:   gofakeit.UUID(),
		StudentName: gofakeit.Name(),
		ClassID:     classID,
	})
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}
	return vote
}

// FakeLLM is a stand-in for the DashScope generation endpoint
type FakeLLM struct {
	*httptest.Server
	requests atomic.Int32
}

// Requests returns how many completion requests reached the fake
func (f *FakeLLM) Requests() int {
	return int(f.requests.Load())
}

// NewFakeLLM answers every request with the given status and completion
// text. Non-200 statuses get a DashScope-style error body.
func NewFakeLLM(t *testing.T, status int, completion string) *FakeLLM {
	t.Helper()

	f := &FakeLLM{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"code":"InternalError","message":"fake failure"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"output":     map[string]any{"text": completion, "finish_reason": "stop"},
			"request_id": "fake-request",
		})
	}))
	t.Cleanup(f.Close)
	return f
}

// NewTestRemoteParser points a remote parser at the fake
func NewTestRemoteParser(t *testing.T, f *FakeLLM, apiKey string) *voice.RemoteParser {
	t.Helper()

	provider, err := llm.New("dashscope", f.Client())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	cfg := GetTestConfig()
	return voice.NewRemoteParser(provider, voice.RemoteConfig{
		URL:     f.URL,
		APIKey:  apiKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
