// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/classvote/models"
	"github.com/danielhkuo/classvote/store"
	"github.com/danielhkuo/classvote/testutil"
)

// brokenStore fails every operation with a storage error
type brokenStore struct{}

var errDiskGone = fmt.Errorf("%w: disk unavailable", store.ErrStorage)

func (brokenStore) Exists(context.Context, string) (bool, error) { return false, errDiskGone }
func (brokenStore) Insert(context.Context, models.Vote) (models.Vote, error) {
	return models.Vote{}, errDiskGone
}
func (brokenStore) ListAll(context.Context) ([]models.Vote, error) { return nil, errDiskGone }
func (brokenStore) ClearAll(context.Context) error                 { return errDiskGone }
func (brokenStore) Close() error                                   { return nil }

func TestSubmitVote(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId":   "220328",
		"studentName": "张三",
		"classId":     1,
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Message != msgVoteAccepted {
		t.Errorf("Expected message %q, got %q", msgVoteAccepted, resp.Message)
	}
	if resp.Vote.StudentID != "220328" || resp.Vote.StudentName != "张三" || resp.Vote.ClassID != 1 {
		t.Errorf("Unexpected vote in response: %+v", resp.Vote)
	}
	if resp.Vote.Timestamp.IsZero() {
		t.Error("Expected server to assign a timestamp")
	}

	exists, err := votes.Exists(context.Background(), "220328")
	if err != nil || !exists {
		t.Errorf("Expected vote to be stored, Exists = %v, %v", exists, err)
	}
}

func TestSubmitVote_StringClassID(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId":   "220101",
		"studentName": "王五",
		"classId":     "6",
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Vote.ClassID != 6 {
		t.Errorf("Expected class 6, got %d", resp.Vote.ClassID)
	}
}

func TestSubmitVote_NumericStudentID(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId":   220328,
		"studentName": "张三",
		"classId":     1,
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Vote.StudentID != "220328" {
		t.Errorf("Expected student id %q, got %q", "220328", resp.Vote.StudentID)
	}

	// The same id sent as a string is the same student
	req = testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId":   "220328",
		"studentName": "张三",
		"classId":     2,
	}, nil)
	w = httptest.NewRecorder()
	handler.SubmitVote(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestSubmitVote_KeepsClientTimestamp(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	when := time.Date(2025, 5, 30, 9, 15, 0, 0, time.UTC)
	req := testutil.MakeRequest("POST", "/api/vote", models.SubmitVoteRequest{
		StudentID:   "220102",
		StudentName: "赵六",
		ClassID:     2,
		Timestamp:   &when,
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Vote.Timestamp.Equal(when) {
		t.Errorf("Expected timestamp %v, got %v", when, resp.Vote.Timestamp)
	}
}

func TestSubmitVote_Validation(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	testCases := []struct {
		name         string
		body         map[string]any
		expectedCode string
	}{
		{"missing student id", map[string]any{"studentName": "张三", "classId": 1}, models.ErrCodeMissingFields},
		{"blank student id", map[string]any{"studentId": "  ", "studentName": "张三", "classId": 1}, models.ErrCodeMissingFields},
		{"null student id", map[string]any{"studentId": nil, "studentName": "张三", "classId": 1}, models.ErrCodeMissingFields},
		{"missing name", map[string]any{"studentId": "220328", "classId": 1}, models.ErrCodeMissingFields},
		{"missing class", map[string]any{"studentId": "220328", "studentName": "张三"}, models.ErrCodeMissingFields},
		{"class zero", map[string]any{"studentId": "220328", "studentName": "张三", "classId": 0}, models.ErrCodeMissingFields},
		{"class eight", map[string]any{"studentId": "220328", "studentName": "张三", "classId": 8}, models.ErrCodeInvalidClass},
		{"negative class", map[string]any{"studentId": "220328", "studentName": "张三", "classId": -1}, models.ErrCodeInvalidClass},
		{"string class out of range", map[string]any{"studentId": "220328", "studentName": "张三", "classId": "12"}, models.ErrCodeInvalidClass},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/vote", tc.body, nil)
			w := httptest.NewRecorder()

			handler.SubmitVote(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Error != tc.expectedCode {
				t.Errorf("Expected error %q, got %q", tc.expectedCode, resp.Error)
			}
		})
	}

	all, _ := votes.ListAll(context.Background())
	if len(all) != 0 {
		t.Errorf("Rejected submissions must not be stored, found %d votes", len(all))
	}
}

func TestSubmitVote_InvalidJSON(t *testing.T) {
	handler := NewVotingHandler(testutil.SetupTestStore(t), testutil.GetTestConfig())

	req := httptest.NewRequest("POST", "/api/vote", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitVote_Duplicate(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	first := testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId": "220328", "studentName": "张三", "classId": 1,
	}, nil)
	w := httptest.NewRecorder()
	handler.SubmitVote(w, first)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Same student, different class
	second := testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId": "220328", "studentName": "张三", "classId": 4,
	}, nil)
	w = httptest.NewRecorder()
	handler.SubmitVote(w, second)

	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != msgAlreadyVoted {
		t.Errorf("Expected message %q, got %q", msgAlreadyVoted, resp.Message)
	}
	if resp.Vote.ClassID != 1 {
		t.Errorf("Expected the existing vote (class 1) in response, got class %d", resp.Vote.ClassID)
	}

	all, _ := votes.ListAll(context.Background())
	if len(all) != 1 || all[0].ClassID != 1 {
		t.Errorf("Expected the original vote to be unchanged, got %+v", all)
	}
}

func TestSubmitVote_StorageFailure(t *testing.T) {
	handler := NewVotingHandler(brokenStore{}, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/vote", map[string]any{
		"studentId": "220328", "studentName": "张三", "classId": 1,
	}, nil)
	w := httptest.NewRecorder()

	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if strings.Contains(resp.Message, "disk") {
		t.Error("Storage details must not leak to the client")
	}
}

func TestClearVotes(t *testing.T) {
	votes := testutil.SetupTestStore(t)
	handler := NewVotingHandler(votes, testutil.GetTestConfig())

	for i := 1; i <= 3; i++ {
		testutil.InsertTestVote(t, votes, models.ClassNumber(i))
	}

	t.Run("wrong password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/clear-votes", models.ClearVotesRequest{Password: "guess"}, nil)
		w := httptest.NewRecorder()

		handler.ClearVotes(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != models.ErrCodeUnauthorized {
			t.Errorf("Expected error %q, got %q", models.ErrCodeUnauthorized, resp.Error)
		}

		all, _ := votes.ListAll(context.Background())
		if len(all) != 3 {
			t.Errorf("Expected votes untouched, got %d", len(all))
		}
	})

	t.Run("empty password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/clear-votes", map[string]any{}, nil)
		w := httptest.NewRecorder()

		handler.ClearVotes(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("correct password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/clear-votes", models.ClearVotesRequest{Password: testutil.TestClearPassword}, nil)
		w := httptest.NewRecorder()

		handler.ClearVotes(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.MessageResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != msgVotesCleared {
			t.Errorf("Expected message %q, got %q", msgVotesCleared, resp.Message)
		}

		all, _ := votes.ListAll(context.Background())
		if len(all) != 0 {
			t.Errorf("Expected no votes after clear, got %d", len(all))
		}
	})
}

func TestClearVotes_StorageFailure(t *testing.T) {
	handler := NewVotingHandler(brokenStore{}, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/api/clear-votes", models.ClearVotesRequest{Password: testutil.TestClearPassword}, nil)
	w := httptest.NewRecorder()

	handler.ClearVotes(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}
