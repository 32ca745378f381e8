// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/classvote/tally"
	"github.com/danielhkuo/classvote/testutil"
	"github.com/danielhkuo/classvote/web"
)

func newTestPageHandler(t *testing.T) (*PageHandler, *ResultsHandler) {
	t.Helper()
	results := NewResultsHandler(testutil.SetupTestStore(t), tally.DefaultClasses())
	return NewPageHandler(web.MustLoad(), results, NewVoiceHandler(nil)), results
}

func TestPages(t *testing.T) {
	pages, _ := newTestPageHandler(t)

	testCases := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"home", pages.Home, "投票规则"},
		{"vote", pages.Vote, "七班"},
		{"vote simulated speech", pages.Vote, "220332"},
		{"results", pages.Results, "共 0 票"},
		{"test", pages.Test, "/api/llm/complete"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tc.handler(w, httptest.NewRequest("GET", "/", nil))

			testutil.AssertStatus(t, w, http.StatusOK)
			if !strings.Contains(w.Body.String(), tc.want) {
				t.Errorf("Expected page to contain %q", tc.want)
			}
		})
	}
}

func TestResultsPage_ShowsLeader(t *testing.T) {
	pages, results := newTestPageHandler(t)
	testutil.InsertTestVote(t, results.votes, 4)
	testutil.InsertTestVote(t, results.votes, 4)
	testutil.InsertTestVote(t, results.votes, 2)

	w := httptest.NewRecorder()
	pages.Results(w, httptest.NewRequest("GET", "/results", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "共 3 票") {
		t.Error("Expected total of 3 votes")
	}
	if strings.Count(body, `class="leader"`) != 1 {
		t.Error("Expected exactly one leading class")
	}
	if !strings.Contains(body, `http-equiv="refresh" content="10"`) {
		t.Error("Expected the page to refresh every 10 seconds")
	}
}

func TestResultsPage_StorageFailure(t *testing.T) {
	results := NewResultsHandler(brokenStore{}, tally.DefaultClasses())
	pages := NewPageHandler(web.MustLoad(), results, NewVoiceHandler(nil))

	w := httptest.NewRecorder()
	pages.Results(w, httptest.NewRequest("GET", "/results", nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}
