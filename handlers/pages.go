// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/danielhkuo/classvote/middleware"
	"github.com/danielhkuo/classvote/models"
	"github.com/danielhkuo/classvote/tally"
	"github.com/danielhkuo/classvote/voice"
	"github.com/danielhkuo/classvote/web"
)

type PageHandler struct {
	tmpl    *web.Templates
	results *ResultsHandler
	voice   *VoiceHandler
}

func NewPageHandler(tmpl *web.Templates, results *ResultsHandler, voiceHandler *VoiceHandler) *PageHandler {
	return &PageHandler{tmpl: tmpl, results: results, voice: voiceHandler}
}

// Home handles GET /{$}
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.tmpl.Render(w, "home", web.Page{Title: "首页", Active: "home"})
}

// Vote handles GET /vote
func (h *PageHandler) Vote(w http.ResponseWriter, r *http.Request) {
	h.tmpl.Render(w, "vote", web.VotePage{
		Page:         web.Page{Title: "投票", Active: "vote"},
		Classes:      h.results.classes,
		VoiceEnabled: h.voice.remote.Configured(),

		SampleTranscripts: voice.SampleTranscripts,
		SimulateSeconds:   web.SimulateSeconds,
	})
}

// Results handles GET /results
// Server-rendered and reloaded by the browser every ResultsRefresh
func (h *PageHandler) Results(w http.ResponseWriter, r *http.Request) {
	votes, err := h.results.votes.ListAll(r.Context())
	if err != nil {
		middleware.Logger(r.Context()).Error("failed to load votes for results page", "error", err)
		http.Error(w, msgServerError, http.StatusInternalServerError)
		return
	}

	tallies := tally.Aggregate(votes, h.results.classes)
	total := tally.Total(tallies)
	leaders := tally.Leaders(tallies)

	rows := make([]web.ResultRow, len(tallies))
	for i, t := range tallies {
		rows[i] = web.ResultRow{
			ClassTally: t,
			Share:      tally.Share(t.Count, total),
			Leader:     slices.Contains(leaders, t.ClassID),
		}
	}

	h.tmpl.Render(w, "results", web.ResultsPage{
		Page: web.Page{
			Title:          "投票结果",
			Active:         "results",
			RefreshSeconds: int(web.ResultsRefresh / time.Second),
		},
		Rows:       rows,
		Total:      total,
		UpdatedAt:  time.Now(),
		LastVoteAt: lastVote(votes),
	})
}

// Test handles GET /test, the model API test page
func (h *PageHandler) Test(w http.ResponseWriter, r *http.Request) {
	h.tmpl.Render(w, "test", web.Page{Title: "API测试"})
}

func lastVote(votes []models.Vote) time.Time {
	var last time.Time
	for _, v := range votes {
		if v.Timestamp.After(last) {
			last = v.Timestamp
		}
	}
	return last
}
