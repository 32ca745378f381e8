// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/classvote/cliparse"
	"github.com/danielhkuo/classvote/handlers"
	"github.com/danielhkuo/classvote/middleware"
	"github.com/danielhkuo/classvote/store"
	"github.com/danielhkuo/classvote/tally"
	"github.com/danielhkuo/classvote/voice"
	"github.com/danielhkuo/classvote/web"
)

// NewRouter wires every endpoint. remote may be nil when no model is
// configured.
func NewRouter(votes store.VoteStore, remote *voice.RemoteParser, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(votes, cfg)
	resultsHandler := handlers.NewResultsHandler(votes, tally.DefaultClasses())
	voiceHandler := handlers.NewVoiceHandler(remote)
	pageHandler := handlers.NewPageHandler(web.MustLoad(), resultsHandler, voiceHandler)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Ballots
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("POST /api/clear-votes", middleware.WithLogging(votingHandler.ClearVotes))
	mux.HandleFunc("GET /api/results", middleware.WithLogging(resultsHandler.GetResults))

	// Speech transcripts
	mux.HandleFunc("POST /api/voice/parse", middleware.WithLogging(voiceHandler.ParseVoice))
	mux.HandleFunc("GET /api/voice/status", middleware.WithLogging(voiceHandler.Status))
	mux.HandleFunc("POST /api/llm/complete", middleware.WithLogging(voiceHandler.Complete))

	// Pages
	mux.HandleFunc("GET /{$}", middleware.WithLogging(pageHandler.Home))
	mux.HandleFunc("GET /vote", middleware.WithLogging(pageHandler.Vote))
	mux.HandleFunc("GET /results", middleware.WithLogging(pageHandler.Results))
	mux.HandleFunc("GET /test", middleware.WithLogging(pageHandler.Test))

	return mux
}
