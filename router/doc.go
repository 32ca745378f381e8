// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the class vote server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(votes, remoteParser, cfg)

# Endpoints

Health:

	GET /health

Ballots:

	POST /api/vote        - Submit a vote (201, 409 on a second vote)
	POST /api/clear-votes - Delete every vote (password required)
	GET  /api/results     - Per-class counts, all seven classes

Speech transcripts:

	POST /api/voice/parse   - Transcript to structured vote (?mode=local skips the model)
	GET  /api/voice/status  - Whether a language model is configured
	POST /api/llm/complete  - Raw completion, used by the test page

Pages:

	GET /         - Rules and links
	GET /vote     - Vote form with speech input
	GET /results  - Live results, reloads every 10 seconds
	GET /test     - Model API test page

Anything else is 404; a known path with the wrong method is 405.

# Handler Initialization

All handlers share the same VoteStore, so the backend chosen by
configuration serves every route.
*/
package router
