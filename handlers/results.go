// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/classvote/middleware"
	"github.com/danielhkuo/classvote/models"
	"github.com/danielhkuo/classvote/store"
	"github.com/danielhkuo/classvote/tally"
)

type ResultsHandler struct {
	votes   store.VoteStore
	classes []models.ClassInfo
}

func NewResultsHandler(votes store.VoteStore, classes []models.ClassInfo) *ResultsHandler {
	return &ResultsHandler{votes: votes, classes: classes}
}

// GetResults handles GET /api/results
// Returns one tally per class, in class order, including zero counts
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	tallies, err := h.compute(r.Context())
	if err != nil {
		middleware.Logger(r.Context()).Error("failed to compute results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgServerError)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tallies)
}

func (h *ResultsHandler) compute(ctx context.Context) ([]models.ClassTally, error) {
	votes, err := h.votes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return tally.Aggregate(votes, h.classes), nil
}
