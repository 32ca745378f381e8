// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/classvote/auth"
	"github.com/danielhkuo/classvote/cliparse"
	"github.com/danielhkuo/classvote/middleware"
	"github.com/danielhkuo/classvote/models"
	"github.com/danielhkuo/classvote/store"
)

// User-facing messages
const (
	msgVoteAccepted   = "投票成功"
	msgAlreadyVoted   = "您已经投过票了"
	msgMissingFields  = "缺少必要的投票信息"
	msgInvalidClass   = "班级编号无效，请选择1-7班"
	msgServerError    = "服务器错误，请稍后重试"
	msgWrongPassword  = "密码错误，无法清空投票数据"
	msgVotesCleared   = "投票数据已清空"
	msgClearFailed    = "服务器错误，清空失败"
	msgInvalidRequest = "请求格式错误"
)

type VotingHandler struct {
	votes store.VoteStore
	cfg   cliparse.Config

	// ipSalt keys the client IP hashes in logs; it changes every restart
	ipSalt string
}

func NewVotingHandler(votes store.VoteStore, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{votes: votes, cfg: cfg, ipSalt: uuid.NewString()}
}

// SubmitVote handles POST /api/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r.Context())

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	vote := models.Vote{
		StudentID:   strings.TrimSpace(string(req.StudentID)),
		StudentName: strings.TrimSpace(string(req.StudentName)),
		ClassID:     req.ClassID,
	}
	if req.Timestamp != nil {
		vote.Timestamp = *req.Timestamp
	}

	if vote.StudentID == "" || vote.StudentName == "" || vote.ClassID == 0 {
		middleware.CodeErrorResponse(w, http.StatusBadRequest, models.ErrCodeMissingFields, msgMissingFields)
		return
	}
	if !vote.ClassID.Valid() {
		middleware.CodeErrorResponse(w, http.StatusBadRequest, models.ErrCodeInvalidClass, msgInvalidClass)
		return
	}

	// The store enforces one vote per student; no separate existence check
	saved, err := h.votes.Insert(r.Context(), vote)
	var dup *store.DuplicateVoteError
	if errors.As(err, &dup) {
		log.Info("duplicate vote rejected",
			"student_id", vote.StudentID,
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.ipSalt),
		)
		middleware.JSONResponse(w, http.StatusConflict, models.VoteResponse{
			Message: msgAlreadyVoted,
			Vote:    dup.Existing,
		})
		return
	}
	if err != nil {
		log.Error("failed to insert vote", "error", err, "student_id", vote.StudentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgServerError)
		return
	}

	log.Info("vote accepted",
		"student_id", saved.StudentID,
		"class_id", int(saved.ClassID),
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.ipSalt),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Message: msgVoteAccepted,
		Vote:    saved,
	})
}

// ClearVotes handles POST /api/clear-votes
func (h *VotingHandler) ClearVotes(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r.Context())

	var req models.ClearVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	if err := auth.CheckClearPassword(req.Password, h.cfg.ClearPassword); err != nil {
		log.Warn("clear votes refused",
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.ipSalt),
		)
		middleware.CodeErrorResponse(w, http.StatusUnauthorized, models.ErrCodeUnauthorized, msgWrongPassword)
		return
	}

	if err := h.votes.ClearAll(r.Context()); err != nil {
		log.Error("failed to clear votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgClearFailed)
		return
	}

	log.Warn("all votes cleared",
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.ipSalt),
	)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: msgVotesCleared})
}
