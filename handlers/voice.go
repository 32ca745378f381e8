// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/classvote/llm"
	"github.com/danielhkuo/classvote/middleware"
	"github.com/danielhkuo/classvote/models"
	"github.com/danielhkuo/classvote/voice"
)

// ModeLocal skips the remote parser for a single request
const ModeLocal = "local"

type VoiceHandler struct {
	remote *voice.RemoteParser
}

// NewVoiceHandler creates the voice endpoints. remote may be nil or
// unconfigured, in which case every transcript is parsed locally.
func NewVoiceHandler(remote *voice.RemoteParser) *VoiceHandler {
	return &VoiceHandler{remote: remote}
}

// ParseVoice handles POST /api/voice/parse
// Tries the remote parser first and falls back to the local one when the
// remote path fails as a whole. Always 200 with a ParsedVoiceResult.
func (h *VoiceHandler) ParseVoice(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r.Context())

	var req models.ParseVoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	if r.URL.Query().Get("mode") != ModeLocal && h.remote.Configured() {
		result, err := h.remote.Parse(r.Context(), text)
		if err == nil {
			log.Info("transcript parsed", "source", result.Source, "error_code", result.Error)
			middleware.JSONResponse(w, http.StatusOK, result)
			return
		}

		code := models.ErrCodeRemoteUnavailable
		var remoteErr *voice.RemoteError
		if errors.As(err, &remoteErr) {
			code = remoteErr.Code()
		}
		log.Warn("remote parser failed, using local parser", "error", err, "code", code)
	}

	result := voice.Parse(text)
	log.Info("transcript parsed", "source", result.Source, "error_code", result.Error)
	middleware.JSONResponse(w, http.StatusOK, result)
}

// Status handles GET /api/voice/status
func (h *VoiceHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.VoiceStatusResponse{
		Status:        "ok",
		APIConfigured: h.remote.Configured(),
		Provider:      h.remote.ProviderName(),
		Model:         h.remote.Model(),
	})
}

// Complete handles POST /api/llm/complete
// Sends a raw prompt to the model; used by the API test page
func (h *VoiceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r.Context())

	var req models.CompleteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prompt is required")
		return
	}

	if !h.remote.Configured() {
		middleware.CodeErrorResponse(w, http.StatusServiceUnavailable,
			models.ErrCodeRemoteUnavailable, "未配置语言模型API密钥")
		return
	}

	text, err := h.remote.Complete(r.Context(), req.Prompt)
	if err != nil {
		log.Warn("completion failed", "error", err, "upstream_status", llm.StatusCode(err))
		code := models.ErrCodeRemoteUnavailable
		var remoteErr *voice.RemoteError
		if errors.As(err, &remoteErr) {
			code = remoteErr.Code()
		}
		middleware.CodeErrorResponse(w, http.StatusBadGateway, code, voice.Message(code))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CompleteResponse{Text: text})
}
