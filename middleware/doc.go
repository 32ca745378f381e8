// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Every request gets an id (a UUID, or the client's X-Request-ID if it sent
one) which is returned in the X-Request-ID response header. One line is
logged per request with method, path, status and duration_ms; 5xx
responses log at error level.

Handlers log through the request-scoped logger so their lines carry the
same id:

	middleware.Logger(r.Context()).Warn("remote parser failed", "error", err)

# Panic Recovery

	server := http.Server{
		Handler: middleware.Recover(middleware.CORS(mux)),
	}

# CORS Middleware

Allows GET, POST and OPTIONS from any origin. Preflight requests are
answered with 204 without reaching the handler.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodeErrorResponse(w, http.StatusBadRequest, models.ErrCodeInvalidClass, "message")

ErrorResponse puts the HTTP status text in the error field;
CodeErrorResponse puts a machine-readable code there instead.

Parse JSON request bodies (capped at 1 MiB):

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Only a salted hash of it is ever logged.
*/
package middleware
