// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/mwhite-dev/reelpick/internal/logging"
)

// maxBodyBytes caps request bodies; recommendation requests are small.
const maxBodyBytes = 1 << 20

var validate = validator.New()

func (s *Service) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.Recommend(&req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "recommend_failed", "could not produce a recommendation", err)
		return
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Service) handleBatch(maxCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BatchRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if req.Count > maxCount {
			req.Count = maxCount
		}

		resp, err := s.RecommendBatch(&req)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, "batch_failed", "could not produce recommendations", err)
			return
		}
		respondJSON(w, r, http.StatusOK, resp)
	}
}

func (s *Service) handleReplacement(w http.ResponseWriter, r *http.Request) {
	var req ReplacementRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	resp, err := s.Replacement(&req)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "replacement_failed", err.Error(), err)
		return
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Service) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := s.Feedback(r.Context(), &req); err != nil {
		respondError(w, r, http.StatusInternalServerError, "feedback_failed", "could not record feedback", err)
		return
	}
	respondJSON(w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// decodeRequest unmarshals and validates a JSON body, responding with 400
// on any failure. Returns false when the handler should stop.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_json", "request body is not valid JSON: "+err.Error(), nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", validationMessage(err), nil)
		return false
	}
	return true
}

// validationMessage flattens validator errors into one user-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("api error")
	}
	respondJSON(w, r, status, &ErrorResponse{Error: code, Message: message})
}

// sanitizeLogValue replaces control characters so client-supplied strings
// cannot forge log entries.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			b.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
