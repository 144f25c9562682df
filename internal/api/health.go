// Reelpick - Personal Movie Recommendation Engine
// Copyright 2026 M. White (mwhite-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwhite-dev/reelpick

package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status  string        `json:"status"`
	Catalog catalogHealth `json:"catalog"`
	Learner string        `json:"learner"`
}

type catalogHealth struct {
	Entries  int       `json:"entries"`
	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// handleHealth reports overall status. Degraded means the service is up but
// the catalog has never loaded, so every recommendation would stop empty.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Learner: "running"}

	if snap := s.catalog.Current(); snap != nil {
		resp.Catalog = catalogHealth{
			Entries:  len(snap.Movies),
			Source:   snap.Source,
			LoadedAt: snap.LoadedAt,
		}
	} else {
		resp.Status = "degraded"
	}
	if !s.learnerRunning() {
		resp.Status = "degraded"
		resp.Learner = "stopped"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, r, status, resp)
}

// handleHealthLive answers as long as the process serves requests.
func (s *Service) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHealthReady gates on the catalog and the learner pipeline.
func (s *Service) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	if s.catalog.Current() == nil || !s.learnerRunning() {
		respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Service) learnerRunning() bool {
	select {
	case <-s.feedback.Running():
		return true
	default:
		return false
	}
}
