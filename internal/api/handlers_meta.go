package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	reg := s.orchestrator.Pipeline().Profiles()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"profiles": reg.Names(),
		"count":    reg.Len(),
	})
}

func (s *Server) handleCacheList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.orchestrator.Pipeline().Cache().List()
	if err != nil {
		jsonError(w, "cache list failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"classify":    s.orchestrator.Stats().Snapshot(),
	})
}
