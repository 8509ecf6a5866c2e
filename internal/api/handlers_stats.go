package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleSpeechStats(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil || s.metrics.Latency == nil {
		jsonError(w, "speech stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"configured": s.podcast != nil,
		"voice_type": s.cfg.Speech.VoiceType,
		"stats":      s.metrics.Latency.Snapshot(),
	})
}
