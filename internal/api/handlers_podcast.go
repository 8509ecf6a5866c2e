package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/dgallion1/slidecast/internal/podcast"
)

func (s *Server) handlePodcast(w http.ResponseWriter, r *http.Request) {
	if s.podcast == nil {
		jsonError(w, "speech synthesis is not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := readLimited(r.Body, s.cfg.MaxUploadBytes)
	if errors.Is(err, errTooLarge) {
		jsonError(w, fmt.Sprintf("script exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		jsonError(w, "failed to read script", http.StatusBadRequest)
		return
	}

	script, err := podcast.ParseScript(data, scriptFormat(r.Header.Get("Content-Type")))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(script.Lines) == 0 {
		jsonError(w, "script has no lines", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	chunks, err := s.podcast.Synthesize(ctx, script.Lines)
	if err != nil {
		jsonError(w, "synthesis interrupted: "+err.Error(), http.StatusGatewayTimeout)
		return
	}
	if len(chunks) == 0 {
		jsonError(w, "no lines could be synthesized", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("X-Slidecast-Lines", fmt.Sprint(len(script.Lines)))
	w.Header().Set("X-Slidecast-Chunks", fmt.Sprint(len(chunks)))
	w.Write(podcast.Concat(chunks))
}

// scriptFormat maps a request content type to a script format; anything
// that is not YAML is read as JSON.
func scriptFormat(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if strings.Contains(mediaType, "yaml") {
		return "yaml"
	}
	return "json"
}
