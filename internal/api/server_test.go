package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/slidecast/internal/config"
	"github.com/dgallion1/slidecast/internal/deck"
	"github.com/dgallion1/slidecast/internal/metrics"
	"github.com/dgallion1/slidecast/internal/pipeline"
	"github.com/dgallion1/slidecast/internal/podcast"
	"github.com/dgallion1/slidecast/internal/render"
	"github.com/dgallion1/slidecast/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey   = "test-key"
	sampleDoc = "# A\n- x\n- y\n\n---\n\n## B\n\n| h1 | h2 |\n|---|---|\n| 1 | 2 |\n"
)

type echoSynth struct{}

func (echoSynth) Synthesize(_ context.Context, req speech.Request) (speech.Result, error) {
	if req.Text == "fail" {
		return speech.Result{}, &speech.APIError{Code: 3050, Message: "rejected"}
	}
	return speech.Result{AudioData: base64.StdEncoding.EncodeToString([]byte(req.Text))}, nil
}

func newTestServer(t *testing.T, withSpeech bool) *Server {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	cfg := config.Config{
		APIKey:         testKey,
		MaxUploadBytes: 1024,
		RequestTimeout: 5 * time.Second,
		Speech:         speech.Config{VoiceType: speech.DefaultVoiceType},
	}
	m := metrics.New()
	slides := pipeline.NewSlides(t.TempDir(), render.DefaultTheme(), log)
	slides.Observer = m

	var driver *podcast.Driver
	if withSpeech {
		driver = podcast.NewDriverWithSynthesizer(echoSynth{}, log)
		driver.Observer = m
	}
	return NewServer(slides, driver, m, log, cfg)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+testKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/slides/parse", strings.NewReader(sampleDoc)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/slides/parse", strings.NewReader(sampleDoc))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid api key")
}

func TestParseSlides_RawBody(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/slides/parse", strings.NewReader(sampleDoc)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var d deck.Deck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.Len(t, d.Slides, 2)
	assert.Equal(t, "A", d.Slides[0].Title)
	assert.Equal(t, []string{"x", "y"}, d.Slides[0].Bullets)
	require.NotNil(t, d.Slides[1].Table)
	assert.Equal(t, []string{"h1", "h2"}, d.Slides[1].Table.Headers)
	assert.Equal(t, [][]string{{"1", "2"}}, d.Slides[1].Table.Rows)
}

func TestGenerateSlides_Multipart(t *testing.T) {
	s := newTestServer(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "../../talk.md")
	require.NoError(t, err)
	fw.Write([]byte(sampleDoc))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/slides", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), pipeline.OutputPrefix)
	assert.Equal(t, "2", rec.Header().Get("X-Slidecast-Slides"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "expected a zip payload")

	mrec := httptest.NewRecorder()
	s.ServeHTTP(mrec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, mrec.Body.String(), `slidecast_decks_generated_total{format="pptx"} 1`)
}

func TestGenerateSlides_DOCX(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/slides?format=docx&filename=talk.md", strings.NewReader(sampleDoc)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".docx")
}

func TestGenerateSlides_Errors(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		target string
		body   string
		want   int
		msg    string
	}{
		{"bad format", "/api/slides?format=odp", sampleDoc, http.StatusBadRequest, "supported: pptx, docx"},
		{"bad extension", "/api/slides?filename=notes.exe", sampleDoc, http.StatusBadRequest, "unsupported file type"},
		{"empty body", "/api/slides", "   ", http.StatusBadRequest, "empty"},
		{"too large", "/api/slides", strings.Repeat("a", 2048), http.StatusRequestEntityTooLarge, "max size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestPodcast_NotConfigured(t *testing.T) {
	s := newTestServer(t, false)
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader(`{"lines":[{"speaker":"male","paragraph":"hi"}]}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPodcast_SkipsFailedLines(t *testing.T) {
	s := newTestServer(t, true)
	script := `{"lines":[
		{"speaker":"male","paragraph":"ab"},
		{"speaker":"female","paragraph":"fail"},
		{"speaker":"female","paragraph":"cd"}
	]}`
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader(script)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "3", rec.Header().Get("X-Slidecast-Lines"))
	assert.Equal(t, "2", rec.Header().Get("X-Slidecast-Chunks"))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "abcd", string(body))

	srec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/stats/speech", nil))
	require.Equal(t, http.StatusOK, srec.Code)
	var stats struct {
		Configured bool `json:"configured"`
		Stats      struct {
			Count  int `json:"count"`
			Failed int `json:"failed"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(srec.Body.Bytes(), &stats))
	assert.True(t, stats.Configured)
	assert.Equal(t, 3, stats.Stats.Count)
	assert.Equal(t, 1, stats.Stats.Failed)
}

func TestPodcast_YAMLAndValidation(t *testing.T) {
	s := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader("lines:\n  - speaker: male\n    paragraph: yo\n"))
	req.Header.Set("Content-Type", "application/yaml")
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "yo", rec.Body.String())

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader(`{"lines":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader(`{"lines":[{"speaker":"fail","paragraph":"x"}]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader(`{"lines":[{"speaker":"male","paragraph":"fail"}]}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPodcast_DeadlineInterruptsSynthesis(t *testing.T) {
	release := make(chan struct{})
	tts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(tts.Close)
	t.Cleanup(func() { close(release) })

	log := slog.New(slog.DiscardHandler)
	cfg := config.Config{
		APIKey:         testKey,
		MaxUploadBytes: 1024,
		RequestTimeout: 50 * time.Millisecond,
		Speech: speech.Config{
			AppID:       "app",
			AccessToken: "token",
			Cluster:     speech.DefaultCluster,
			VoiceType:   speech.DefaultVoiceType,
			Endpoint:    tts.URL,
			Timeout:     10 * time.Second,
		},
	}
	driver, err := podcast.NewDriver(cfg.Speech, log)
	require.NoError(t, err)
	s := NewServer(pipeline.NewSlides(t.TempDir(), render.DefaultTheme(), log), driver, metrics.New(), log, cfg)

	start := time.Now()
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/podcast", strings.NewReader(`{"lines":[{"speaker":"male","paragraph":"hello"}]}`)))
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Equal(t, http.StatusGatewayTimeout, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "deadline exceeded")
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"talk.md":          "talk.md",
		"../../etc/passwd": "passwd",
		"":                 "unnamed",
		"a..b.md":          "a_b.md",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
