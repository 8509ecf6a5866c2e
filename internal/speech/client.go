package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// codeSuccess is the Volcengine status code for a completed synthesis.
const codeSuccess = 3000

// Request is one synthesis call. An empty VoiceType uses the configured voice.
type Request struct {
	Text       string
	SpeedRatio float64
	VoiceType  string
}

// Result carries the base64-encoded audio returned by the service.
type Result struct {
	ReqID     string
	AudioData string
	Duration  string
}

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Result, error)
}

// APIError is a failure reported by the synthesis service itself.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	ReqID      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tts request %s failed: code %d (http %d): %s", e.ReqID, e.Code, e.StatusCode, e.Message)
}

// Client calls the Volcengine HTTP TTS endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	newReqID   func() string
}

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Cluster == "" {
		cfg.Cluster = DefaultCluster
	}
	if cfg.VoiceType == "" {
		cfg.VoiceType = DefaultVoiceType
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		newReqID: uuid.NewString,
	}, nil
}

// VoiceType returns the voice used when a request does not name one.
func (c *Client) VoiceType() string { return c.cfg.VoiceType }

type ttsRequest struct {
	App     ttsApp     `json:"app"`
	User    ttsUser    `json:"user"`
	Audio   ttsAudio   `json:"audio"`
	Request ttsPayload `json:"request"`
}

type ttsApp struct {
	AppID   string `json:"appid"`
	Token   string `json:"token"`
	Cluster string `json:"cluster"`
}

type ttsUser struct {
	UID string `json:"uid"`
}

type ttsAudio struct {
	VoiceType   string  `json:"voice_type"`
	Encoding    string  `json:"encoding"`
	SpeedRatio  float64 `json:"speed_ratio"`
	VolumeRatio float64 `json:"volume_ratio"`
	PitchRatio  float64 `json:"pitch_ratio"`
}

type ttsPayload struct {
	ReqID        string `json:"reqid"`
	Text         string `json:"text"`
	TextType     string `json:"text_type"`
	Operation    string `json:"operation"`
	WithFrontend int    `json:"with_frontend"`
	FrontendType string `json:"frontend_type"`
}

type ttsResponse struct {
	ReqID    string `json:"reqid"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Data     string `json:"data"`
	Addition struct {
		Duration string `json:"duration"`
	} `json:"addition"`
}

// Synthesize sends one text to the service and returns its audio payload
// still base64-encoded.
func (c *Client) Synthesize(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, fmt.Errorf("synthesize: empty text")
	}
	voice := req.VoiceType
	if voice == "" {
		voice = c.cfg.VoiceType
	}
	speed := req.SpeedRatio
	if speed <= 0 {
		speed = 1.0
	}

	reqID := c.newReqID()
	body, err := json.Marshal(ttsRequest{
		App:  ttsApp{AppID: c.cfg.AppID, Token: c.cfg.AccessToken, Cluster: c.cfg.Cluster},
		User: ttsUser{UID: "slidecast"},
		Audio: ttsAudio{
			VoiceType:   voice,
			Encoding:    "mp3",
			SpeedRatio:  speed,
			VolumeRatio: 1.0,
			PitchRatio:  1.0,
		},
		Request: ttsPayload{
			ReqID:        reqID,
			Text:         req.Text,
			TextType:     "plain",
			Operation:    "query",
			WithFrontend: 1,
			FrontendType: "unitTson",
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal tts request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The service expects "Bearer;<token>", not the usual space.
	httpReq.Header.Set("Authorization", "Bearer;"+c.cfg.AccessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("tts request %s: %w", reqID, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read tts response: %w", err)
	}

	var out ttsResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Result{}, fmt.Errorf("tts request %s: status %d: %s", reqID, resp.StatusCode, truncate(respBody, 1024))
		}
		return Result{}, fmt.Errorf("decode tts response: %w", err)
	}
	if out.ReqID == "" {
		out.ReqID = reqID
	}
	if resp.StatusCode != http.StatusOK || out.Code != codeSuccess {
		return Result{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       out.Code,
			Message:    out.Message,
			ReqID:      out.ReqID,
		}
	}
	if out.Data == "" {
		return Result{}, fmt.Errorf("tts request %s: empty audio data", out.ReqID)
	}

	return Result{
		ReqID:     out.ReqID,
		AudioData: out.Data,
		Duration:  out.Addition.Duration,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
