package podcast

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/slidecast/internal/speech"
)

// SpeedRatio is applied to every line.
const SpeedRatio = 1.05

// VoiceSelector picks a voice type for a speaker. Drivers leave it nil and
// use the configured voice for every line; an empty return does the same.
type VoiceSelector func(Speaker) string

// Observer receives one call per synthesis attempt.
type Observer interface {
	ObserveLine(ok bool, d time.Duration)
}

type Driver struct {
	synth speech.Synthesizer
	log   *slog.Logger

	VoiceSelector VoiceSelector
	Observer      Observer
}

// NewDriver validates cfg and builds a driver backed by the Volcengine
// client. Configuration errors are returned before any request is made.
func NewDriver(cfg speech.Config, log *slog.Logger) (*Driver, error) {
	client, err := speech.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create tts client: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log.Info("tts client ready", "voice_type", client.VoiceType(), "cluster", cfg.Cluster)
	return NewDriverWithSynthesizer(client, log), nil
}

func NewDriverWithSynthesizer(s speech.Synthesizer, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Driver{synth: s, log: log}
}

// Synthesize runs every line through the synthesizer in order and returns
// one decoded chunk per successful line. Failed lines are logged and
// skipped. If ctx is cancelled the chunks collected so far are returned
// with the context error.
func (d *Driver) Synthesize(ctx context.Context, lines []Line) ([][]byte, error) {
	d.log.Info("generating audio chunks", "lines", len(lines))

	chunks := make([][]byte, 0, len(lines))
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return chunks, err
		}

		req := speech.Request{Text: line.Paragraph, SpeedRatio: SpeedRatio}
		if d.VoiceSelector != nil {
			req.VoiceType = d.VoiceSelector(line.Speaker)
		}

		start := time.Now()
		audio, err := d.synthesizeLine(ctx, req)
		if d.Observer != nil {
			d.Observer.ObserveLine(err == nil, time.Since(start))
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return chunks, ctxErr
			}
			d.log.Error("synthesize line failed", "line", i+1, "speaker", line.Speaker, "error", err)
			continue
		}
		chunks = append(chunks, audio)
	}

	d.log.Info("audio chunks generated", "lines", len(lines), "chunks", len(chunks))
	return chunks, nil
}

func (d *Driver) synthesizeLine(ctx context.Context, req speech.Request) ([]byte, error) {
	res, err := d.synth.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	audio, err := base64.StdEncoding.DecodeString(res.AudioData)
	if err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", res.ReqID, err)
	}
	return audio, nil
}

// Concat joins MP3 chunks into a single stream.
func Concat(chunks [][]byte) []byte {
	return bytes.Join(chunks, nil)
}
