package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/slidecast/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Slides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := filepath.Join(dir, "deck.md")
	require.NoError(t, os.WriteFile(input, []byte("# Hello\n\n---\n\n## Next\n- a\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	var stdout bytes.Buffer
	err := run(context.Background(), []string{"slides", "-out", outDir, input}, &stdout, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	path := strings.TrimSpace(stdout.String())
	assert.Equal(t, outDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "generated_ppt_"))
	assert.FileExists(t, path)
	assert.NoFileExists(t, input)
}

func TestRun_SpeechRequiresCredentials(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("VOLCENGINE_TTS_APPID", "")
	t.Setenv("VOLCENGINE_TTS_ACCESS_TOKEN", "")

	script := filepath.Join(dir, "script.json")
	require.NoError(t, os.WriteFile(script, []byte(`{"lines":[{"speaker":"male","paragraph":"hi"}]}`), 0o644))

	err := run(context.Background(), []string{"speech", "-o", filepath.Join(dir, "out.mp3"), script}, &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, speech.ErrMissingAppID)
	assert.NoFileExists(t, filepath.Join(dir, "out.mp3"))
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	err := run(context.Background(), []string{"render"}, &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
