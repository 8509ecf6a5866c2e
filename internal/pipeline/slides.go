// Package pipeline wires the slide stages together: parse a source file,
// lay the slides out and encode the presentation to disk.
package pipeline

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/slidecast/internal/deck"
	"github.com/dgallion1/slidecast/internal/export"
	"github.com/dgallion1/slidecast/internal/parser"
	"github.com/dgallion1/slidecast/internal/render"
	"github.com/google/uuid"
)

// OutputPrefix starts every generated file name.
const OutputPrefix = "generated_ppt_"

// Observer receives one call per written presentation.
type Observer interface {
	ObserveDeck(format string, slides int)
}

// Options controls a single file conversion.
type Options struct {
	// Format is an export format name; empty means pptx.
	Format string
	// KeepInput leaves the source file in place after success.
	KeepInput bool
}

// Result describes a generated presentation.
type Result struct {
	Path      string
	Format    string
	Slides    int
	InputHash string
	Deck      *deck.Deck
}

// Slides converts documents into presentation files. It holds no per-run
// state and is safe for concurrent use.
type Slides struct {
	OutputDir string
	Observer  Observer

	renderer *render.Renderer
	log      *slog.Logger
	newID    func() string
}

func NewSlides(outputDir string, theme render.Theme, log *slog.Logger) *Slides {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if outputDir == "" {
		outputDir = "."
	}
	return &Slides{
		OutputDir: outputDir,
		renderer:  render.New(theme, log),
		log:       log,
		newID:     uuid.NewString,
	}
}

// Parse reads a document into slide records using the parser registered for
// the file's extension.
func (s *Slides) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	p, err := parser.ForFile(filename, s.log)
	if err != nil {
		return nil, err
	}
	d, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return d, nil
}

// Encode lays out d and writes it to w in the given format.
func (s *Slides) Encode(w io.Writer, d *deck.Deck, format string) (export.Encoder, error) {
	enc, err := export.ForFormat(format, s.log)
	if err != nil {
		return nil, err
	}
	pres := s.renderer.Render(d)
	if err := enc.Encode(w, pres); err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Extension(), err)
	}
	if s.Observer != nil {
		s.Observer.ObserveDeck(formatName(enc), len(pres.Pages))
	}
	return enc, nil
}

// GenerateFile converts the document at inputPath into a uniquely named
// presentation in OutputDir. The input is deleted only after the output is
// fully written, unless opts.KeepInput is set; a failed delete is logged.
func (s *Slides) GenerateFile(inputPath string, opts Options) (*Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	log := s.log.With("input", inputPath)

	d, err := s.Parse(bytes.NewReader(data), filepath.Base(inputPath))
	if err != nil {
		return nil, err
	}
	log.Info("document parsed", "slides", d.Len())

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.OutputDir, ".slidecast-*")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	enc, err := s.Encode(tmp, d, opts.Format)
	if err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close output: %w", err)
	}

	outPath := filepath.Join(s.OutputDir, OutputPrefix+s.newID()+enc.Extension())
	if err := os.Rename(tmpPath, outPath); err != nil {
		return nil, fmt.Errorf("move output into place: %w", err)
	}

	hash := contentHashHex(data)
	log.Info("presentation generated", "output", outPath, "slides", d.Len(), "sha256", hash[:16])

	if !opts.KeepInput {
		if err := os.Remove(inputPath); err != nil {
			log.Warn("failed to remove input file", "error", err)
		}
	}

	return &Result{
		Path:      outPath,
		Format:    formatName(enc),
		Slides:    d.Len(),
		InputHash: hash,
		Deck:      d,
	}, nil
}

func formatName(enc export.Encoder) string {
	return enc.Extension()[1:]
}

func contentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
