// Command slidecast converts documents into slide decks and narration
// scripts into speech audio from the command line.
//
//	slidecast slides [-format pptx|docx] [-keep] [-out dir] [-theme theme.toml] <file>
//	slidecast speech [-o out.mp3] <script.json|script.yaml>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dgallion1/slidecast/internal/config"
	"github.com/dgallion1/slidecast/internal/export"
	"github.com/dgallion1/slidecast/internal/pipeline"
	"github.com/dgallion1/slidecast/internal/podcast"
	"github.com/dgallion1/slidecast/internal/render"
)

const usage = `usage:
  slidecast slides [-format pptx|docx] [-keep] [-out dir] [-theme theme.toml] <file>
  slidecast speech [-o out.mp3] <script.json|script.yaml>
`

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error("slidecast failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, log *slog.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return flag.ErrHelp
	}

	cfg := config.Load(log)

	switch args[0] {
	case "slides":
		return runSlides(args[1:], cfg, stdout, log)
	case "speech":
		return runSpeech(ctx, args[1:], cfg, stdout, log)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runSlides(args []string, cfg config.Config, stdout io.Writer, log *slog.Logger) error {
	fs := flag.NewFlagSet("slides", flag.ContinueOnError)
	format := fs.String("format", export.Formats[0], "output format ("+strings.Join(export.Formats, ", ")+")")
	keep := fs.Bool("keep", false, "keep the input file after conversion")
	outDir := fs.String("out", cfg.OutputDir, "output directory")
	themeFile := fs.String("theme", cfg.ThemeFile, "TOML theme file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("slides: expected exactly one input file")
	}

	theme := render.DefaultTheme()
	if *themeFile != "" {
		t, err := render.LoadTheme(*themeFile)
		if err != nil {
			return err
		}
		theme = t
	}

	res, err := pipeline.NewSlides(*outDir, theme, log).GenerateFile(fs.Arg(0), pipeline.Options{
		Format:    *format,
		KeepInput: *keep,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Path)
	return nil
}

func runSpeech(ctx context.Context, args []string, cfg config.Config, stdout io.Writer, log *slog.Logger) error {
	fs := flag.NewFlagSet("speech", flag.ContinueOnError)
	out := fs.String("o", "podcast.mp3", "output audio file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("speech: expected exactly one script file")
	}

	// Credentials are checked before the script is read so a misconfigured
	// run never reaches the network.
	driver, err := podcast.NewDriver(cfg.Speech, log)
	if err != nil {
		return err
	}

	script, err := podcast.LoadScript(fs.Arg(0))
	if err != nil {
		return err
	}

	chunks, err := driver.Synthesize(ctx, script.Lines)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no lines could be synthesized")
	}

	if err := os.WriteFile(*out, podcast.Concat(chunks), 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	log.Info("podcast written", "path", *out, "lines", len(script.Lines), "chunks", len(chunks))
	fmt.Fprintln(stdout, *out)
	return nil
}
