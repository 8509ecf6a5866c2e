package export

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/render"
)

// Encoder writes a rendered presentation in one file format.
type Encoder interface {
	Encode(w io.Writer, p *render.Presentation) error
	Extension() string
	ContentType() string
}

// Formats lists the accepted format names.
var Formats = []string{"pptx", "docx"}

// ForFormat returns the encoder for a format name. Empty means pptx.
func ForFormat(format string, log *slog.Logger) (Encoder, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "pptx":
		return &PPTXEncoder{Log: log}, nil
	case "docx":
		return &DOCXEncoder{Log: log}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}
