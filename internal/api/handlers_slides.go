package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/slidecast/internal/parser"
	"github.com/dgallion1/slidecast/internal/pipeline"
	"github.com/google/uuid"
)

// defaultUploadName is used for raw-body uploads that carry no filename.
const defaultUploadName = "upload.md"

var errTooLarge = errors.New("upload too large")

func (s *Server) handleParseSlides(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	d, err := s.slides.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

func (s *Server) handleGenerateSlides(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	d, err := s.slides.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// Encode into memory so a failure can still be reported as JSON.
	var buf bytes.Buffer
	enc, err := s.slides.Encode(&buf, d, r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := pipeline.OutputPrefix + uuid.NewString() + enc.Extension()
	s.log.Info("presentation generated",
		"source", filename,
		"output", name,
		"slides", d.Len(),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("X-Slidecast-Slides", fmt.Sprint(d.Len()))
	w.Write(buf.Bytes())
}

// readUpload accepts either a multipart form with a "file" field or a raw
// request body named by the "filename" query parameter. On failure it has
// already written the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	var (
		src      io.Reader
		filename string
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return nil, "", false
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return nil, "", false
		}
		defer file.Close()
		src = file
		filename = sanitizeFilename(header.Filename)
	} else {
		src = r.Body
		filename = r.URL.Query().Get("filename")
		if filename == "" {
			filename = defaultUploadName
		}
		filename = sanitizeFilename(filename)
	}

	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", false
	}

	data, err := readLimited(src, s.cfg.MaxUploadBytes)
	if errors.Is(err, errTooLarge) {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	if err != nil {
		jsonError(w, "failed to read file", http.StatusBadRequest)
		return nil, "", false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		jsonError(w, "empty document", http.StatusBadRequest)
		return nil, "", false
	}
	return data, filename, true
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errTooLarge
		}
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
