// Package podcast turns a narration script into audio by synthesizing each
// line in order and collecting the decoded chunks.
package podcast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Speaker string

const (
	SpeakerMale   Speaker = "male"
	SpeakerFemale Speaker = "female"
)

func (s Speaker) Valid() bool {
	return s == SpeakerMale || s == SpeakerFemale
}

// Line is one attributed unit of narration.
type Line struct {
	Speaker   Speaker `json:"speaker" yaml:"speaker"`
	Paragraph string  `json:"paragraph" yaml:"paragraph"`
}

type Script struct {
	Lines []Line `json:"lines" yaml:"lines"`
}

// Validate rejects unknown speakers. Empty paragraphs are allowed and fail
// individually at synthesis time.
func (s *Script) Validate() error {
	for i, l := range s.Lines {
		if !l.Speaker.Valid() {
			return fmt.Errorf("line %d: unknown speaker %q", i+1, l.Speaker)
		}
	}
	return nil
}

// ParseScript decodes a script in the given format ("json" or "yaml").
func ParseScript(data []byte, format string) (*Script, error) {
	var s Script
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode json script: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode yaml script: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported script format: %s", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a .json, .yaml or .yml script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data, filepath.Ext(path))
}
