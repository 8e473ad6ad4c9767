// Package language guesses the language of guest messages
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/pkg/errors"
)

// DefaultCode is used whenever detection fails
const DefaultCode = "en"

// ErrUndetermined is returned when no language can be inferred with confidence
var ErrUndetermined = errors.New("language could not be determined")

// Detector returns a best-guess ISO 639-1 code for a text
type Detector interface {
	Detect(text string) (string, error)
}

// DetectorFunc adapts a function to the Detector interface
type DetectorFunc func(text string) (string, error)

// Detect calls f
func (f DetectorFunc) Detect(text string) (string, error) {
	return f(text)
}

// WhatlangDetector detects languages using trigram statistics
type WhatlangDetector struct {
	// RequireReliable rejects guesses whatlanggo does not consider reliable
	RequireReliable bool
}

// NewWhatlangDetector creates a detector that only accepts reliable guesses
func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{RequireReliable: true}
}

// Detect implements Detector
func (d *WhatlangDetector) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrUndetermined
	}

	info := whatlanggo.Detect(text)
	if d.RequireReliable && !info.IsReliable() {
		return "", ErrUndetermined
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return "", ErrUndetermined
	}

	return code, nil
}

// DetectOrDefault runs the detector and falls back to DefaultCode on any failure
func DetectOrDefault(d Detector, text string) string {
	if d == nil {
		return DefaultCode
	}

	code, err := d.Detect(text)
	if err != nil || code == "" {
		return DefaultCode
	}

	return code
}
