// Package langdetect partitions text into language-tagged ranges and
// defines the approximate language-code matching rule used for voice
// selection. Detection may be backed by an external recognition service or
// by an in-process statistical detector.
package langdetect

import (
	"errors"
	"strings"
)

// Common errors for detection-service discovery and result decoding. They
// are distinct on purpose; callers need to tell the stages apart.
var (
	ErrNoService        = errors.New("no language detection service found")
	ErrServiceIdentity  = errors.New("incorrect identity for language detection service")
	ErrMultipleServices = errors.New("more than one language detection service found")
	ErrDecodeLanguages  = errors.New("detected language codes were not valid UTF-16")
	ErrNoLanguages      = errors.New("no usable languages configured")
)

// Range is one detected span of the input text. Start and End are inclusive
// UTF-16 code-unit indices. Languages is ordered most-likely first and is
// never empty. Ranges are produced fresh per call; the detector controls
// ordering and overlap, the core does not normalize them.
type Range struct {
	Start     int
	End       int
	Languages []string
}

// Priority returns the rank of code within the range's candidate list under
// EqualLanguageCodes, lowest being most preferred. ok is false when no
// candidate matches.
func (r Range) Priority(code string) (rank int, ok bool) {
	for i, detected := range r.Languages {
		if EqualLanguageCodes(detected, code) {
			return i, true
		}
	}
	return 0, false
}

// Detector recognizes the languages of UTF-16 text.
type Detector interface {
	// Recognize returns the detected ranges for text. A single trailing
	// NUL terminator is stripped before submission if present.
	Recognize(text []uint16) ([]Range, error)
}

const separators = "-_"

func localePrefix(code string) string {
	if i := strings.IndexAny(code, separators); i >= 0 {
		return code[:i]
	}
	return code
}

// EqualLanguageCodes compares two language codes approximately: the locale
// prefixes (text before a "-" or "_") must match, unless both codes carry a
// separator, in which case exact equality is required. So "en" matches
// "en-US", but "en-US" does not match "en-GB".
func EqualLanguageCodes(first, second string) bool {
	if strings.ContainsAny(first, separators) && strings.ContainsAny(second, separators) {
		return first == second
	}
	return localePrefix(first) == localePrefix(second)
}

// HasMultipleLanguages reports whether the codes name more than one
// language under EqualLanguageCodes.
func HasMultipleLanguages(codes []string) bool {
	if len(codes) == 0 {
		return false
	}
	first := codes[0]
	for _, other := range codes[1:] {
		if !EqualLanguageCodes(first, other) {
			return true
		}
	}
	return false
}

// stripTerminator removes a single trailing NUL code unit if present.
func stripTerminator(text []uint16) []uint16 {
	if n := len(text); n > 0 && text[n-1] == 0 {
		return text[:n-1]
	}
	return text
}
