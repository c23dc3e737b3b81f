package langdetect

import (
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/log"
	"github.com/pemistahl/lingua-go"
)

// LinguaDetector is the in-process statistical fallback, for environments
// with no system recognition service.
type LinguaDetector struct {
	detector lingua.LanguageDetector

	// single is set instead of detector when only one language is
	// configured. The statistical models need at least two languages to
	// discriminate between; with one there is nothing to detect.
	single string
}

// NewLinguaDetector builds a detector restricted to the requested language
// codes. Locale suffixes like the "US" in "en-US" are ignored; codes that
// name no known language are skipped with a warning.
func NewLinguaDetector(requested []string) (*LinguaDetector, error) {
	var languages []lingua.Language
	for _, code := range requested {
		lang, ok := languageForCode(localePrefix(code))
		if !ok {
			log.Warn("failed to identify language", "code", code)
			continue
		}
		languages = append(languages, lang)
	}
	if len(languages) == 0 {
		return nil, ErrNoLanguages
	}
	if len(languages) == 1 {
		code := strings.ToLower(languages[0].IsoCode639_1().String())
		return &LinguaDetector{single: code}, nil
	}
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}, nil
}

func languageForCode(prefix string) (lingua.Language, bool) {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), prefix) ||
			strings.EqualFold(lang.IsoCode639_3().String(), prefix) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}

// Recognize detects per-section languages and converts the section bounds
// to inclusive UTF-16 code-unit indices. Each range carries exactly one
// candidate language.
func (d *LinguaDetector) Recognize(text []uint16) ([]Range, error) {
	decoded := string(utf16.Decode(stripTerminator(text)))
	if d.single != "" {
		if decoded == "" {
			return nil, nil
		}
		return []Range{{
			Start:     0,
			End:       utf16Len(decoded) - 1,
			Languages: []string{d.single},
		}}, nil
	}
	results := d.detector.DetectMultipleLanguagesOf(decoded)

	detected := make([]Range, 0, len(results))
	for _, res := range results {
		start := utf16Len(decoded[:res.StartIndex()])
		length := utf16Len(decoded[res.StartIndex():res.EndIndex()])
		if length == 0 {
			continue
		}
		detected = append(detected, Range{
			Start:     start,
			End:       start + length - 1,
			Languages: []string{strings.ToLower(res.Language().IsoCode639_1().String())},
		})
	}
	return detected, nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
