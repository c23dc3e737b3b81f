package langdetect

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/google/uuid"
)

// LanguageDetectionServiceID identifies the text-recognition service class
// this adapter expects to find in the catalog.
var LanguageDetectionServiceID = uuid.MustParse("CF7E00B1-909B-4D95-A8F4-611F7C377FD3")

// ServiceInfo describes a recognition service offered by the catalog.
type ServiceInfo struct {
	ID          uuid.UUID
	Description string
}

// RawRange is a recognition result as delivered by a service: inclusive
// UTF-16 code-unit bounds and the service's raw language payload. The
// payload is UTF-16LE encoded, NUL separated between codes, and terminated
// by a double NUL.
type RawRange struct {
	Start int
	End   int
	Data  []byte
}

// RecognizerService is one concrete recognition service.
type RecognizerService interface {
	Info() ServiceInfo
	RecognizeText(text []uint16) ([]RawRange, error)
}

// Catalog enumerates the recognition services available for a service
// class. Backed by an OS facility in production; the core is agnostic.
type Catalog interface {
	Services(class uuid.UUID) ([]RecognizerService, error)
}

// SystemDetector adapts a catalog-provided recognition service to the
// Detector interface.
type SystemDetector struct {
	service RecognizerService
}

// NewSystemDetector discovers the language detection service in the
// catalog. Discovery anomalies are reported as distinct errors: no match,
// an identity mismatch, and more than one match are different failures.
func NewSystemDetector(cat Catalog) (*SystemDetector, error) {
	services, err := cat.Services(LanguageDetectionServiceID)
	if err != nil {
		return nil, fmt.Errorf("enumerating detection services: %w", err)
	}
	if len(services) == 0 {
		return nil, ErrNoService
	}
	if services[0].Info().ID != LanguageDetectionServiceID {
		return nil, ErrServiceIdentity
	}
	if len(services) != 1 {
		return nil, ErrMultipleServices
	}
	return &SystemDetector{service: services[0]}, nil
}

// Recognize submits text to the detection service and decodes its results.
func (d *SystemDetector) Recognize(text []uint16) ([]Range, error) {
	raw, err := d.service.RecognizeText(stripTerminator(text))
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	detected := make([]Range, 0, len(raw))
	for _, r := range raw {
		languages, err := decodeLanguagePayload(r.Data)
		if err != nil {
			return nil, err
		}
		detected = append(detected, Range{
			Start:     r.Start,
			End:       r.End,
			Languages: languages,
		})
	}
	return detected, nil
}

// decodeLanguagePayload splits a service's raw payload into language code
// strings. The payload ends with two NUL code units with one NUL between
// every two codes.
func decodeLanguagePayload(data []byte) ([]string, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd payload length %d", ErrDecodeLanguages, len(data))
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	if n := len(units); n == 0 || units[n-1] != 0 {
		return nil, fmt.Errorf("%w: missing trailing terminator", ErrDecodeLanguages)
	}
	units = units[:len(units)-1]

	var languages []string
	for len(units) > 0 {
		run := units
		if i := indexOfZero(units); i >= 0 {
			run = units[:i]
			units = units[i+1:]
		} else {
			units = nil
		}
		if len(run) == 0 {
			continue
		}
		code, err := decodeUTF16(run)
		if err != nil {
			return nil, err
		}
		languages = append(languages, code)
	}
	return languages, nil
}

func indexOfZero(units []uint16) int {
	for i, u := range units {
		if u == 0 {
			return i
		}
	}
	return -1
}

// decodeUTF16 decodes code units into a string, rejecting unpaired
// surrogates instead of substituting replacement characters.
func decodeUTF16(units []uint16) (string, error) {
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if !utf16.IsSurrogate(r) {
			continue
		}
		if i+1 < len(units) && utf16.DecodeRune(r, rune(units[i+1])) != 0xFFFD {
			i++
			continue
		}
		return "", fmt.Errorf("%w: unpaired surrogate 0x%04X at index %d", ErrDecodeLanguages, units[i], i)
	}
	return string(utf16.Decode(units)), nil
}
