// Package engine implements the multilingual streaming synthesis engine:
// per input it partitions the text into language ranges, picks the best
// voice per range and streams the synthesized audio to the host's sink in
// bounded chunks while cooperatively polling for control actions.
package engine

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/charmbracelet/log"
	"github.com/polyvox/polyvox/sapi"
	"github.com/polyvox/polyvox/sapi/langdetect"
	"github.com/polyvox/polyvox/sapi/voices"
)

// MaxWriteChunk is the engine's maximum write unit: no single sink write
// offers more than this many bytes, which also bounds how stale a polled
// action flag can be.
const MaxWriteChunk = 4096

// ErrRangeBounds reports a detected range that exceeds the input text.
var ErrRangeBounds = errors.New("detected range exceeds text bounds")

// Engine is the synthesis logic hosted behind the sapi shell. It is driven
// by one goroutine at a time; the only shared state is the provider's model
// cache, which the provider guards itself.
type Engine struct {
	detector langdetect.Detector
	provider voices.Provider
	format   sapi.WaveFormat
}

// Option configures an Engine.
type Option func(*Engine)

// WithWaveFormat overrides the engine's canonical output format.
func WithWaveFormat(f sapi.WaveFormat) Option {
	return func(e *Engine) { e.format = f }
}

// New creates an engine over the given detection and voice collaborators.
func New(detector langdetect.Detector, provider voices.Provider, opts ...Option) *Engine {
	e := &Engine{
		detector: detector,
		provider: provider,
		format:   sapi.DefaultWaveFormat(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetObjectToken records the voice token. The engine reads nothing from it
// today but the hook is part of the hosted surface.
func (e *Engine) SetObjectToken(tok *sapi.ObjectToken) error {
	log.Debug("engine received object token", "voice", tok.LongName)
	return nil
}

// OutputFormat negotiates the output format: debug text is passed through,
// everything else gets the engine's fixed waveform.
func (e *Engine) OutputFormat(tok *sapi.ObjectToken, target *sapi.SpeechFormat) (sapi.SpeechFormat, error) {
	negotiated := sapi.NegotiateFormat(target, e.format)
	log.Debug("negotiated output format", "requested", target, "format", negotiated)
	return negotiated, nil
}

// Speak synthesizes the fragment list to the sink. Each detected language
// range is processed independently: voice selection, rate and volume
// application, then chunked streaming. Collaborator failures abort the call;
// audio already written cannot be un-written, so nothing is retried.
func (e *Engine) Speak(tok *sapi.ObjectToken, flags sapi.SpeakFlags, format sapi.SpeechFormat, frags *sapi.Fragment, sink sapi.Sink) error {
	text := sapi.JoinFragmentText(frags)
	if len(text) == 0 {
		return nil
	}
	if flags&sapi.FlagSpeakPunctuation != 0 {
		log.Debug("speak-punctuation requested; passed through to the voice provider text as-is")
	}

	ranges, err := e.detector.Recognize(text)
	if err != nil {
		return fmt.Errorf("language detection: %w", err)
	}
	log.Debug("detected language ranges", "count", len(ranges))

	available, err := e.provider.Voices()
	if err != nil {
		return fmt.Errorf("listing voices: %w", err)
	}
	def, err := e.provider.DefaultVoice()
	if err != nil {
		return fmt.Errorf("default voice: %w", err)
	}

	for _, rng := range ranges {
		if rng.Start > rng.End || rng.End >= len(text) {
			return fmt.Errorf("%w: [%d,%d] in %d code units", ErrRangeBounds, rng.Start, rng.End, len(text))
		}
		state, err := e.speakRange(text[rng.Start:rng.End+1], rng, available, def, sink)
		if err != nil {
			return err
		}
		if state == StateAborted {
			// Host-directed early termination; remaining ranges are
			// dropped and the call still succeeds.
			return nil
		}
	}
	return nil
}

func (e *Engine) speakRange(text []uint16, rng langdetect.Range, available []voices.Voice, def voices.Voice, sink sapi.Sink) (StreamState, error) {
	voice := voices.Select(rng.Languages, available, def)

	// Host controls are read before synthesis starts so they shape the
	// rendered audio, not just later chunks.
	rate, err := sink.Rate()
	if err != nil {
		return StateStreaming, fmt.Errorf("reading host rate: %w", err)
	}
	volume, err := sink.Volume()
	if err != nil {
		return StateStreaming, fmt.Errorf("reading host volume: %w", err)
	}
	scale, level := RateScale(rate), VolumeScale(volume)
	log.Debug("synthesizing range", "voice", voice.Name, "rate", scale, "volume", level)

	session, err := e.provider.Synthesize(string(utf16.Decode(text)), voice, scale, level)
	if err != nil {
		return StateStreaming, fmt.Errorf("synthesizing with voice %q: %w", voice.Name, err)
	}
	defer session.Close()

	return e.stream(session, sink)
}

// stream pumps session audio to the sink in chunks of at most
// MaxWriteChunk bytes, polling the sink's action flags after every write.
func (e *Engine) stream(session voices.Session, sink sapi.Sink) (StreamState, error) {
	buf := make([]byte, MaxWriteChunk)
	skipNoted := false
	for {
		n, rerr := session.Read(buf)

		for off := 0; off < n; {
			written, werr := sink.Write(buf[off:n])
			if werr != nil {
				return StateStreaming, fmt.Errorf("writing to output sink: %w", werr)
			}
			// The sink may consume less than offered; advance by the
			// consumed amount only.
			off += written

			actions := sink.Actions()
			if actions == sapi.ActionContinue {
				continue
			}
			if actions.Has(sapi.ActionAbort) {
				log.Debug("abort requested by host")
				return StateAborted, nil
			}
			if actions.Has(sapi.ActionSkip) && !skipNoted {
				// Accepted incompleteness: acknowledged, position kept.
				// The flag may stay asserted across polls; note it once.
				skipNoted = true
				log.Debug("skip requested by host; not supported by this engine")
			}
			if actions.Has(sapi.ActionRate) {
				if err := applyRate(session, sink); err != nil {
					return StateStreaming, err
				}
			}
			if actions.Has(sapi.ActionVolume) {
				if err := applyVolume(session, sink); err != nil {
					return StateStreaming, err
				}
			}
		}

		if rerr == io.EOF {
			return StateFinished, nil
		}
		if rerr != nil {
			return StateStreaming, fmt.Errorf("reading synthesized audio: %w", rerr)
		}
	}
}

func applyRate(session voices.Session, sink sapi.Sink) error {
	rate, err := sink.Rate()
	if err != nil {
		return fmt.Errorf("reading host rate: %w", err)
	}
	scale := RateScale(rate)
	log.Debug("applying rate", "host", rate, "scale", scale)
	if err := session.SetRate(scale); err != nil {
		return fmt.Errorf("applying rate: %w", err)
	}
	return nil
}

func applyVolume(session voices.Session, sink sapi.Sink) error {
	volume, err := sink.Volume()
	if err != nil {
		return fmt.Errorf("reading host volume: %w", err)
	}
	level := VolumeScale(volume)
	log.Debug("applying volume", "host", volume, "level", level)
	if err := session.SetVolume(level); err != nil {
		return fmt.Errorf("applying volume: %w", err)
	}
	return nil
}
