package sapi

import "fmt"

// FormatKind distinguishes the debug text pass-through format from real
// waveform output.
type FormatKind int

const (
	// FormatDebugText asks the engine to emit the input text instead of
	// audio. Engines are not required to do anything specific with it; it
	// exists for debugging.
	FormatDebugText FormatKind = iota
	// FormatWave is normal waveform output described by a WaveFormat.
	FormatWave
)

// WaveFormatPCM is the only format tag engines in this family produce.
const WaveFormatPCM uint16 = 1

// WaveFormat describes raw waveform audio.
type WaveFormat struct {
	FormatTag     uint16
	Channels      uint16
	SamplesPerSec uint32
	AvgBytesPerSec uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// SpeechFormat is either the debug text format or a waveform description.
type SpeechFormat struct {
	Kind FormatKind
	Wave WaveFormat // valid when Kind == FormatWave
}

// DebugTextFormat returns the debug pass-through format.
func DebugTextFormat() SpeechFormat {
	return SpeechFormat{Kind: FormatDebugText}
}

// WaveSpeechFormat wraps a waveform description.
func WaveSpeechFormat(w WaveFormat) SpeechFormat {
	return SpeechFormat{Kind: FormatWave, Wave: w}
}

// String returns a compact description of the format.
func (f SpeechFormat) String() string {
	if f.Kind == FormatDebugText {
		return "debug-text"
	}
	return fmt.Sprintf("wave(tag=%d %dHz %dch %dbit)",
		f.Wave.FormatTag, f.Wave.SamplesPerSec, f.Wave.Channels, f.Wave.BitsPerSample)
}

// DefaultWaveFormat is the canonical output format of the bundled engine:
// 22.05 kHz 16-bit mono PCM. Engines in this family do not transcode; they
// declare one format and let the host resample if needed.
func DefaultWaveFormat() WaveFormat {
	const samplesPerSec = 22050
	const blockAlign = 2
	return WaveFormat{
		FormatTag:      WaveFormatPCM,
		Channels:       1,
		SamplesPerSec:  samplesPerSec,
		AvgBytesPerSec: samplesPerSec * blockAlign,
		BlockAlign:     blockAlign,
		BitsPerSample:  16,
	}
}

// NegotiateFormat maps a requested format to a supported one: an explicit
// debug text request is honored unchanged, everything else gets the
// engine's fixed supported waveform.
func NegotiateFormat(target *SpeechFormat, supported WaveFormat) SpeechFormat {
	if target != nil && target.Kind == FormatDebugText {
		return DebugTextFormat()
	}
	return WaveSpeechFormat(supported)
}
