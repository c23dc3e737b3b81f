package mock

import (
	"errors"
	"io"
	"testing"

	"github.com/polyvox/polyvox/sapi/voices"
)

// TestProviderDefaults tests the out-of-the-box provider shape.
func TestProviderDefaults(t *testing.T) {
	p := New()

	vs, err := p.Voices()
	if err != nil {
		t.Fatalf("Voices() = %v", err)
	}
	if len(vs) != 1 || vs[0].Language != "en-US" {
		t.Errorf("Voices() = %v, want one English voice", vs)
	}

	def, err := p.DefaultVoice()
	if err != nil {
		t.Fatalf("DefaultVoice() = %v", err)
	}
	if def != vs[0] {
		t.Errorf("DefaultVoice() = %v, want %v", def, vs[0])
	}
}

// TestProviderEmpty tests the no-voices errors.
func TestProviderEmpty(t *testing.T) {
	p := &Provider{}
	if _, err := p.Voices(); !errors.Is(err, voices.ErrNoVoices) {
		t.Errorf("Voices() = %v, want ErrNoVoices", err)
	}
	if _, err := p.DefaultVoice(); !errors.Is(err, voices.ErrNoVoices) {
		t.Errorf("DefaultVoice() = %v, want ErrNoVoices", err)
	}
}

// TestSynthesizeDeterministic tests that the default audio pattern is
// stable for equal inputs.
func TestSynthesizeDeterministic(t *testing.T) {
	p := New()
	def, _ := p.DefaultVoice()

	read := func() []byte {
		s, err := p.Synthesize("abc", def, 1.0, 1.0)
		if err != nil {
			t.Fatalf("Synthesize() = %v", err)
		}
		defer s.Close()
		data, err := io.ReadAll(s)
		if err != nil {
			t.Fatalf("reading session: %v", err)
		}
		return data
	}

	first, second := read(), read()
	if len(first) != 6 {
		t.Errorf("len(audio) = %d, want 6 (two bytes per input byte)", len(first))
	}
	if string(first) != string(second) {
		t.Error("equal inputs produced different audio")
	}
}

// TestSessionRecording tests the session's control and lifecycle records.
func TestSessionRecording(t *testing.T) {
	p := New()
	def, _ := p.DefaultVoice()

	s, err := p.Synthesize("x", def, 2.0, 0.75)
	if err != nil {
		t.Fatalf("Synthesize() = %v", err)
	}
	if err := s.SetRate(1.5); err != nil {
		t.Errorf("SetRate() = %v", err)
	}
	if err := s.SetVolume(0.25); err != nil {
		t.Errorf("SetVolume() = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}

	sessions := p.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("Sessions() = %d, want 1", len(sessions))
	}
	rec := sessions[0]
	if rec.Rate() != 2.0 {
		t.Errorf("Rate() = %v, want 2.0", rec.Rate())
	}
	if rec.Volume() != 0.75 {
		t.Errorf("Volume() = %v, want 0.75", rec.Volume())
	}
	if rates := rec.Rates(); len(rates) != 1 || rates[0] != 1.5 {
		t.Errorf("Rates() = %v, want [1.5]", rates)
	}
	if vols := rec.Volumes(); len(vols) != 1 || vols[0] != 0.25 {
		t.Errorf("Volumes() = %v, want [0.25]", vols)
	}
	if !rec.Closed() {
		t.Error("Closed() = false, want true")
	}
}

// TestSynthFuncOverride tests the scripted audio hook.
func TestSynthFuncOverride(t *testing.T) {
	p := New()
	p.SynthFunc = func(text string, v voices.Voice) ([]byte, error) {
		return []byte(v.ID + ":" + text), nil
	}
	def, _ := p.DefaultVoice()

	s, err := p.Synthesize("hi", def, 1.0, 1.0)
	if err != nil {
		t.Fatalf("Synthesize() = %v", err)
	}
	data, _ := io.ReadAll(s)
	if string(data) != "mock-en:hi" {
		t.Errorf("audio = %q, want %q", data, "mock-en:hi")
	}
}
