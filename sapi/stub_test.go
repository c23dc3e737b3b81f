package sapi

import "github.com/google/uuid"

// testClassID is the engine class served by test servers.
var testClassID = uuid.MustParse("11111111-2222-3333-4444-555555555555")

// stubLogic is a scriptable Synthesizer for shell tests.
type stubLogic struct {
	setTokenFn func(tok *ObjectToken) error
	speakFn    func(tok *ObjectToken, flags SpeakFlags, format SpeechFormat, frags *Fragment, sink Sink) error
	formatFn   func(tok *ObjectToken, target *SpeechFormat) (SpeechFormat, error)
	shutdownFn func() error
}

func (s *stubLogic) SetObjectToken(tok *ObjectToken) error {
	if s.setTokenFn == nil {
		return nil
	}
	return s.setTokenFn(tok)
}

func (s *stubLogic) Speak(tok *ObjectToken, flags SpeakFlags, format SpeechFormat, frags *Fragment, sink Sink) error {
	if s.speakFn == nil {
		return nil
	}
	return s.speakFn(tok, flags, format, frags, sink)
}

func (s *stubLogic) OutputFormat(tok *ObjectToken, target *SpeechFormat) (SpeechFormat, error) {
	if s.formatFn == nil {
		return WaveSpeechFormat(DefaultWaveFormat()), nil
	}
	return s.formatFn(tok, target)
}

func (s *stubLogic) Shutdown() error {
	if s.shutdownFn == nil {
		return nil
	}
	return s.shutdownFn()
}

// newTestServer returns a server producing stub engines.
func newTestServer(logic func() (Synthesizer, error)) *Server {
	if logic == nil {
		logic = func() (Synthesizer, error) { return &stubLogic{}, nil }
	}
	return &Server{
		ClassID:   testClassID,
		NewEngine: logic,
		Class: ClassInfo{
			ClassID:        testClassID,
			Name:           "Test Engine",
			ThreadingModel: "Both",
		},
	}
}

// newTestFactory acquires a factory from a fresh test server.
func newTestFactory(logic func() (Synthesizer, error)) *Factory {
	var factory *Factory
	if st := newTestServer(logic).GetClassObject(testClassID, IIDClassFactory, &factory); st != StatusOK {
		panic("newTestFactory: " + st.String())
	}
	return factory
}

// newTestInstance creates an instance through the factory path.
func newTestInstance(logic Synthesizer) (*EngineInstance, *Factory) {
	factory := newTestFactory(func() (Synthesizer, error) { return logic, nil })
	var inst *EngineInstance
	if err := factory.CreateInstance(nil, IIDSpeechEngine, &inst); err != nil {
		panic("newTestInstance: " + err.Error())
	}
	return inst, factory
}

// sinkFunc adapts plain functions into a Sink for shell tests.
type sinkFunc struct {
	write   func(p []byte) (int, error)
	actions func() Action
}

func (s *sinkFunc) Write(p []byte) (int, error) {
	if s.write == nil {
		return len(p), nil
	}
	return s.write(p)
}

func (s *sinkFunc) Actions() Action {
	if s.actions == nil {
		return ActionContinue
	}
	return s.actions()
}

func (s *sinkFunc) Rate() (int, error)   { return 0, nil }
func (s *sinkFunc) Volume() (int, error) { return 100, nil }
