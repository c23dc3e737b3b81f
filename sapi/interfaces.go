package sapi

import "github.com/google/uuid"

// InterfaceID identifies a class or one of the interfaces an engine object
// can be exposed through.
type InterfaceID = uuid.UUID

// Interface identifiers understood by the class factory.
var (
	// IIDUnknown is the base object interface every instance exposes.
	IIDUnknown = uuid.MustParse("00000000-0000-0000-C000-000000000046")
	// IIDClassFactory is the only interface GetClassObject hands out.
	IIDClassFactory = uuid.MustParse("00000001-0000-0000-C000-000000000046")
	// IIDSpeechEngine is the synthesis interface (Speak, OutputFormat).
	IIDSpeechEngine = uuid.MustParse("A74D7C8E-4CC5-4F2F-A6EB-804DEE18500E")
	// IIDObjectWithToken is the bound-token interface.
	IIDObjectWithToken = uuid.MustParse("5B559F40-E952-11D2-BB91-00C04F8EE6C0")
)

// Attributes is the descriptive metadata carried by a voice token.
type Attributes struct {
	Name     string // "Polyvox Multilingual"
	Gender   string // "Female" or "Male"
	Age      string // "Adult"
	Language string // "409" or "en-US"
	Vendor   string
}

// ObjectToken is the voice token bound to an engine instance before any
// synthesis call. The host owns the token data; the engine only reads it.
type ObjectToken struct {
	// KeyName is a persistence key. It must not contain path separators.
	KeyName string
	// LongName is the user visible voice name.
	LongName string
	// ClassID names the engine class that handles this voice.
	ClassID InterfaceID
	// Attributes holds descriptive metadata.
	Attributes Attributes
}

// SpeakFlags modify a synthesis call.
type SpeakFlags uint32

// FlagSpeakPunctuation asks the engine to speak punctuation out loud, so
// "end." becomes "end period".
const FlagSpeakPunctuation SpeakFlags = 0x40

// Action is the bitset of control signals a sink exposes during streaming.
// ActionContinue is the empty set; any other combination may be set
// simultaneously.
type Action uint32

const (
	ActionContinue Action = 0
	ActionAbort    Action = 1 << 0
	ActionSkip     Action = 1 << 1
	ActionVolume   Action = 1 << 2
	ActionRate     Action = 1 << 3
)

// Has reports whether flag is set.
func (a Action) Has(flag Action) bool { return a&flag != 0 }

// Sink is the host-provided destination for synthesized audio. Write may
// consume fewer bytes than offered; the caller must advance by the consumed
// amount only. Actions must be polled at least once per chunk write so the
// host's abort latency stays bounded.
type Sink interface {
	Write(p []byte) (int, error)
	Actions() Action
	// Rate returns the host-requested rate on its integer scale
	// (-10..10, 0 meaning unity).
	Rate() (int, error)
	// Volume returns the host-requested volume on its integer scale
	// (0..100).
	Volume() (int, error)
}

// Synthesizer is the user-supplied engine logic an instance hosts. A single
// instance is driven by at most one goroutine at a time, so implementations
// need no locking on the synthesis path.
type Synthesizer interface {
	// SetObjectToken lets the engine inspect its voice token. Called
	// exactly once, before any Speak or OutputFormat call.
	SetObjectToken(tok *ObjectToken) error

	// Speak renders the fragment list to the sink in the given format,
	// polling the sink's actions between writes. format is one the engine
	// returned from a previous OutputFormat call.
	Speak(tok *ObjectToken, flags SpeakFlags, format SpeechFormat, frags *Fragment, sink Sink) error

	// OutputFormat examines the requested format and returns the closest
	// one the engine supports. A nil target means the caller does not
	// care.
	OutputFormat(tok *ObjectToken, target *SpeechFormat) (SpeechFormat, error)
}

// Shutdowner is implemented by engine logic that holds resources needing an
// orderly release when the instance closes.
type Shutdowner interface {
	Shutdown() error
}
