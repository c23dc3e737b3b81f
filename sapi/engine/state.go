package engine

// StreamState is the per-range state of the streaming driver.
type StreamState int

const (
	// StateStreaming means audio is still being written to the sink.
	StateStreaming StreamState = iota
	// StateFinished means all audio for the range was written.
	StateFinished
	// StateAborted means the host requested early termination. Abort is
	// host-directed, not an error.
	StateAborted
)

// String returns the string representation of the state.
func (s StreamState) String() string {
	switch s {
	case StateStreaming:
		return "streaming"
	case StateFinished:
		return "finished"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
