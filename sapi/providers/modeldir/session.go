package modeldir

import (
	"bytes"

	"github.com/charmbracelet/log"
)

// byteSession serves pre-rendered audio. The backend renders a range in one
// shot, so mid-stream rate and volume changes cannot affect audio that
// already exists: they are acknowledged and logged but not applied
// retroactively.
type byteSession struct {
	r *bytes.Reader
}

func newByteSession(data []byte) *byteSession {
	return &byteSession{r: bytes.NewReader(data)}
}

func (s *byteSession) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *byteSession) SetRate(scale float64) error {
	log.Debug("rate change acknowledged; audio is pre-rendered", "scale", scale)
	return nil
}

func (s *byteSession) SetVolume(level float64) error {
	log.Debug("volume change acknowledged; audio is pre-rendered", "level", level)
	return nil
}

func (s *byteSession) Close() error { return nil }
