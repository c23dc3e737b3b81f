package sapi

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// maxDiscardAttempts bounds how often a misbehaving panic payload may be
// retried while being discarded.
const maxDiscardAttempts = 8

// Isolate runs fn and converts any panic it raises into ErrUnexpected. It is
// applied at every entry point reachable from the hosting boundary; a panic
// crossing that boundary would corrupt the host.
func Isolate(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			discardPayload(p)
			err = ErrUnexpected
		}
	}()
	return fn()
}

// discardPayload disposes of a panic payload without letting the payload
// itself panic again. Describing a payload can run arbitrary String or Error
// methods, so each attempt is guarded and retried until it completes
// cleanly.
func discardPayload(p any) {
	for attempt := 0; attempt < maxDiscardAttempts; attempt++ {
		if tryDescribe(p) {
			return
		}
	}
}

// tryDescribe formats and logs the payload, reporting whether it finished
// without panicking.
func tryDescribe(p any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	log.Debug("recovered panic at hosting boundary", "payload", fmt.Sprintf("%v", p))
	return true
}
