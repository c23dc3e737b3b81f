// Package sapi hosts a pluggable speech-synthesis engine behind a fixed
// binary-style interface. It provides the class factory dispatch, the
// process-wide keep-alive reference count that gates module unloading, and
// the unwind-isolation boundary that downgrades panics inside engine logic
// to error statuses instead of letting them cross into the host.
package sapi
