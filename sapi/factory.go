package sapi

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Factory constructs engine instances for one engine class. It holds its
// own keep-alive reference for as long as it is open, so a host that only
// keeps a factory around still blocks module unloading.
type Factory struct {
	classID   InterfaceID
	moduleRef *ModuleRef
	newEngine func() (Synthesizer, error)
	closed    atomic.Bool
}

// CreateInstance constructs a new engine instance exposing the requested
// interface and stores it in out. outer must be nil; aggregation is not
// supported. Only the factory's class ID, IIDUnknown, IIDSpeechEngine and
// IIDObjectWithToken are valid interface requests.
func (f *Factory) CreateInstance(outer any, iid InterfaceID, out **EngineInstance) error {
	if out == nil {
		return ErrPointer
	}
	// Zero the target before any further validation so the caller never
	// observes stale data alongside an error.
	*out = nil
	if f.closed.Load() {
		return ErrInstanceClosed
	}
	if outer != nil {
		return ErrNoAggregation
	}
	if iid != f.classID && iid != IIDUnknown && iid != IIDSpeechEngine && iid != IIDObjectWithToken {
		return ErrNoInterface
	}

	var instance *EngineInstance
	err := Isolate(func() error {
		logic, cerr := f.newEngine()
		if cerr != nil {
			return fmt.Errorf("constructing engine: %w", cerr)
		}
		instance = &EngineInstance{
			logic:     logic,
			moduleRef: f.moduleRef.Clone(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Debug("factory created engine instance", "iid", iid, "moduleRefs", ModuleRefCount())
	*out = instance
	return nil
}

// LockServer is part of the factory surface but unsupported, matching
// engines in this family.
func (f *Factory) LockServer(lock bool) error {
	return ErrNotImplemented
}

// Close releases the factory's keep-alive reference. Instances it created
// stay valid; they own references of their own.
func (f *Factory) Close() {
	if !f.closed.CompareAndSwap(false, true) {
		return
	}
	f.moduleRef.Release()
	log.Debug("factory closed", "moduleRefs", ModuleRefCount())
}
