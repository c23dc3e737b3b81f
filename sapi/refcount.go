package sapi

import (
	"sync"
	"sync/atomic"
)

// moduleCount is the process-wide keep-alive counter. It is initialized
// lazily on first use and never reset. The baseline value of 1 represents
// the static holder; any value above baseline means live engine objects
// still reference this module.
var moduleCount = sync.OnceValue(func() *atomic.Int64 {
	c := new(atomic.Int64)
	c.Store(1)
	return c
})

// ModuleRef is one strong reference to the hosting module. Every factory
// and engine instance owns one so that the module cannot be unloaded while
// they are alive.
type ModuleRef struct {
	released atomic.Bool
}

func newModuleRef() *ModuleRef {
	moduleCount().Add(1)
	return &ModuleRef{}
}

// Clone takes an additional strong reference.
func (r *ModuleRef) Clone() *ModuleRef {
	return newModuleRef()
}

// Release drops this reference. Releasing the same handle twice is a no-op.
func (r *ModuleRef) Release() {
	if r == nil || !r.released.CompareAndSwap(false, true) {
		return
	}
	moduleCount().Add(-1)
}

// ModuleRefCount returns the current strong-reference count, including the
// static baseline holder.
func ModuleRefCount() int64 {
	return moduleCount().Load()
}

// CanUnloadNow reports StatusOK when only the static baseline reference
// remains and the module may be unloaded, StatusFalse otherwise. Safe to
// call at any time, including before any instance was ever created.
func CanUnloadNow() Status {
	if moduleCount().Load() == 1 {
		return StatusOK
	}
	return StatusFalse
}
