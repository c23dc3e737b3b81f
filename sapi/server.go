package sapi

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ClassInfo is the class registration record handed to a Registrar.
type ClassInfo struct {
	ClassID        InterfaceID
	Name           string
	ThreadingModel string
}

// Registrar persists class and voice registrations. Concrete persistence
// (registry, config store) lives outside this package; the server only
// drives the interface.
type Registrar interface {
	RegisterClass(class ClassInfo) error
	UnregisterClass(classID InterfaceID) error
	RegisterVoice(tok ObjectToken) error
	UnregisterVoice(keyName string) error
}

// Server is the module-level entry surface the host calls into: class
// object lookup, the unload query and (un)registration. Every method is
// wrapped by the isolation boundary.
type Server struct {
	// ClassID identifies the engine class this server offers.
	ClassID InterfaceID
	// NewEngine constructs the engine logic for a new instance.
	NewEngine func() (Synthesizer, error)
	// Class describes the class registration written by Register.
	Class ClassInfo
	// Voices are the voice tokens registered alongside the class.
	Voices []ObjectToken
	// Initialize, when set, runs once before the first entry point. Its
	// panics are swallowed; a half-initialized module must still answer
	// the unload query.
	Initialize func()

	initOnce sync.Once
}

func (s *Server) initialize() {
	s.initOnce.Do(func() {
		if s.Initialize == nil {
			return
		}
		_ = Isolate(func() error {
			s.Initialize()
			return nil
		})
	})
}

// GetClassObject returns a factory for the requested class in out. Only
// this server's class ID combined with IIDClassFactory is served.
func (s *Server) GetClassObject(classID, iid InterfaceID, out **Factory) Status {
	s.initialize()
	err := Isolate(func() error {
		if out == nil {
			return ErrPointer
		}
		*out = nil
		if classID != s.ClassID || iid != IIDClassFactory {
			return ErrClassNotFound
		}
		if s.NewEngine == nil {
			return fmt.Errorf("%w: server has no engine constructor", ErrClassNotFound)
		}
		*out = &Factory{
			classID:   s.ClassID,
			moduleRef: newModuleRef(),
			newEngine: s.NewEngine,
		}
		log.Debug("GetClassObject", "classID", classID, "moduleRefs", ModuleRefCount())
		return nil
	})
	return StatusOf(err)
}

// CanUnloadNow answers the host's unload query.
func (s *Server) CanUnloadNow() Status {
	s.initialize()
	status := StatusFalse
	err := Isolate(func() error {
		status = CanUnloadNow()
		return nil
	})
	if err != nil {
		// A failing unload query must err on the side of staying loaded.
		return StatusFalse
	}
	return status
}

// Register writes the class and voice registrations through reg.
func (s *Server) Register(reg Registrar) Status {
	s.initialize()
	err := Isolate(func() error {
		if reg == nil {
			return ErrInvalidArg
		}
		if err := reg.RegisterClass(s.Class); err != nil {
			return fmt.Errorf("registering class: %w", err)
		}
		for _, tok := range s.Voices {
			if strings.ContainsAny(tok.KeyName, `/\`) {
				return fmt.Errorf("%w: voice key %q contains path separators", ErrInvalidArg, tok.KeyName)
			}
			if err := reg.RegisterVoice(tok); err != nil {
				return fmt.Errorf("registering voice %q: %w", tok.KeyName, err)
			}
		}
		return nil
	})
	return StatusOf(err)
}

// Unregister removes the registrations written by Register, voices first.
func (s *Server) Unregister(reg Registrar) Status {
	s.initialize()
	err := Isolate(func() error {
		if reg == nil {
			return ErrInvalidArg
		}
		for _, tok := range s.Voices {
			if err := reg.UnregisterVoice(tok.KeyName); err != nil {
				return fmt.Errorf("unregistering voice %q: %w", tok.KeyName, err)
			}
		}
		if err := reg.UnregisterClass(s.Class.ClassID); err != nil {
			return fmt.Errorf("unregistering class: %w", err)
		}
		return nil
	})
	return StatusOf(err)
}
