package sapi

import (
	"fmt"
	"sync"
)

// MemoryRegistrar keeps registrations in memory. It backs tests and hosts
// that manage persistence themselves; durable persistence is a collaborator
// concern, not the shell's.
type MemoryRegistrar struct {
	mu      sync.Mutex
	classes map[InterfaceID]ClassInfo
	voices  map[string]ObjectToken
}

// NewMemoryRegistrar returns an empty registrar.
func NewMemoryRegistrar() *MemoryRegistrar {
	return &MemoryRegistrar{
		classes: make(map[InterfaceID]ClassInfo),
		voices:  make(map[string]ObjectToken),
	}
}

// RegisterClass implements Registrar.
func (m *MemoryRegistrar) RegisterClass(class ClassInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[class.ClassID] = class
	return nil
}

// UnregisterClass implements Registrar. Removing an absent class is not an
// error, matching idempotent uninstall behavior.
func (m *MemoryRegistrar) UnregisterClass(classID InterfaceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.classes, classID)
	return nil
}

// RegisterVoice implements Registrar.
func (m *MemoryRegistrar) RegisterVoice(tok ObjectToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices[tok.KeyName] = tok
	return nil
}

// UnregisterVoice implements Registrar.
func (m *MemoryRegistrar) UnregisterVoice(keyName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.voices, keyName)
	return nil
}

// Voice returns a registered voice token.
func (m *MemoryRegistrar) Voice(keyName string) (ObjectToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.voices[keyName]
	if !ok {
		return ObjectToken{}, fmt.Errorf("voice %q is not registered", keyName)
	}
	return tok, nil
}

// Class returns a registered class.
func (m *MemoryRegistrar) Class(classID InterfaceID) (ClassInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	class, ok := m.classes[classID]
	return class, ok
}
