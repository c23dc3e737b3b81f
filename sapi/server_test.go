package sapi

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// TestGetClassObject tests class object lookup for the served class and
// the rejection paths.
func TestGetClassObject(t *testing.T) {
	otherID := uuid.MustParse("DEADBEEF-0000-0000-0000-000000000000")

	tests := []struct {
		name    string
		classID InterfaceID
		iid     InterfaceID
		want    Status
	}{
		{name: "served class", classID: testClassID, iid: IIDClassFactory, want: StatusOK},
		{name: "foreign class", classID: otherID, iid: IIDClassFactory, want: StatusClassNotFound},
		{name: "wrong interface", classID: testClassID, iid: IIDSpeechEngine, want: StatusClassNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(nil)
			var factory *Factory
			if got := srv.GetClassObject(tt.classID, tt.iid, &factory); got != tt.want {
				t.Errorf("GetClassObject() = %v, want %v", got, tt.want)
			}
			if tt.want == StatusOK {
				if factory == nil {
					t.Fatal("GetClassObject() succeeded with nil factory")
				}
				factory.Close()
			} else if factory != nil {
				t.Error("GetClassObject() left a factory behind on failure")
			}
		})
	}
}

// TestGetClassObjectNilOut tests the nil out-pointer rejection.
func TestGetClassObjectNilOut(t *testing.T) {
	srv := newTestServer(nil)
	if got := srv.GetClassObject(testClassID, IIDClassFactory, nil); got != StatusPointer {
		t.Errorf("GetClassObject(nil out) = %v, want StatusPointer", got)
	}
}

// TestGetClassObjectNoConstructor tests that a server without an engine
// constructor serves nothing.
func TestGetClassObjectNoConstructor(t *testing.T) {
	srv := &Server{ClassID: testClassID}
	var factory *Factory
	if got := srv.GetClassObject(testClassID, IIDClassFactory, &factory); got != StatusClassNotFound {
		t.Errorf("GetClassObject() = %v, want StatusClassNotFound", got)
	}
}

// TestServerInitializeRunsOnceAndSwallowsPanics tests the one-shot module
// initializer.
func TestServerInitializeRunsOnceAndSwallowsPanics(t *testing.T) {
	runs := 0
	srv := newTestServer(nil)
	srv.Initialize = func() {
		runs++
		panic("init failed")
	}

	// A panicking initializer must not take the entry points down.
	if got := srv.CanUnloadNow(); got != StatusOK && got != StatusFalse {
		t.Errorf("CanUnloadNow() = %v, want a success status", got)
	}
	var factory *Factory
	if got := srv.GetClassObject(testClassID, IIDClassFactory, &factory); got != StatusOK {
		t.Errorf("GetClassObject() = %v, want StatusOK", got)
	}
	factory.Close()

	if runs != 1 {
		t.Errorf("initializer ran %d times, want 1", runs)
	}
}

// TestServerCanUnloadNow tests the unload query through the server surface.
func TestServerCanUnloadNow(t *testing.T) {
	srv := newTestServer(nil)
	before := srv.CanUnloadNow()

	var factory *Factory
	if got := srv.GetClassObject(testClassID, IIDClassFactory, &factory); got != StatusOK {
		t.Fatalf("GetClassObject() = %v", got)
	}
	if got := srv.CanUnloadNow(); got != StatusFalse {
		t.Errorf("CanUnloadNow() with live factory = %v, want StatusFalse", got)
	}

	factory.Close()
	if got := srv.CanUnloadNow(); got != before {
		t.Errorf("CanUnloadNow() after close = %v, want %v", got, before)
	}
}

// TestServerRegisterUnregister tests the registration round trip through a
// memory registrar.
func TestServerRegisterUnregister(t *testing.T) {
	srv := newTestServer(nil)
	srv.Voices = []ObjectToken{
		{KeyName: "TestVoice", LongName: "Test Voice", ClassID: testClassID},
	}

	reg := NewMemoryRegistrar()
	if got := srv.Register(reg); got != StatusOK {
		t.Fatalf("Register() = %v, want StatusOK", got)
	}
	if _, ok := reg.Class(testClassID); !ok {
		t.Error("Register() did not persist the class")
	}
	if _, err := reg.Voice("TestVoice"); err != nil {
		t.Errorf("Voice() after Register = %v", err)
	}

	if got := srv.Unregister(reg); got != StatusOK {
		t.Fatalf("Unregister() = %v, want StatusOK", got)
	}
	if _, ok := reg.Class(testClassID); ok {
		t.Error("Unregister() left the class registered")
	}
	if _, err := reg.Voice("TestVoice"); err == nil {
		t.Error("Unregister() left the voice registered")
	}
}

// TestServerRegisterRejectsPathSeparators tests the voice key validation.
func TestServerRegisterRejectsPathSeparators(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "forward slash", key: "voices/evil"},
		{name: "backslash", key: `voices\evil`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(nil)
			srv.Voices = []ObjectToken{{KeyName: tt.key}}
			if got := srv.Register(NewMemoryRegistrar()); got != StatusInvalidArg {
				t.Errorf("Register() = %v, want StatusInvalidArg", got)
			}
		})
	}
}

// failingRegistrar fails every operation.
type failingRegistrar struct{ err error }

func (r *failingRegistrar) RegisterClass(ClassInfo) error     { return r.err }
func (r *failingRegistrar) UnregisterClass(InterfaceID) error { return r.err }
func (r *failingRegistrar) RegisterVoice(ObjectToken) error   { return r.err }
func (r *failingRegistrar) UnregisterVoice(string) error      { return r.err }

// TestServerRegistrarFailures tests error propagation from the registrar.
func TestServerRegistrarFailures(t *testing.T) {
	srv := newTestServer(nil)
	reg := &failingRegistrar{err: errors.New("store unavailable")}

	if got := srv.Register(reg); got != StatusFail {
		t.Errorf("Register() = %v, want StatusFail", got)
	}
	if got := srv.Unregister(reg); got != StatusFail {
		t.Errorf("Unregister() = %v, want StatusFail", got)
	}
	if got := srv.Register(nil); got != StatusInvalidArg {
		t.Errorf("Register(nil) = %v, want StatusInvalidArg", got)
	}
	if got := srv.Unregister(nil); got != StatusInvalidArg {
		t.Errorf("Unregister(nil) = %v, want StatusInvalidArg", got)
	}
}
