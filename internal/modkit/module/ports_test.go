package module

import (
	"testing"

	"genslang/internal/modkit/httpkit"
)

// FooPort is a tiny test interface that our Ports() payloads can implement
type FooPort interface {
	Foo() int
}

type fooImpl struct{ v int }

func (f fooImpl) Foo() int { return f.v }

// fakeModule is a small module double for tests
type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string               { return m.name }
func (m fakeModule) Ports() PortSet             { return m.ports }
func (m fakeModule) MountRoutes(httpkit.Router) {} // no-op, satisfies Module

func TestPortsOf_NilPorts(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "nilPorts", ports: nil}
	if _, ok := PortsOf[FooPort](m); ok {
		t.Fatalf("expected ok=false when Ports() is nil")
	}
}

func TestPortsOf_DirectInterfaceMatch(t *testing.T) {
	t.Parallel()

	want := fooImpl{v: 42}
	m := fakeModule{name: "direct", ports: FooPort(want)}

	got, ok := PortsOf[FooPort](m)
	if !ok {
		t.Fatalf("expected ok=true for direct interface match")
	}
	if got.Foo() != 42 {
		t.Fatalf("unexpected Foo value, got %d want 42", got.Foo())
	}
}

func TestPortsOf_StructBundle_ExportedField(t *testing.T) {
	t.Parallel()

	type Ports struct {
		Foo FooPort
		Bar int
	}
	want := fooImpl{v: 7}
	m := fakeModule{name: "bundle", ports: Ports{Foo: want, Bar: 1}}

	got, ok := PortsOf[FooPort](m)
	if !ok {
		t.Fatalf("expected ok=true when bundle has exported Foo field")
	}
	if got.Foo() != 7 {
		t.Fatalf("unexpected Foo value, got %d want 7", got.Foo())
	}
}

func TestMustPortsOf_PanicsWhenMissing(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "empty", ports: struct{}{}}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when port missing")
		}
	}()
	MustPortsOf[FooPort](m)
}

func TestRegistry_RoundTrip(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("translate", fooImpl{v: 9})
	got, ok := PortsAs[fooImpl]("translate")
	if !ok || got.v != 9 {
		t.Fatalf("PortsAs = %#v ok=%v", got, ok)
	}
	if _, ok := PortsAs[fooImpl]("missing"); ok {
		t.Fatalf("unexpected hit for missing name")
	}
}
