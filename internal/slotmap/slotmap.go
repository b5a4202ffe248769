package slotmap

// This is a model of the run-time behavior of lowered instance variables. A
// "Map" is the WeakMap that holds one instance variable for every instance,
// and its methods do what the runtime helpers do. The JavaScript helpers use
// the error messages defined here.

import (
	"runtime"
	"strconv"
	"sync"
	"weak"
)

const (
	GetOnNonInstanceText = "attempted to get instance variable on non-instance"
	SetOnNonInstanceText = "attempted to set instance variable on non-instance"
	SetNonWritableText   = "attempted to set non-writable instance variable"

	// The quoted class name goes between these
	ClassNameTDZPrefix = "Class "
	ClassNameTDZSuffix = " cannot be referenced in computed property keys or class variable initializers"
)

// Returns the message for reading a class binding during its temporal dead
// zone. The JavaScript helper builds the same message at run time.
func ClassNameTDZText(name string) string {
	return ClassNameTDZPrefix + strconv.Quote(name) + ClassNameTDZSuffix
}

// This is returned when a receiver was never initialized by the constructor
// of the class that declares the variable
type AccessError struct {
	IsSet bool
}

func (e *AccessError) Error() string {
	if e.IsSet {
		return SetOnNonInstanceText
	}
	return GetOnNonInstanceText
}

// This is returned when assigning to a "const" instance variable
type WriteError struct{}

func (*WriteError) Error() string {
	return SetNonWritableText
}

type descriptor[V any] struct {
	writable bool
	value    V
}

// Keys are compared by identity and are not kept alive by the map. An entry
// is removed some time after its key has been garbage collected.
type Map[K any, V any] struct {
	mutex   sync.Mutex
	entries map[weak.Pointer[K]]*descriptor[V]
}

func New[K any, V any]() *Map[K, V] {
	return &Map[K, V]{entries: make(map[weak.Pointer[K]]*descriptor[V])}
}

// This is "_x.set(this, { writable, value })" in a constructor. Initializing
// the same key again replaces the old descriptor.
func (m *Map[K, V]) Init(key *K, writable bool, value V) {
	wp := weak.Make(key)

	m.mutex.Lock()
	_, exists := m.entries[wp]
	m.entries[wp] = &descriptor[V]{writable: writable, value: value}
	m.mutex.Unlock()

	if !exists {
		runtime.AddCleanup(key, m.remove, wp)
	}
}

func (m *Map[K, V]) remove(wp weak.Pointer[K]) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.entries, wp)
}

// This is "__instanceVarGet(key, _x)"
func (m *Map[K, V]) Get(key *K) (V, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if d, ok := m.entries[weak.Make(key)]; ok {
		return d.value, nil
	}
	var zero V
	return zero, &AccessError{}
}

// This is "__instanceVarSet(key, _x, value)". It returns the value that was
// assigned, which is the value of the assignment expression.
func (m *Map[K, V]) Set(key *K, value V) (V, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	d, ok := m.entries[weak.Make(key)]
	if !ok {
		var zero V
		return zero, &AccessError{IsSet: true}
	}
	if !d.writable {
		var zero V
		return zero, &WriteError{}
	}
	d.value = value
	return value, nil
}

func (m *Map[K, V]) Has(key *K) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, ok := m.entries[weak.Make(key)]
	return ok
}

// Entries for keys that were collected may still be counted until their
// cleanup has run
func (m *Map[K, V]) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.entries)
}
