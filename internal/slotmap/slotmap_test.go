package slotmap

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/evanw/classvars/internal/test"
)

type instance struct {
	name string
}

func TestGetAndSet(t *testing.T) {
	m := New[instance, int]()
	a := &instance{name: "a"}
	b := &instance{name: "b"}

	m.Init(a, true, 1)
	value, err := m.Get(a)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, value, 1)

	value, err = m.Set(a, 2)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, value, 2)
	value, _ = m.Get(a)
	test.AssertEqual(t, value, 2)

	// Instances don't share storage
	m.Init(b, true, 10)
	value, _ = m.Get(b)
	test.AssertEqual(t, value, 10)
	value, _ = m.Get(a)
	test.AssertEqual(t, value, 2)
	test.AssertEqual(t, m.Len(), 2)
}

func TestUndefinedValue(t *testing.T) {
	m := New[instance, *string]()
	a := &instance{}
	m.Init(a, true, nil)
	value, err := m.Get(a)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, value == nil, true)
}

func TestAccessError(t *testing.T) {
	m := New[instance, int]()
	a := &instance{}

	// Keys are compared by identity, not by value
	m.Init(&instance{}, true, 1)
	test.AssertEqual(t, m.Has(a), false)

	_, err := m.Get(a)
	var accessError *AccessError
	test.AssertEqual(t, errors.As(err, &accessError), true)
	test.AssertEqual(t, err.Error(), GetOnNonInstanceText)

	_, err = m.Set(a, 1)
	test.AssertEqual(t, errors.As(err, &accessError), true)
	test.AssertEqual(t, err.Error(), SetOnNonInstanceText)
}

func TestWriteError(t *testing.T) {
	m := New[instance, string]()
	a := &instance{}
	m.Init(a, false, "x")

	_, err := m.Set(a, "y")
	var writeError *WriteError
	test.AssertEqual(t, errors.As(err, &writeError), true)
	test.AssertEqual(t, err.Error(), SetNonWritableText)

	value, _ := m.Get(a)
	test.AssertEqual(t, value, "x")
}

func TestInitReplaces(t *testing.T) {
	m := New[instance, int]()
	a := &instance{}
	m.Init(a, false, 1)
	m.Init(a, true, 2)
	value, err := m.Set(a, 3)
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, value, 3)
	test.AssertEqual(t, m.Len(), 1)
}

func TestCollectedKeysAreRemoved(t *testing.T) {
	m := New[instance, [64]byte]()
	for i := 0; i < 100; i++ {
		m.Init(&instance{}, true, [64]byte{})
	}

	deadline := time.Now().Add(5 * time.Second)
	for m.Len() > 0 {
		if time.Now().After(deadline) {
			t.Skipf("Cleanups didn't run in time (%d entries left)", m.Len())
		}
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New[instance, int]()
	keys := make([]*instance, 16)
	for i := range keys {
		keys[i] = &instance{}
		m.Init(keys[i], true, 0)
	}

	wg := sync.WaitGroup{}
	for i := range keys {
		wg.Add(1)
		go func(key *instance) {
			defer wg.Done()
			for j := 1; j <= 100; j++ {
				if _, err := m.Set(key, j); err != nil {
					t.Error(err)
				}
			}
		}(keys[i])
	}
	wg.Wait()

	for _, key := range keys {
		value, _ := m.Get(key)
		test.AssertEqual(t, value, 100)
	}
	runtime.KeepAlive(keys)
}

func TestClassBinding(t *testing.T) {
	b := NewClassBinding[*instance]("Foo")
	_, err := b.Get()
	var tdzError *TDZError
	test.AssertEqual(t, errors.As(err, &tdzError), true)
	test.AssertEqual(t, tdzError.Name, "Foo")
	test.AssertEqual(t, err.Error(), "Class \"Foo\" cannot be referenced in computed property keys or class variable initializers")

	foo := &instance{name: "Foo"}
	b.Define(foo)
	value, err := b.Get()
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, value, foo)
}
