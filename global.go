package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Global is the run-scoped bag of shared values, keyed by name and checked by
// type. Each key has its own lock; the callbacks passed to Update hold it for
// exactly their duration, so they must not block on other runs or call back
// into the bag.
//
// The zero value is not usable; call NewGlobal.
type Global struct {
	entries map[string]*entry
	lock    sync.RWMutex
}

type entry struct {
	ptr     interface{} // *T
	typ     reflect.Type
	removed bool
	lock    sync.RWMutex
}

func NewGlobal() *Global {
	return &Global{entries: map[string]*entry{}}
}

// ErrNoSuchGlobal is returned by Update for a missing key.
type ErrNoSuchGlobal struct {
	Key string
}

func (e ErrNoSuchGlobal) Error() string {
	return fmt.Sprintf("Missing global: %q", e.Key)
}

// KeyOf derives a key from the identity of T, for bags holding at most one
// value per type.
func KeyOf[T any]() string {
	return typeOf[T]().String()
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (g *Global) lookup(key string) *entry {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.entries[key]
}

// Insert stores value under key, replacing any previous value of any type.
func Insert[T any](g *Global, key string, value T) {
	v := value
	g.lock.Lock()
	defer g.lock.Unlock()

	if e, has := g.entries[key]; has {
		e.lock.Lock()
		e.ptr, e.typ = &v, typeOf[T]()
		e.lock.Unlock()
		return
	}
	g.entries[key] = &entry{ptr: &v, typ: typeOf[T]()}
}

// Get returns a copy of the value under key. A missing key is (zero, false, nil).
func Get[T any](g *Global, key string) (value T, ok bool, err error) {
	e := g.lookup(key)
	if e == nil {
		return
	}
	e.lock.RLock()
	defer e.lock.RUnlock()

	if e.removed {
		return
	}
	p, is := e.ptr.(*T)
	if !is {
		err = ErrGlobalTypeMismatch{Key: key, Stored: e.typ, Requested: typeOf[T]()}
		return
	}
	return *p, true, nil
}

// Update runs fn with exclusive access to the value under key.
func Update[T any](g *Global, key string, fn func(*T) error) error {
	e := g.lookup(key)
	if e == nil {
		return ErrNoSuchGlobal{Key: key}
	}
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.removed {
		return ErrNoSuchGlobal{Key: key}
	}
	p, is := e.ptr.(*T)
	if !is {
		return ErrGlobalTypeMismatch{Key: key, Stored: e.typ, Requested: typeOf[T]()}
	}
	return fn(p)
}

// Upsert is Update that first inserts the zero T when key is missing.
func Upsert[T any](g *Global, key string, fn func(*T) error) error {
	g.lock.Lock()
	if _, has := g.entries[key]; !has {
		var zero T
		g.entries[key] = &entry{ptr: &zero, typ: typeOf[T]()}
	}
	g.lock.Unlock()
	return Update(g, key, fn)
}

// Remove takes the value under key out of the bag. It waits for any Update in
// progress on the key.
func Remove[T any](g *Global, key string) (value T, ok bool, err error) {
	g.lock.Lock()
	defer g.lock.Unlock()

	e, has := g.entries[key]
	if !has {
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()

	p, is := e.ptr.(*T)
	if !is {
		err = ErrGlobalTypeMismatch{Key: key, Stored: e.typ, Requested: typeOf[T]()}
		return
	}
	e.removed = true
	delete(g.entries, key)
	return *p, true, nil
}

func (g *Global) Has(key string) bool {
	return g.lookup(key) != nil
}

func (g *Global) Len() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.entries)
}

// Keys returns the keys in sorted order.
func (g *Global) Keys() []string {
	g.lock.RLock()
	defer g.lock.RUnlock()

	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TypeOf returns the type stored under key, or nil.
func (g *Global) TypeOf(key string) reflect.Type {
	e := g.lookup(key)
	if e == nil {
		return nil
	}
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.typ
}
