package wgui

import (
	"fmt"
	"reflect"
	"time"
)

// HookStore holds the persistent state of every mounted component instance.
//
// State lives in an arena keyed by the instance ID. Within one instance, cells
// are indexed by the order in which the component calls hooks, so a component
// must call the same hooks in the same order on every render. Instances that
// are not rendered during a pass are removed when the pass ends.
//
// A HookStore is confined to the scheduler goroutine and is not safe for
// concurrent use.
type HookStore struct {
	instances map[ID]*instance
	pass      uint64
	delta     time.Duration
	strict    bool
	visited   []*Scope
	animating bool
	err       error
}

// instance is the cell list of one mounted component.
type instance struct {
	cells    []any
	lastPass uint64
	used     int // hooks called during the previous visit, -1 before the first
}

// NewHookStore creates an empty store.
func NewHookStore() *HookStore {
	return &HookStore{instances: make(map[ID]*instance)}
}

// SetStrict turns on hook-order assertions. In strict mode a change in the
// number of hooks a component calls, or a cell read as a different kind of
// hook, fails the pass with ErrHookOrder.
func (h *HookStore) SetStrict(strict bool) { h.strict = strict }

// BeginPass starts a render pass and returns the scope of the root component.
// delta is the time since the previous draw and drives transitions; it is zero
// for passes that do not draw.
func (h *HookStore) BeginPass(delta time.Duration) *Scope {
	h.pass++
	h.delta = delta
	h.visited = h.visited[:0]
	h.animating = false
	h.err = nil
	return h.scope(rootID)
}

// EndPass finishes the current pass, checks hook counts in strict mode and
// drops the state of instances that were not rendered. It returns the first
// error reported during the pass.
func (h *HookStore) EndPass() error {
	for _, s := range h.visited {
		inst := s.inst
		if h.strict && inst.used >= 0 && inst.used != s.cursor {
			h.fail(fmt.Errorf("%w: instance %016x called %d hooks, previously %d",
				ErrHookOrder, uint64(s.id), s.cursor, inst.used))
		}
		inst.used = s.cursor
	}
	for id, inst := range h.instances {
		if inst.lastPass != h.pass {
			delete(h.instances, id)
		}
	}
	return h.err
}

// Len returns the number of live component instances.
func (h *HookStore) Len() int { return len(h.instances) }

// Animating reports whether a transition was still running at the end of the
// last pass.
func (h *HookStore) Animating() bool { return h.animating }

// Err returns the first error reported during the current pass.
func (h *HookStore) Err() error { return h.err }

func (h *HookStore) fail(err error) {
	if err != nil && h.err == nil {
		h.err = err
	}
}

func (h *HookStore) scope(id ID) *Scope {
	inst, ok := h.instances[id]
	if !ok {
		inst = &instance{used: -1}
		h.instances[id] = inst
	}
	inst.lastPass = h.pass
	s := &Scope{store: h, id: id, inst: inst}
	h.visited = append(h.visited, s)
	return s
}

func (h *HookStore) orderViolation(s *Scope, index int, want string) {
	err := fmt.Errorf("%w: instance %016x cell %d is not a %s", ErrHookOrder, uint64(s.id), index, want)
	if h.strict {
		h.fail(err)
		return
	}
	Logger().Warn("hook order violation, resetting cell", "instance", uint64(s.id), "cell", index, "want", want)
}

// Scope is the hook handle of one component instance during one pass.
// Components receive a Scope, call hooks on it, and derive child scopes for
// the components they mount.
type Scope struct {
	store    *HookStore
	id       ID
	inst     *instance
	cursor   int
	children int
	keys     map[string]struct{}
}

// ID returns the stable identity of the instance.
func (s *Scope) ID() ID { return s.id }

// Next returns the scope of the next unkeyed child. Identity follows mount
// position, so conditionally mounted children should use Key instead.
func (s *Scope) Next() *Scope {
	n := s.children
	s.children++
	return s.store.scope(positionalID(s.id, n))
}

// Key returns the scope of a child mounted under an explicit key. Keys must be
// unique among the children of one scope.
func (s *Scope) Key(key string) *Scope {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	if _, dup := s.keys[key]; dup {
		s.Fail(fmt.Errorf("%w: %q", ErrDuplicateKey, key))
	}
	s.keys[key] = struct{}{}
	return s.store.scope(keyedID(s.id, key))
}

// Fail reports an error that aborts the current pass.
func (s *Scope) Fail(err error) { s.store.fail(err) }

// Delta returns the time step of the current pass.
func (s *Scope) Delta() time.Duration { return s.store.delta }

// useCell returns the cell at the cursor, creating it with init on first use.
func useCell[C any](s *Scope, kind string, init func() *C) *C {
	i := s.cursor
	s.cursor++
	if i < len(s.inst.cells) {
		if c, ok := s.inst.cells[i].(*C); ok {
			return c
		}
		s.store.orderViolation(s, i, kind)
		c := init()
		s.inst.cells[i] = c
		return c
	}
	c := init()
	s.inst.cells = append(s.inst.cells, c)
	return c
}

type stateCell[T any] struct {
	value T
}

// UseState returns the value stored in the next cell of s, or initial on the
// first render, together with a setter. The setter overwrites the cell and
// does not schedule a render; the new value is seen on the next pass.
func UseState[T any](s *Scope, initial T) (T, func(T)) {
	c := useCell(s, "state", func() *stateCell[T] { return &stateCell[T]{value: initial} })
	return c.value, func(v T) { c.value = v }
}

type effectCell struct {
	deps []any
	ran  bool
}

// UseEffect runs effect synchronously when deps differ from the previous
// render. It always runs on the first render and on every render when deps is
// nil; an empty non-nil slice runs it once.
func UseEffect(s *Scope, effect func(), deps []any) {
	c := useCell(s, "effect", func() *effectCell { return &effectCell{} })
	if !c.ran || deps == nil || depsChanged(c.deps, deps) {
		effect()
	}
	c.ran = true
	c.deps = append(c.deps[:0], deps...)
}

func depsChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !depEqual(prev[i], next[i]) {
			return true
		}
	}
	return false
}

func depEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
