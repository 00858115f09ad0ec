package wgui

import "fmt"

// Node is one element of the closure tree produced by rendering components.
// It is one of Leaf, Fragment or Empty.
type Node interface {
	node()
}

// Leaf reacts to one event. It may return a further node, which is dispatched
// the same event; this lets a leaf decide its subtree at dispatch time.
type Leaf func(ctx *Context, ev Event) Node

// Fragment groups nodes that are dispatched in order.
type Fragment []Node

// Empty renders nothing.
type Empty struct{}

func (Leaf) node()     {}
func (Fragment) node() {}
func (Empty) node()    {}

// Group is shorthand for Fragment(nodes).
func Group(nodes ...Node) Node { return Fragment(nodes) }

// Component renders a subtree using the hooks of its scope.
type Component func(s *Scope) Node

// Mount renders c as the next unkeyed child of s.
func Mount(s *Scope, c Component) Node { return c(s.Next()) }

// MountKey renders c as a child of s identified by key.
func MountKey(s *Scope, key string, c Component) Node { return c(s.Key(key)) }

// Dispatch walks n depth-first and delivers ev to every leaf. It stops as
// soon as the context records a failure.
func Dispatch(ctx *Context, n Node, ev Event) {
	if ctx.err != nil {
		return
	}
	switch n := n.(type) {
	case nil, Empty:
	case Leaf:
		if n != nil {
			Dispatch(ctx, n(ctx, ev), ev)
		}
	case Fragment:
		for _, child := range n {
			Dispatch(ctx, child, ev)
			if ctx.err != nil {
				return
			}
		}
	default:
		ctx.Fail(fmt.Errorf("wgui: unsupported node %T", n))
	}
}
