// Package display holds the two child orderings every MovieClipState
// maintains over its placed children (§3, §4.5, §4.6): a depth-sorted
// render tree and an insertion-order execution list. They are kept as
// genuinely separate structures — a depth move never reorders execution,
// and a goto re-link never reorders rendering.
package display

import (
	"fmt"

	"github.com/google/btree"

	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Depth is a child's z-order slot. Depths are not frame-local: a child keeps
// its depth across frames until explicitly moved or removed.
type Depth int32

// Node is the external contract every placed child exposes to its parent
// clip (§3 DisplayNode). MovieClipState itself implements Node, which is
// what makes sprite nesting possible without a separate "leaf" type.
type Node interface {
	Depth() Depth
	SetDepth(Depth)
	PlaceFrame() int // frame on which this instance was placed; stable across Modify
	Transform() Matrix
	SetTransform(Matrix)
	ColorTransform() Cxform
	SetColorTransform(Cxform)
	Visible() bool
	SetVisible(bool)
	Removed() bool
	SetRemoved(bool)
	CharacterID() uint16
	Name() string
	SetName(string)
}

// Matrix and Cxform are aliases of the tagcursor record shapes, so callers
// of this package work with the same transform value types the binary
// parser produces.
type Matrix = tagcursor.Matrix
type Cxform = tagcursor.ColorTransform

// childEntry is the btree element: ordered purely by Depth so iteration
// yields render order directly.
type childEntry struct {
	depth Depth
	node  Node
}

func lessEntry(a, b childEntry) bool { return a.depth < b.depth }

// execLink is one node in the doubly-linked insertion-order execution list,
// independent of the depth btree (§4.6: children run their own run_frame in
// the order they were instantiated, not in depth order).
type execLink struct {
	node Node
	prev *execLink
	next *execLink
}

// Children tracks both orderings for one parent clip instance.
type Children struct {
	byDepth *btree.BTreeG[childEntry]
	head    *execLink
	tail    *execLink
	links   map[Node]*execLink
}

// NewChildren returns an empty child set.
func NewChildren() *Children {
	return &Children{
		byDepth: btree.NewG(32, lessEntry),
		links:   make(map[Node]*execLink),
	}
}

// Len reports the number of live children.
func (c *Children) Len() int { return c.byDepth.Len() }

// At returns the child at depth, if any.
func (c *Children) At(depth Depth) (Node, bool) {
	e, ok := c.byDepth.Get(childEntry{depth: depth})
	if !ok {
		return nil, false
	}
	return e.node, true
}

// Insert places node at its own Depth() in both the render tree and at the
// tail of the execution list (new instantiations always append; §4.6).
func (c *Children) Insert(node Node) error {
	depth := node.Depth()
	if _, exists := c.byDepth.Get(childEntry{depth: depth}); exists {
		return coreerrors.NewParseError("display.Insert", fmt.Errorf("depth %d already occupied", depth))
	}
	c.byDepth.ReplaceOrInsert(childEntry{depth: depth, node: node})
	link := &execLink{node: node, prev: c.tail}
	if c.tail != nil {
		c.tail.next = link
	} else {
		c.head = link
	}
	c.tail = link
	c.links[node] = link
	return nil
}

// Replace substitutes the child occupying depth with node, preserving that
// depth slot but re-appending node at the execution list's tail (identity
// replacement per §4.5's non-rewind "replace" rule).
func (c *Children) Replace(depth Depth, node Node) {
	c.removeDepth(depth)
	node.SetDepth(depth)
	_ = c.Insert(node)
}

// Remove evicts the child at depth from both orderings.
func (c *Children) Remove(depth Depth) {
	c.removeDepth(depth)
}

func (c *Children) removeDepth(depth Depth) {
	e, ok := c.byDepth.Get(childEntry{depth: depth})
	if !ok {
		return
	}
	c.byDepth.Delete(childEntry{depth: depth})
	link, ok := c.links[e.node]
	if !ok {
		return
	}
	if link.prev != nil {
		link.prev.next = link.next
	} else {
		c.head = link.next
	}
	if link.next != nil {
		link.next.prev = link.prev
	} else {
		c.tail = link.prev
	}
	delete(c.links, e.node)
}

// RemoveNode evicts node wherever it sits, used when a node's depth isn't
// known at the call site.
func (c *Children) RemoveNode(node Node) {
	c.removeDepth(node.Depth())
}

// AscendRenderOrder calls fn for every child from lowest to highest depth,
// stopping early if fn returns false. This is render order.
func (c *Children) AscendRenderOrder(fn func(Node) bool) {
	c.byDepth.Ascend(func(e childEntry) bool {
		return fn(e.node)
	})
}

// EachExecutionOrder calls fn for every child in the order it was inserted
// (instantiation order), used by FrameRunner to drive each child's own
// run_frame before the parent continues executing its own tags (§4.3, §4.6).
func (c *Children) EachExecutionOrder(fn func(Node)) {
	for l := c.head; l != nil; l = l.next {
		fn(l.node)
	}
}

// NextHighestDepth returns one past the highest currently-occupied depth,
// the allocation rule new dynamic placements (non-PlaceObject, e.g. ABC
// attachMovie) use to avoid colliding with authored content (supplemented
// feature, §SUPPLEMENTED FEATURES).
func (c *Children) NextHighestDepth() Depth {
	max, ok := c.byDepth.Max()
	if !ok {
		return 0
	}
	return max.depth + 1
}

// Clear evicts every child from both the depth order and the execution
// list. It runs no unload lifecycle; Goto's rewind does not call it.
func (c *Children) Clear() {
	c.byDepth.Clear(false)
	c.head = nil
	c.tail = nil
	c.links = make(map[Node]*execLink)
}
