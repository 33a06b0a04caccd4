// Package actionqueue implements the ActionQueue collaborator (§3, §4.3,
// §4.4): the boundary between this core's tag-driven scheduling of
// ActionScript work and the actual bytecode interpreter, which is
// explicitly out of scope (§ Non-goals — "ActionScript interpretation is an
// external collaborator"). Grounded on the teacher's media.Subscriber
// pattern: a narrow interface plus a default in-memory queue usable by
// tests and the demo CLI.
package actionqueue

import (
	"sync"

	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Kind distinguishes the ways bytecode can reach the queue.
type Kind int

const (
	// KindNormal is a DoAction tag's bytecode, run in display-list order
	// during the frame it was encountered.
	KindNormal Kind = iota
	// KindInit is a DoInitAction tag's bytecode, queued by PreloadEngine
	// while it scans the tag stream, at most once per character id.
	KindInit
	// KindMethod is a conventional clip-event handler-method call
	// (onEnterFrame, etc.), enqueued by clipevents at swf_version>=6 (§4.8).
	KindMethod
	// KindConstruct is a sprite instance's "Construct" lifecycle action,
	// dispatched when a new instance is first placed.
	KindConstruct
	// KindInitialize is a sprite instance's "Initialize" lifecycle action,
	// dispatched once after Load, ahead of any per-frame actions (§4.8).
	KindInitialize
	// KindDoABC is an ActionScript 3 DoABC tag's bytecode, queued once for
	// the whole movie rather than per-instance.
	KindDoABC
)

// Action is one unit of queued work. Target identifies the clip instance
// (an opaque handle minted by package clip) the bytecode should run
// against; it is any to avoid actionqueue depending on clip.
type Action struct {
	Kind       Kind
	Target     any
	Bytecode   tagcursor.Slice
	MethodName string // KindMethod only, e.g. "onEnterFrame"
	InitCharacterID uint16 // KindInit only: dedup key so init actions run once
}

// ActionQueue is the collaborator playback enqueues onto; draining/running
// the queue against a real interpreter happens entirely outside this core.
type ActionQueue interface {
	// QueueAction appends one action to the end of the queue, preserving
	// the relative order actions were discovered in during a frame
	// (§4.3: actions execute in display-list order within a frame).
	QueueAction(a Action)
	// Drain returns every queued action and empties the queue, called once
	// per frame (or once per goto) by whatever owns the interpreter.
	Drain() []Action
	// Len reports the number of currently queued actions.
	Len() int
}

// InMemory is a dependency-free ActionQueue: a single ordered slice guarded
// by a mutex, with init-action dedup by character id (a second KindInit
// action for an already-seen InitCharacterID is dropped).
type InMemory struct {
	mu           sync.Mutex
	actions      []Action
	initDoneOnce map[uint16]bool
}

// NewInMemory returns an empty queue.
func NewInMemory() *InMemory {
	return &InMemory{initDoneOnce: make(map[uint16]bool)}
}

func (q *InMemory) QueueAction(a Action) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if a.Kind == KindInit {
		if q.initDoneOnce[a.InitCharacterID] {
			return
		}
		q.initDoneOnce[a.InitCharacterID] = true
	}
	q.actions = append(q.actions, a)
}

func (q *InMemory) Drain() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.actions
	q.actions = nil
	return out
}

func (q *InMemory) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}
