package actionqueue

import "testing"

func TestQueueActionPreservesOrder(t *testing.T) {
	q := NewInMemory()
	q.QueueAction(Action{Kind: KindNormal, Target: "a"})
	q.QueueAction(Action{Kind: KindNormal, Target: "b"})
	drained := q.Drain()
	if len(drained) != 2 || drained[0].Target != "a" || drained[1].Target != "b" {
		t.Fatalf("unexpected order: %+v", drained)
	}
}

func TestDrainEmptiesQueue(t *testing.T) {
	q := NewInMemory()
	q.QueueAction(Action{Kind: KindNormal})
	_ = q.Drain()
	if q.Len() != 0 {
		t.Fatalf("expected empty queue after drain, got %d", q.Len())
	}
}

func TestInitActionRunsOnlyOnce(t *testing.T) {
	q := NewInMemory()
	q.QueueAction(Action{Kind: KindInit, InitCharacterID: 7})
	q.QueueAction(Action{Kind: KindInit, InitCharacterID: 7})
	q.QueueAction(Action{Kind: KindInit, InitCharacterID: 8})
	if q.Len() != 2 {
		t.Fatalf("expected dedup to collapse repeat init for id 7, got len %d", q.Len())
	}
}

func TestInitActionDedupSurvivesDrain(t *testing.T) {
	q := NewInMemory()
	q.QueueAction(Action{Kind: KindInit, InitCharacterID: 1})
	_ = q.Drain()
	q.QueueAction(Action{Kind: KindInit, InitCharacterID: 1})
	if q.Len() != 0 {
		t.Fatalf("expected init action for id 1 to stay deduped across frames, got len %d", q.Len())
	}
}

func TestMixedKindsPreserveDisplayListOrder(t *testing.T) {
	q := NewInMemory()
	q.QueueAction(Action{Kind: KindInit, InitCharacterID: 1})
	q.QueueAction(Action{Kind: KindConstruct, Target: "clip1"})
	q.QueueAction(Action{Kind: KindNormal, Target: "clip1"})
	drained := q.Drain()
	if len(drained) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(drained))
	}
	if drained[0].Kind != KindInit || drained[1].Kind != KindConstruct || drained[2].Kind != KindNormal {
		t.Fatalf("unexpected kind order: %+v", drained)
	}
}
