package playback

import (
	"github.com/coldfire-labs/swftimeline/internal/actionqueue"
	"github.com/coldfire-labs/swftimeline/internal/clip"
	"github.com/coldfire-labs/swftimeline/internal/display"
	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Goto implements the goto/seek algorithm (§4.4): moving state's playhead
// to targetFrame (1-based, clamped to [1, TotalFrames]) and leaving its
// children's render state exactly as if playback had advanced there
// tag-by-tag from frame 1, while only re-executing DoAction bytecode for
// frames actually skipped once (not once per skipped frame).
//
// Rewind (targetFrame <= CurrentFrame) restarts the tag cursor at offset 0
// and evicts every child placed after targetFrame before replaying; fast-forward (targetFrame >
// CurrentFrame) continues scanning from the current cursor position,
// touching only the depths a skipped PlaceObject/RemoveObject actually
// named. This asymmetry is why goto cannot simply be "N calls to
// run_frame": a naive replay-from-1 on every goto would re-run every
// earlier frame's actions again, producing duplicate side effects a single
// goto must not have.
func (r *Runner) Goto(state *clip.MovieClipState, targetFrame int) error {
	total := state.Static.TotalFrames
	if total <= 0 {
		return nil
	}
	if targetFrame < 1 {
		targetFrame = 1
	}
	if targetFrame > total {
		targetFrame = total // clamp, no retroactive re-seek past the end (Open Question, see DESIGN.md)
	}

	isRewind := targetFrame <= state.CurrentFrame
	var startPos int
	if isRewind {
		r.evictAboveFrame(state, targetFrame)
		state.CurrentFrame = 0
		state.TagCursorPos = 0
		startPos = 0
	} else {
		startPos = state.TagCursorPos
	}

	agg, err := r.scanAndAggregate(state, startPos, targetFrame)
	if err != nil {
		return err
	}

	for _, bc := range agg.actions {
		r.Queue.QueueAction(actionqueue.Action{Kind: actionqueue.KindNormal, Target: state, Bytecode: bc})
	}

	for depth, delta := range agg.deltas {
		d := delta
		placeFrame := d.PlaceFrame
		if isRewind {
			if existing, ok := state.Children.At(delta.Depth); ok {
				// Survivor: a child with place_frame <= targetFrame remains
				// identity-stable absent an intervening Replace/Remove
				// (§4.4 invariant 3) — apply only the field-level changes
				// the rescan observed, never reinstantiate it.
				d.ApplyTo(existing)
				continue
			}
			d.NormalizeForRewindPlace()
			d.Action = display.ActionPlace
		}
		if err := r.applyDelta(state, d, placeFrame); err != nil {
			r.Log.Warn("playback: goto delta application failed, continuing", "depth", depth, "err", err)
		}
	}

	for depth := range agg.removed {
		if !hasSurvivingDelta(agg, depth) {
			if node, ok := state.Children.At(depth); ok {
				r.unload(node)
			}
			state.Children.Remove(depth)
		}
	}

	state.CurrentFrame = targetFrame - 1
	state.TagCursorPos = agg.finalPos
	wasPlaying := state.IsPlaying()
	state.Play()
	err = r.runFrameInternal(state, true)
	if !wasPlaying {
		state.Stop()
	}
	return err
}

// evictAboveFrame unloads and removes every child placed after targetFrame,
// leaving children placed at or before targetFrame in place so a rewind
// preserves their identity (§4.4 invariant 3) instead of discarding the
// whole display list.
func (r *Runner) evictAboveFrame(state *clip.MovieClipState, targetFrame int) {
	var stale []display.Depth
	state.Children.AscendRenderOrder(func(n display.Node) bool {
		if n.PlaceFrame() > targetFrame {
			stale = append(stale, n.Depth())
		}
		return true
	})
	for _, depth := range stale {
		node, ok := state.Children.At(depth)
		if !ok {
			continue
		}
		r.unload(node)
		state.Children.Remove(depth)
	}
}

func hasSurvivingDelta(agg *aggregation, depth display.Depth) bool {
	_, ok := agg.deltas[depth]
	return ok
}

// aggregation is the result of scanning [fromPos, targetFrame) once: the net
// PlaceObjectDelta per depth ("last write wins" per field, §4.4), the set of
// depths that saw a RemoveObject with no subsequent re-Place, every DoAction
// bytecode slice encountered in order, and the cursor position at the start
// of targetFrame's own tags.
type aggregation struct {
	deltas  map[display.Depth]display.PlaceObjectDelta
	removed map[display.Depth]bool
	actions []tagcursor.Slice
	finalPos int
}

func (r *Runner) scanAndAggregate(state *clip.MovieClipState, fromPos int, targetFrame int) (*aggregation, error) {
	agg := &aggregation{
		deltas:  make(map[display.Depth]display.PlaceObjectDelta),
		removed: make(map[display.Depth]bool),
	}

	cur := tagcursor.NewCursor(state.Static.Bytes)
	if err := cur.SeekTo(fromPos); err != nil {
		return nil, coreerrors.NewBoundsError("playback.scanAndAggregate", err)
	}

	framesSeen := state.CurrentFrame
	for framesSeen < targetFrame-1 {
		if cur.AtEnd() {
			break
		}
		startPos := cur.Pos()
		header, err := cur.ReadTagHeader()
		if err != nil {
			r.Log.Warn("playback: goto scan hit malformed header, stopping aggregation", "err", err)
			return nil, coreerrors.NewParseError("playback.scanAndAggregate", err)
		}
		payload, err := cur.ReadPayload(header.Length)
		if err != nil {
			cur.Recover(startPos + header.HeaderLen + header.Length - cur.Pos())
			continue
		}

		switch {
		case header.Code == tagcursor.TagEnd:
			framesSeen = targetFrame - 1 // nothing more to find
		case header.Code == tagcursor.TagShowFrame:
			framesSeen++
		case tagcursor.IsPlaceObject(header.Code):
			delta, err := decodePlaceObject(header.Code, payload)
			if err != nil {
				r.Log.Warn("playback: goto scan failed to decode PlaceObject, skipping", "err", err)
				continue
			}
			delta.PlaceFrame = framesSeen + 1
			if acc, ok := agg.deltas[delta.Depth]; ok {
				acc.MergeInto(delta)
				agg.deltas[delta.Depth] = acc
			} else {
				agg.deltas[delta.Depth] = delta
			}
			delete(agg.removed, delta.Depth)
		case tagcursor.IsRemoveObject(header.Code):
			depth, ok := removeObjectDepth(header.Code, payload)
			if ok {
				delete(agg.deltas, depth)
				agg.removed[depth] = true
			}
		case header.Code == tagcursor.TagDoAction:
			agg.actions = append(agg.actions, payload)
		}
	}

	agg.finalPos = cur.Pos()
	return agg, nil
}

func removeObjectDepth(code int, payload tagcursor.Slice) (display.Depth, bool) {
	b := payload.Bytes()
	if code == tagcursor.TagRemoveObject {
		if len(b) < 4 {
			return 0, false
		}
		depth, err := tagcursor.ReadUI16LE(b, 2)
		if err != nil {
			return 0, false
		}
		return display.Depth(depth), true
	}
	if len(b) < 2 {
		return 0, false
	}
	depth, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return 0, false
	}
	return display.Depth(depth), true
}

// GotoLabel resolves label via static.FrameLabelToNumber and delegates to
// Goto (§SUPPLEMENTED FEATURES: goto-by-label).
func (r *Runner) GotoLabel(state *clip.MovieClipState, label string) error {
	frame, ok := state.Static.FrameLabelToNumber(label)
	if !ok {
		return coreerrors.NewMissingTarget("playback.GotoLabel", 0, "frame label "+label)
	}
	return r.Goto(state, frame)
}
