package playback

import (
	"github.com/coldfire-labs/swftimeline/internal/clip"
	"github.com/coldfire-labs/swftimeline/internal/display"
	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
	"github.com/coldfire-labs/swftimeline/internal/library"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// decodePlaceObject parses a PlaceObject/PlaceObject2/PlaceObject3 payload
// into a display.PlaceObjectDelta (§3, §4.5). PlaceObject3's filter list,
// blend mode, and bitmap-cache hint fields are parsed past but not
// interpreted — this core's scope is display-list/timeline semantics, not
// rendering attributes.
func decodePlaceObject(code int, payload tagcursor.Slice) (display.PlaceObjectDelta, error) {
	b := payload.Bytes()

	if code == tagcursor.TagPlaceObject {
		return decodePlaceObjectV1(b)
	}
	return decodePlaceObjectV2(b)
}

func decodePlaceObjectV1(b []byte) (display.PlaceObjectDelta, error) {
	if len(b) < 4 {
		return display.PlaceObjectDelta{}, coreerrors.NewParseError("playback.decodePlaceObjectV1", nil)
	}
	charID, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return display.PlaceObjectDelta{}, err
	}
	depth, err := tagcursor.ReadUI16LE(b, 2)
	if err != nil {
		return display.PlaceObjectDelta{}, err
	}
	d := display.PlaceObjectDelta{
		Action:      display.ActionPlace,
		Depth:       display.Depth(depth),
		CharacterID: charID,
	}
	if len(b) > 4 {
		m, n, err := tagcursor.ReadMatrix(b[4:])
		if err == nil {
			d.HasMatrix = true
			d.Matrix = m
			_ = n
		}
	}
	return d, nil
}

// placeObject2Flags bit positions, low byte (§4.5 wire layout).
const (
	po2FlagMove = 1 << iota
	po2FlagHasCharacter
	po2FlagHasMatrix
	po2FlagHasColorTransform
	po2FlagHasRatio
	po2FlagHasName
	po2FlagHasClipDepth
	po2FlagHasClipActions
)

func decodePlaceObjectV2(b []byte) (display.PlaceObjectDelta, error) {
	if len(b) < 3 {
		return display.PlaceObjectDelta{}, coreerrors.NewParseError("playback.decodePlaceObjectV2", nil)
	}
	flags := b[0]
	depth, err := tagcursor.ReadUI16LE(b, 1)
	if err != nil {
		return display.PlaceObjectDelta{}, err
	}
	off := 3

	d := display.PlaceObjectDelta{Depth: display.Depth(depth)}
	move := flags&po2FlagMove != 0
	hasCharacter := flags&po2FlagHasCharacter != 0

	switch {
	case hasCharacter && !move:
		d.Action = display.ActionPlace
	case hasCharacter && move:
		d.Action = display.ActionReplace
	default:
		d.Action = display.ActionModify
	}

	if hasCharacter {
		id, err := tagcursor.ReadUI16LE(b, off)
		if err != nil {
			return display.PlaceObjectDelta{}, err
		}
		d.CharacterID = id
		off += 2
	}
	if flags&po2FlagHasMatrix != 0 {
		m, n, err := tagcursor.ReadMatrix(b[off:])
		if err != nil {
			return display.PlaceObjectDelta{}, err
		}
		d.HasMatrix = true
		d.Matrix = m
		off += n
	}
	if flags&po2FlagHasColorTransform != 0 {
		ct, n, err := tagcursor.ReadColorTransform(b[off:], true)
		if err != nil {
			return display.PlaceObjectDelta{}, err
		}
		d.HasColorTransform = true
		d.ColorTransform = ct
		off += n
	}
	if flags&po2FlagHasRatio != 0 {
		if off+2 > len(b) {
			return display.PlaceObjectDelta{}, coreerrors.NewParseError("playback.decodePlaceObjectV2", nil)
		}
		ratio, err := tagcursor.ReadUI16LE(b, off)
		if err != nil {
			return display.PlaceObjectDelta{}, err
		}
		d.HasRatio = true
		d.Ratio = ratio
		off += 2
	}
	if flags&po2FlagHasName != 0 {
		name, next, err := tagcursor.ReadString(b, off)
		if err != nil {
			return display.PlaceObjectDelta{}, err
		}
		d.HasName = true
		d.Name = name
		off = next
	}
	if flags&po2FlagHasClipDepth != 0 {
		if off+2 > len(b) {
			return display.PlaceObjectDelta{}, coreerrors.NewParseError("playback.decodePlaceObjectV2", nil)
		}
		cd, err := tagcursor.ReadUI16LE(b, off)
		if err != nil {
			return display.PlaceObjectDelta{}, err
		}
		d.HasClipDepth = true
		d.ClipDepth = display.Depth(cd)
	}
	// ClipActionRecords (po2FlagHasClipActions) are not decoded: the delta
	// carries no clip actions, and neither does an instance it places.
	return d, nil
}

// placeObject applies one PlaceObject tag against state's children (§4.5):
// resolving the character, applying the identity rule, and running the
// merge-rule semantics for Modify.
func (r *Runner) placeObject(state *clip.MovieClipState, code int, payload tagcursor.Slice) error {
	delta, err := decodePlaceObject(code, payload)
	if err != nil {
		return err
	}
	return r.applyDelta(state, delta, state.CurrentFrame+1)
}

// applyDelta resolves one aggregated or single delta against state's
// children, used both by live PlaceObject execution and by GotoEngine's
// three-pass replay of aggregated per-depth deltas (§4.4, §4.5).
func (r *Runner) applyDelta(state *clip.MovieClipState, delta display.PlaceObjectDelta, placeFrame int) error {
	existing, hasExisting := state.Children.At(delta.Depth)

	switch delta.Action {
	case display.ActionModify:
		if !hasExisting {
			return nil // Modify with nothing at that depth is a no-op (§4.5)
		}
		delta.ApplyTo(existing)
		return nil

	case display.ActionPlace, display.ActionReplace:
		node, err := r.instantiate(state, delta.CharacterID, delta.Depth, placeFrame)
		if err != nil {
			return err
		}
		delta.ApplyTo(node)
		if hasExisting {
			r.unload(existing)
			state.Children.Replace(delta.Depth, node)
		} else {
			if err := state.Children.Insert(node); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// unload runs the Unload lifecycle (§4.6, §4.8, testable property 6) on node
// before it is evicted from its parent's display list: descendants unload
// before the node itself, its sounds stop and its audio handle clears, the
// Unload event fires, and it is marked removed so any still-reachable
// reference (a lingering ScriptObject, a queued action) observes eviction.
func (r *Runner) unload(node display.Node) {
	child, ok := node.(*clip.MovieClipState)
	if !ok {
		return
	}
	child.Children.EachExecutionOrder(func(n display.Node) {
		r.unload(n)
	})
	r.Audio.StopSoundsWithHandle(child.AudioHandle)
	child.AudioHandle = 0
	if r.Events != nil {
		r.Events.DispatchUnload(child)
	}
	child.SetRemoved(true)
}

// instantiate resolves characterID via the library and returns a fresh
// display.Node — a *clip.MovieClipState for sprites (recursing the nested
// timeline), a *display.BasicNode for everything else.
func (r *Runner) instantiate(parent *clip.MovieClipState, characterID uint16, depth display.Depth, placeFrame int) (display.Node, error) {
	val, kind, ok := r.Library.Get(characterID)
	if !ok {
		return nil, coreerrors.NewMissingCharacter("playback.instantiate", characterID)
	}

	if kind == library.KindSprite {
		sc := val.(*library.SpriteCharacter)
		static, ok := clip.ResolveSpriteTimeline(sc)
		if !ok {
			return nil, coreerrors.NewMissingTarget("playback.instantiate", characterID, "sprite")
		}
		child := clip.NewChildState(static, depth, placeFrame, parent, parent.AudioHandle)
		if !child.IsInitialized() {
			child.QueueConstructAction(r.Queue)
			child.MarkInitialized()
		}
		return child, nil
	}

	return display.NewBasicNode(characterID, depth, placeFrame), nil
}

// removeObject applies a RemoveObject/RemoveObject2 tag (§4.5): the old
// RemoveObject form removes by (character id, depth); RemoveObject2 removes
// by depth alone.
func (r *Runner) removeObject(state *clip.MovieClipState, code int, payload tagcursor.Slice) error {
	b := payload.Bytes()
	if code == tagcursor.TagRemoveObject {
		if len(b) < 4 {
			return coreerrors.NewParseError("playback.removeObject", nil)
		}
		depth, err := tagcursor.ReadUI16LE(b, 2)
		if err != nil {
			return err
		}
		r.removeChildAtDepth(state, display.Depth(depth))
		return nil
	}
	if len(b) < 2 {
		return coreerrors.NewParseError("playback.removeObject", nil)
	}
	depth, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return err
	}
	r.removeChildAtDepth(state, display.Depth(depth))
	return nil
}

// removeChildAtDepth evicts the child occupying depth, running the full
// Unload lifecycle first (§4.6).
func (r *Runner) removeChildAtDepth(state *clip.MovieClipState, depth display.Depth) {
	node, ok := state.Children.At(depth)
	if !ok {
		return
	}
	r.unload(node)
	state.Children.Remove(depth)
}
