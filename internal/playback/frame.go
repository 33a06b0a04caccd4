// Package playback implements FrameRunner and GotoEngine (§4.3-§4.6): the
// per-frame tag execution loop and the goto/seek algorithm built on top of
// it. The two are kept in one package rather than split across two,
// mirroring the teacher's tendency to bundle tightly coupled concerns into
// a single package (internal/rtmp/server in the retrieved reference bundles
// registry.go, server.go, play_handler.go, publish_handler.go and
// command_integration.go together) — goto's three-pass execution directly
// re-enters FrameRunner's own tag-execution logic and shares its
// identity/merge rules, so splitting them would just add an import edge
// back and forth.
package playback

import (
	"log/slog"

	"github.com/coldfire-labs/swftimeline/internal/actionqueue"
	"github.com/coldfire-labs/swftimeline/internal/clip"
	"github.com/coldfire-labs/swftimeline/internal/clipevents"
	"github.com/coldfire-labs/swftimeline/internal/display"
	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
	"github.com/coldfire-labs/swftimeline/internal/library"
	"github.com/coldfire-labs/swftimeline/internal/logger"
	"github.com/coldfire-labs/swftimeline/internal/sound"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Runner drives FrameRunner/GotoEngine against the collaborators every
// clip instance shares.
type Runner struct {
	Library *library.Library
	Audio   sound.Audio
	Queue   actionqueue.ActionQueue
	Events  *clipevents.Dispatcher
	Log     *slog.Logger
}

// NewRunner wires a Runner to its collaborators.
func NewRunner(lib *library.Library, audio sound.Audio, queue actionqueue.ActionQueue) *Runner {
	return &Runner{Library: lib, Audio: audio, Queue: queue, Events: clipevents.New(queue), Log: logger.Logger()}
}

// RunFrame advances state by exactly one frame if it is playing, executing
// every display/action tag encountered (§4.3). Children always run their
// own frame first, regardless of the parent's own Playing flag — a stopped
// parent still lets its children animate.
func (r *Runner) RunFrame(state *clip.MovieClipState) error {
	return r.runFrameInternal(state, true)
}

// runFrameInternal is the core recursive step shared by RunFrame and
// Goto (§4.4). Children always run their own frame first. With
// runDisplayTags false nothing else happens: this clip's tags are not
// read, and its playhead and cursor do not move.
func (r *Runner) runFrameInternal(state *clip.MovieClipState, runDisplayTags bool) error {
	state.Children.EachExecutionOrder(func(n display.Node) {
		child, ok := n.(*clip.MovieClipState)
		if !ok || child.Removed() {
			return
		}
		if err := r.runFrameInternal(child, true); err != nil {
			r.Log.Warn("playback: child run_frame failed, continuing", "character_id", child.CharacterID(), "err", err)
		}
	})

	if !runDisplayTags {
		return nil
	}
	if !state.IsPlaying() {
		return nil
	}

	total := state.Static.TotalFrames
	if total <= 0 {
		return nil
	}

	if state.CurrentFrame == total && total == 1 {
		state.Stop() // single-frame clip: nothing to advance or loop to (§4.3 step 1)
		return nil
	}

	nextFrame := state.CurrentFrame + 1
	cursorPos := state.TagCursorPos
	if nextFrame > total {
		nextFrame = 1
		cursorPos = 0
	}

	cur := tagcursor.NewCursor(state.Static.Bytes)
	if err := cur.SeekTo(cursorPos); err != nil {
		return coreerrors.NewBoundsError("playback.runFrameInternal", err)
	}

	if err := r.executeUntilShowFrame(state, cur); err != nil {
		return err
	}

	state.CurrentFrame = nextFrame
	state.TagCursorPos = cur.Pos()
	return nil
}

// executeUntilShowFrame runs tags from cur's current position through the
// next ShowFrame (inclusive), dispatching the handlers named in §4.3.
func (r *Runner) executeUntilShowFrame(state *clip.MovieClipState, cur *tagcursor.Cursor) error {
	blockSeen := false
	for {
		if cur.AtEnd() {
			r.settleStream(state, blockSeen)
			return nil
		}
		startPos := cur.Pos()
		header, err := cur.ReadTagHeader()
		if err != nil {
			r.Log.Warn("playback: malformed tag header, stopping frame scan", "err", err)
			return coreerrors.NewParseError("playback.executeUntilShowFrame", err)
		}
		payload, err := cur.ReadPayload(header.Length)
		if err != nil {
			r.Log.Warn("playback: payload read failed, recovering", "tag_code", header.Code, "err", err)
			cur.Recover(startPos + header.HeaderLen + header.Length - cur.Pos())
			continue
		}

		switch {
		case header.Code == tagcursor.TagEnd:
			r.settleStream(state, blockSeen)
			return nil
		case header.Code == tagcursor.TagShowFrame:
			r.settleStream(state, blockSeen)
			return nil
		case tagcursor.IsPlaceObject(header.Code):
			if err := r.placeObject(state, header.Code, payload); err != nil {
				r.Log.Warn("playback: PlaceObject failed, continuing", "err", err)
			}
		case tagcursor.IsRemoveObject(header.Code):
			if err := r.removeObject(state, header.Code, payload); err != nil {
				r.Log.Warn("playback: RemoveObject failed, continuing", "err", err)
			}
		case header.Code == tagcursor.TagDoAction:
			r.Queue.QueueAction(actionqueue.Action{Kind: actionqueue.KindNormal, Target: state, Bytecode: payload})
		case header.Code == tagcursor.TagStartSound, header.Code == tagcursor.TagStartSound2:
			r.handleStartSound(state, header.Code, payload)
		case header.Code == tagcursor.TagSoundStreamBlock:
			blockSeen = true
			if !r.Audio.IsStreamActive(state.AudioHandle) {
				_ = r.Audio.StartStream(state.AudioHandle, state.CharacterID())
			}
		case header.Code == tagcursor.TagSetBackgroundColor:
			// Stage-level rendering attribute; no effect on timeline state.
		}
	}
}

// settleStream stops a frame's active stream once a frame passes with no
// SoundStreamBlock (§4.3 step 4, §4.7: "on the first frame after a
// streaming frame with no block, stop the stream").
func (r *Runner) settleStream(state *clip.MovieClipState, blockSeen bool) {
	if !blockSeen && r.Audio.IsStreamActive(state.AudioHandle) {
		r.Audio.StopStream(state.AudioHandle)
	}
}

func (r *Runner) handleStartSound(state *clip.MovieClipState, code int, payload tagcursor.Slice) {
	b := payload.Bytes()
	off := 0
	var id uint16
	if code == tagcursor.TagStartSound2 {
		name, next, err := tagcursor.ReadString(b, 0)
		if err != nil {
			r.Log.Warn("playback: StartSound2 class name read failed", "err", err)
			return
		}
		resolved, ok := r.Library.ResolveExport(name)
		if !ok {
			r.Log.Warn("playback: StartSound2 references unresolved export", "name", name)
			return
		}
		id = resolved
		off = next
	} else {
		resolved, err := tagcursor.ReadUI16LE(b, 0)
		if err != nil {
			return
		}
		id = resolved
		off = 2
	}

	mode := sound.ModeEvent
	loopCount := 1
	if len(b) > off {
		flags := b[off]
		if flags&(1<<5) != 0 {
			mode = sound.ModeStop
		} else if flags&(1<<6) != 0 {
			mode = sound.ModeStart
		}
	}
	if err := r.Audio.StartSound(state.AudioHandle, id, mode, loopCount); err != nil {
		r.Log.Warn("playback: StartSound collaborator error", "sound_id", id, "err", err)
	}
}
