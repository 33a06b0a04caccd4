// Package preload implements PreloadEngine (§4.2): a single forward pass
// from byte 0 of a movie's tag stream to its End tag, registering character
// definitions into a library.Library, building the frame-label map, and
// notifying the sound.Audio collaborator of streaming-audio metadata.
// DefineSprite recurses into its own nested preload pass over the sub-slice
// the tag carries.
//
// Grounded on the teacher's dechunker loop (internal/rtmp/chunk in the
// retrieved reference): a single scanning pass dispatching on a message/tag
// code, logging and continuing past local errors rather than aborting.
package preload

import (
	"log/slog"
	"strings"

	"github.com/coldfire-labs/swftimeline/internal/actionqueue"
	"github.com/coldfire-labs/swftimeline/internal/clip"
	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
	"github.com/coldfire-labs/swftimeline/internal/library"
	"github.com/coldfire-labs/swftimeline/internal/logger"
	"github.com/coldfire-labs/swftimeline/internal/sound"
	"github.com/coldfire-labs/swftimeline/internal/tagcursor"
)

// Engine runs the preload pass, accumulating results into a library.Library
// and a sound.Audio collaborator shared across the whole movie (root plus
// every nested sprite).
type Engine struct {
	Library    *library.Library
	Audio      sound.Audio
	Queue      actionqueue.ActionQueue
	Log        *slog.Logger
	SWFVersion int
}

// New returns an Engine wired to the given collaborators. swfVersion is the
// movie header's version, inherited by every nested sprite's
// MovieClipStatic (§SUPPLEMENTED FEATURES, gates §4.8's handler dispatch).
func New(lib *library.Library, audio sound.Audio, queue actionqueue.ActionQueue, swfVersion int) *Engine {
	return &Engine{Library: lib, Audio: audio, Queue: queue, Log: logger.Logger(), SWFVersion: swfVersion}
}

// Result is what one Scan call discovers about the timeline it scanned.
type Result struct {
	TotalFrames int
	FrameLabels map[string]int
	AudioStreamHeader *sound.StreamHeadInfo
	ScriptLimits *ScriptLimits
}

// ScriptLimits is the ScriptLimits tag's payload (§4.2).
type ScriptLimits struct {
	MaxRecursionDepth uint16
	ScriptTimeoutSeconds uint16
}

// Scan runs one preload pass over slice (the root movie, or a DefineSprite's
// nested window) registering everything it discovers into e's collaborators.
// characterID is 0 for the root timeline, matching the convention that
// character id 0 never appears in a DefineXxx tag.
func (e *Engine) Scan(characterID uint16, slice tagcursor.Slice) (*Result, error) {
	cur := tagcursor.NewCursor(slice)
	res := &Result{FrameLabels: make(map[string]int)}

	for !cur.AtEnd() {
		startPos := cur.Pos()
		header, err := cur.ReadTagHeader()
		if err != nil {
			e.Log.Warn("preload: malformed tag header, aborting scan", "character_id", characterID, "err", err)
			return res, coreerrors.NewParseError("preload.Scan", err)
		}
		payload, err := cur.ReadPayload(header.Length)
		if err != nil {
			e.Log.Warn("preload: payload read failed, skipping tag", "character_id", characterID, "tag_code", header.Code, "err", err)
			cur.Recover(startPos + header.HeaderLen + header.Length - cur.Pos())
			continue
		}

		if err := e.handleTag(characterID, header, payload, res); err != nil {
			e.Log.Warn("preload: tag handler error, continuing scan", "character_id", characterID, "tag_name", tagcursor.TagName(header.Code), "err", err)
		}

		if header.Code == tagcursor.TagEnd {
			break
		}
	}

	if res.AudioStreamHeader != nil {
		e.Audio.PreloadSoundStreamEnd(characterID)
	}
	return res, nil
}

func (e *Engine) handleTag(characterID uint16, header tagcursor.Header, payload tagcursor.Slice, res *Result) error {
	code := header.Code
	b := payload.Bytes()

	switch {
	case code == tagcursor.TagEnd:
		return nil

	case code == tagcursor.TagShowFrame:
		res.TotalFrames++
		return nil

	case code == tagcursor.TagFileAttributes:
		return nil

	case tagcursor.IsShapeDefinition(code):
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterShape(&library.ShapeCharacter{ID: id})
		return nil

	case tagcursor.IsMorphShapeDefinition(code):
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterMorphShape(&library.MorphShapeCharacter{ID: id})
		return nil

	case tagcursor.IsBitsDefinition(code):
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterBitmap(&library.BitmapCharacter{ID: id})
		return nil

	case code == tagcursor.TagDefineSound:
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterSound(&library.SoundCharacter{ID: id})
		return nil

	case tagcursor.IsFontDefinition(code):
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterFont(&library.FontCharacter{ID: id})
		return nil

	case tagcursor.IsTextDefinition(code), code == tagcursor.TagDefineEditText:
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterText(&library.TextCharacter{ID: id, IsEdit: code == tagcursor.TagDefineEditText})
		return nil

	case tagcursor.IsButtonDefinition(code):
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		e.Library.RegisterButton(&library.ButtonCharacter{ID: id})
		return nil

	case code == tagcursor.TagDefineButtonCxform:
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		if err := e.Library.ApplyButtonCxform(id); err != nil {
			e.Log.Warn("preload: DefineButtonCxform references unknown button", "character_id", id)
			return nil
		}
		return nil

	case code == tagcursor.TagDefineButtonSound:
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		if err := e.Library.ApplyButtonSound(id, "default", 0); err != nil {
			e.Log.Warn("preload: DefineButtonSound references unknown button", "character_id", id)
		}
		return nil

	case code == tagcursor.TagJPEGTables:
		e.Library.SetJPEGTables(append([]byte(nil), b...))
		return nil

	case code == tagcursor.TagDefineSprite:
		return e.handleDefineSprite(b, payload)

	case code == tagcursor.TagExportAssets:
		return e.handleExportAssets(b)

	case code == tagcursor.TagSymbolClass:
		return e.handleExportAssets(b) // same wire shape per SWF spec

	case code == tagcursor.TagFrameLabel:
		return e.handleFrameLabel(b, res)

	case tagcursor.IsSoundStreamHead(code):
		return e.handleSoundStreamHead(characterID, b, res)

	case code == tagcursor.TagSoundStreamBlock:
		if err := e.Audio.PreloadSoundStreamBlock(characterID, payload); err != nil {
			return coreerrors.NewResourceError("preload.SoundStreamBlock", err)
		}
		return nil

	case tagcursor.IsPlaceObject(code), tagcursor.IsRemoveObject(code):
		// Preload skips these tags: it keeps no depth map and tracks no
		// morph ratios; playback (not preload) performs the actual placement.
		return nil

	case code == tagcursor.TagScriptLimits:
		sl, err := parseScriptLimits(b)
		if err != nil {
			return err
		}
		res.ScriptLimits = sl
		return nil

	case code == tagcursor.TagDoInitAction:
		id, err := peekCharacterID(b)
		if err != nil {
			return err
		}
		rest, err := payload.From(2)
		if err != nil {
			return err
		}
		e.Queue.QueueAction(actionqueue.Action{Kind: actionqueue.KindInit, Bytecode: rest, InitCharacterID: id})
		return nil

	case code == tagcursor.TagDoABC:
		e.Queue.QueueAction(actionqueue.Action{Kind: actionqueue.KindDoABC, Bytecode: payload})
		return nil

	case code == tagcursor.TagDoAction:
		// DoAction tags at preload time are only discovered, not run; they
		// are re-read and queued during FrameRunner's own pass (§4.3).
		return nil

	default:
		return nil
	}
}

func (e *Engine) handleDefineSprite(b []byte, payload tagcursor.Slice) error {
	id, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return coreerrors.NewParseError("preload.DefineSprite", err)
	}
	frameCount, err := tagcursor.ReadUI16LE(b, 2)
	if err != nil {
		return coreerrors.NewParseError("preload.DefineSprite", err)
	}
	body, err := payload.From(4)
	if err != nil {
		return coreerrors.NewParseError("preload.DefineSprite", err)
	}

	static := clip.NewMovieClipStatic(id, body, e.SWFVersion)
	static.TotalFrames = int(frameCount)

	nested, err := e.Scan(id, body)
	if err != nil {
		e.Log.Warn("preload: nested sprite scan failed", "character_id", id, "err", err)
	}
	if nested != nil {
		static.FrameLabels = nested.FrameLabels
		if nested.TotalFrames > static.TotalFrames {
			static.TotalFrames = nested.TotalFrames
		}
		static.AudioStreamHeader = nested.AudioStreamHeader
	}

	e.Library.RegisterSprite(id, static)
	return nil
}

func (e *Engine) handleExportAssets(b []byte) error {
	if len(b) < 2 {
		return coreerrors.NewParseError("preload.ExportAssets", nil)
	}
	count, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return coreerrors.NewParseError("preload.ExportAssets", err)
	}
	off := 2
	for i := 0; i < int(count); i++ {
		id, err := tagcursor.ReadUI16LE(b, off)
		if err != nil {
			return coreerrors.NewParseError("preload.ExportAssets", err)
		}
		off += 2
		name, next, err := tagcursor.ReadString(b, off)
		if err != nil {
			return coreerrors.NewParseError("preload.ExportAssets", err)
		}
		off = next
		e.Library.RegisterExport(name, id)
	}
	return nil
}

func (e *Engine) handleFrameLabel(b []byte, res *Result) error {
	name, _, err := tagcursor.ReadString(b, 0)
	if err != nil {
		return coreerrors.NewParseError("preload.FrameLabel", err)
	}
	key := strings.ToLower(name)
	if _, exists := res.FrameLabels[key]; exists {
		e.Log.Warn("preload: duplicate frame label, keeping first occurrence", "label", name)
		return nil
	}
	// Frame number is res.TotalFrames+1: the label applies to the frame
	// currently being built, which ends at the next ShowFrame.
	res.FrameLabels[key] = res.TotalFrames + 1
	return nil
}

func (e *Engine) handleSoundStreamHead(characterID uint16, b []byte, res *Result) error {
	if len(b) < 4 {
		return coreerrors.NewParseError("preload.SoundStreamHead", nil)
	}
	info := sound.StreamHeadInfo{
		SampleRate: 44100, // default; exact rate/channel decode is a collaborator concern (§ Non-goals: codec bytes are opaque)
		Channels:   1,
	}
	res.AudioStreamHeader = &info
	if err := e.Audio.PreloadSoundStreamHead(characterID, info); err != nil {
		return coreerrors.NewResourceError("preload.SoundStreamHead", err)
	}
	return nil
}

func parseScriptLimits(b []byte) (*ScriptLimits, error) {
	if len(b) < 4 {
		return nil, coreerrors.NewParseError("preload.ScriptLimits", nil)
	}
	maxRecursion, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return nil, coreerrors.NewParseError("preload.ScriptLimits", err)
	}
	timeout, err := tagcursor.ReadUI16LE(b, 2)
	if err != nil {
		return nil, coreerrors.NewParseError("preload.ScriptLimits", err)
	}
	return &ScriptLimits{MaxRecursionDepth: maxRecursion, ScriptTimeoutSeconds: timeout}, nil
}

// peekCharacterID reads the character id every DefineXxx tag's payload
// begins with (the one near-universal convention across tag shapes).
func peekCharacterID(b []byte) (uint16, error) {
	id, err := tagcursor.ReadUI16LE(b, 0)
	if err != nil {
		return 0, coreerrors.NewParseError("preload.peekCharacterID", err)
	}
	return id, nil
}
