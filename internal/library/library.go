// Package library implements the CharacterLibrary collaborator (§3, §4.2):
// the table of character definitions a PreloadEngine registers into as it
// scans a movie, and that playback consults to resolve a PlaceObject's
// character id into concrete content.
//
// Mirrors the teacher's stream registry (internal/rtmp/server/registry.go
// in the retrieved reference): a mutex-guarded map keyed by id, with
// opaque interface{} character values to avoid an import cycle — the
// sprite timeline a SpriteCharacter wraps lives in package clip, which
// itself imports library, so library cannot import clip back.
package library

import (
	"fmt"
	"strings"
	"sync"

	coreerrors "github.com/coldfire-labs/swftimeline/internal/errors"
)

// Kind distinguishes the character variants stored in the library.
type Kind int

const (
	KindShape Kind = iota
	KindSprite
	KindButton
	KindSound
	KindFont
	KindText
	KindBitmap
	KindMorphShape
	KindBinaryData
)

// ShapeCharacter is a DefineShape[1-4] definition. Only the fields playback
// needs are kept; actual outline/fill data is opaque to this core.
type ShapeCharacter struct {
	ID     uint16
	Bounds [4]int32 // xmin,xmax,ymin,ymax in twips
}

// SpriteCharacter wraps a nested MovieClipStatic timeline. Timeline is
// interface{} (holding a *clip.MovieClipStatic) specifically to avoid the
// clip<->library import cycle — see package doc.
type SpriteCharacter struct {
	ID       uint16
	Timeline any
}

// ButtonCharacter is a DefineButton[1-2] definition: per-state character
// references plus an optional Cxform/sound table, mutated later by
// DefineButtonCxform/DefineButtonSound tags (§4.2).
type ButtonCharacter struct {
	ID          uint16
	States      map[string][]uint16 // "up"/"over"/"down"/"hitTest" -> character ids
	CxformApplied bool
	SoundTable  map[string]uint16 // state -> sound character id
}

// SoundCharacter is a DefineSound definition's metadata; PCM/compressed
// sample bytes are handed to the Audio collaborator, not kept here.
type SoundCharacter struct {
	ID         uint16
	SampleRate uint32
	Channels   int
	SampleCount uint32
}

// FontCharacter is a DefineFont[1-3] definition.
type FontCharacter struct {
	ID   uint16
	Name string
}

// TextCharacter is a DefineText[1-2] or DefineEditText definition.
type TextCharacter struct {
	ID       uint16
	IsEdit   bool
	InitialText string
}

// BitmapCharacter is a DefineBits*/DefineBitsLossless* definition.
type BitmapCharacter struct {
	ID     uint16
	Width  int
	Height int
}

// MorphShapeCharacter is a DefineMorphShape[1-2] definition.
type MorphShapeCharacter struct {
	ID uint16
}

// entry pairs a stored character with its kind so Get can type-switch
// without every caller needing to know the concrete Go type up front.
type entry struct {
	kind Kind
	val  any
}

// Library is the in-memory CharacterLibrary implementation every
// PreloadEngine registers into and every playback component reads from.
type Library struct {
	mu          sync.RWMutex
	characters  map[uint16]entry
	exports     map[string]uint16 // lowercased export name -> character id
	jpegTables  []byte
	sounds      map[uint16]*SoundCharacter
}

// New returns an empty library.
func New() *Library {
	return &Library{
		characters: make(map[uint16]entry),
		exports:    make(map[string]uint16),
		sounds:     make(map[uint16]*SoundCharacter),
	}
}

// RegisterShape stores a ShapeCharacter.
func (l *Library) RegisterShape(c *ShapeCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[c.ID] = entry{kind: KindShape, val: c}
}

// RegisterSprite stores a SpriteCharacter. timeline is typically a
// *clip.MovieClipStatic, passed as any to avoid the import cycle.
func (l *Library) RegisterSprite(id uint16, timeline any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[id] = entry{kind: KindSprite, val: &SpriteCharacter{ID: id, Timeline: timeline}}
}

// RegisterButton stores a ButtonCharacter.
func (l *Library) RegisterButton(c *ButtonCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c.States == nil {
		c.States = make(map[string][]uint16)
	}
	if c.SoundTable == nil {
		c.SoundTable = make(map[string]uint16)
	}
	l.characters[c.ID] = entry{kind: KindButton, val: c}
}

// RegisterSound stores a SoundCharacter, also indexed in the sounds map for
// GetSound's fast path.
func (l *Library) RegisterSound(c *SoundCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[c.ID] = entry{kind: KindSound, val: c}
	l.sounds[c.ID] = c
}

// RegisterFont stores a FontCharacter.
func (l *Library) RegisterFont(c *FontCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[c.ID] = entry{kind: KindFont, val: c}
}

// RegisterText stores a TextCharacter.
func (l *Library) RegisterText(c *TextCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[c.ID] = entry{kind: KindText, val: c}
}

// RegisterBitmap stores a BitmapCharacter.
func (l *Library) RegisterBitmap(c *BitmapCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[c.ID] = entry{kind: KindBitmap, val: c}
}

// RegisterMorphShape stores a MorphShapeCharacter.
func (l *Library) RegisterMorphShape(c *MorphShapeCharacter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.characters[c.ID] = entry{kind: KindMorphShape, val: c}
}

// Get returns the character registered under id and its kind. The bool
// result is false if no character with that id was ever registered —
// callers (playback, preload) turn that into a MissingCharacter error at
// the call site, where the operation name is known.
func (l *Library) Get(id uint16) (any, Kind, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.characters[id]
	if !ok {
		return nil, 0, false
	}
	return e.val, e.kind, true
}

// MustGetSprite resolves id to a *SpriteCharacter, returning a
// MissingCharacter or MissingTarget error under op if absent or the wrong
// kind. Playback's instantiate resolves sprites through Get instead.
func (l *Library) MustGetSprite(op string, id uint16) (*SpriteCharacter, error) {
	val, kind, ok := l.Get(id)
	if !ok {
		return nil, coreerrors.NewMissingCharacter(op, id)
	}
	if kind != KindSprite {
		return nil, coreerrors.NewMissingTarget(op, id, "sprite")
	}
	return val.(*SpriteCharacter), nil
}

// GetSound resolves a sound character id registered by RegisterSound.
func (l *Library) GetSound(id uint16) (*SoundCharacter, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sounds[id]
	return s, ok
}

// RegisterExport binds name (lowercased, matching frame-label casing rules)
// to a character id, set by SymbolClass/ExportAssets tags (§4.2).
func (l *Library) RegisterExport(name string, id uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exports[strings.ToLower(name)] = id
}

// ResolveExport looks up a character id by its exported name.
func (l *Library) ResolveExport(name string) (uint16, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.exports[strings.ToLower(name)]
	return id, ok
}

// SetJPEGTables stores the shared JPEGTables payload referenced by
// DefineBits (JPEG without its own tables) definitions.
func (l *Library) SetJPEGTables(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jpegTables = b
}

// JPEGTables returns the shared JPEG encoding tables, if any were seen.
func (l *Library) JPEGTables() []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.jpegTables
}

// ApplyButtonCxform marks an already-registered button as having received a
// DefineButtonCxform (CxformApplied); the transform values are not stored.
// Errors with MissingCharacter if id is not registered and MissingTarget if
// it isn't a button — per §4.2, PreloadEngine logs and continues rather than aborting.
func (l *Library) ApplyButtonCxform(id uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.characters[id]
	if !ok {
		return coreerrors.NewMissingCharacter("library.ApplyButtonCxform", id)
	}
	b, ok := e.val.(*ButtonCharacter)
	if !ok {
		return coreerrors.NewMissingTarget("library.ApplyButtonCxform", id, "button")
	}
	b.CxformApplied = true
	return nil
}

// ApplyButtonSound records a sound association on an already-registered
// button (DefineButtonSound).
func (l *Library) ApplyButtonSound(id uint16, state string, soundID uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.characters[id]
	if !ok {
		return coreerrors.NewMissingCharacter("library.ApplyButtonSound", id)
	}
	b, ok := e.val.(*ButtonCharacter)
	if !ok {
		return coreerrors.NewMissingTarget("library.ApplyButtonSound", id, "button")
	}
	b.SoundTable[state] = soundID
	return nil
}

// String renders a library size summary, used by the swfplayer CLI's debug
// output.
func (l *Library) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fmt.Sprintf("library(characters=%d exports=%d)", len(l.characters), len(l.exports))
}
