package display

import "github.com/coldfire-labs/swftimeline/internal/tagcursor"

// BasicNode is the Node implementation for placed children that are not
// themselves timelines: shapes, static text, bitmaps, buttons. MovieClipState
// (internal/clip) implements Node on its own in order to carry its own
// nested child set instead of embedding BasicNode; the two coexist in the
// same depth tree and execution list since both satisfy Node.
type BasicNode struct {
	depth       Depth
	placeFrame  int
	characterID uint16
	name        string
	transform   Matrix
	cxform      Cxform
	visible     bool
	removed     bool
}

// NewBasicNode constructs a node for a freshly placed non-timeline
// character.
func NewBasicNode(characterID uint16, depth Depth, placeFrame int) *BasicNode {
	return &BasicNode{
		depth:       depth,
		placeFrame:  placeFrame,
		characterID: characterID,
		transform:   tagcursor.Identity(),
		cxform:      tagcursor.IdentityColorTransform(),
		visible:     true,
	}
}

func (n *BasicNode) Depth() Depth             { return n.depth }
func (n *BasicNode) SetDepth(d Depth)         { n.depth = d }
func (n *BasicNode) PlaceFrame() int          { return n.placeFrame }
func (n *BasicNode) Transform() Matrix        { return n.transform }
func (n *BasicNode) SetTransform(m Matrix)    { n.transform = m }
func (n *BasicNode) ColorTransform() Cxform   { return n.cxform }
func (n *BasicNode) SetColorTransform(c Cxform) { n.cxform = c }
func (n *BasicNode) Visible() bool            { return n.visible }
func (n *BasicNode) SetVisible(v bool)        { n.visible = v }
func (n *BasicNode) Removed() bool            { return n.removed }
func (n *BasicNode) SetRemoved(r bool)        { n.removed = r }
func (n *BasicNode) CharacterID() uint16      { return n.characterID }
func (n *BasicNode) Name() string             { return n.name }
func (n *BasicNode) SetName(s string)         { n.name = s }
