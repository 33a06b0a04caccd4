package display

// PlaceAction distinguishes the three PlaceObject2+ actions (§3, §4.4/§4.5):
// a brand-new instantiation, a delta applied to an existing child, or
// replacing the occupant of a depth with a new character.
type PlaceAction int

const (
	ActionPlace PlaceAction = iota
	ActionModify
	ActionReplace
)

// PlaceObjectDelta carries the optional fields of one PlaceObject2/3 record.
// Every field is paired with a Has flag: during goto's delta-aggregation
// pass (§4.4), later deltas at the same depth overwrite only the fields
// they explicitly carry ("last write wins"); absent fields in a Modify
// delta leave the previously aggregated value untouched.
type PlaceObjectDelta struct {
	Action      PlaceAction
	Depth       Depth
	CharacterID uint16
	PlaceFrame  int // frame this delta was authored on; becomes the instance's PlaceFrame on (re)instantiation

	HasMatrix bool
	Matrix    Matrix

	HasColorTransform bool
	ColorTransform    Cxform

	HasRatio bool
	Ratio    uint16

	HasName bool
	Name    string

	HasClipDepth bool
	ClipDepth    Depth

	HasVisible bool
	Visible    bool
}

// MergeInto folds the fields of next into acc ("last write wins" per
// field), used by GotoEngine to collapse a run of per-depth deltas
// encountered while scanning [0, targetFrame) into one net delta per depth.
// The Action field keeps the final action seen, except that a Modify never
// demotes an already-aggregated Place/Replace — an instantiation followed by
// a Modify of the same depth is still net an instantiation.
func (acc *PlaceObjectDelta) MergeInto(next PlaceObjectDelta) {
	if next.Action != ActionModify || acc.Action == ActionModify {
		acc.Action = next.Action
	}
	if next.Action != ActionModify {
		acc.PlaceFrame = next.PlaceFrame
	}
	if next.CharacterID != 0 {
		acc.CharacterID = next.CharacterID
	}
	if next.HasMatrix {
		acc.HasMatrix = true
		acc.Matrix = next.Matrix
	}
	if next.HasColorTransform {
		acc.HasColorTransform = true
		acc.ColorTransform = next.ColorTransform
	}
	if next.HasRatio {
		acc.HasRatio = true
		acc.Ratio = next.Ratio
	}
	if next.HasName {
		acc.HasName = true
		acc.Name = next.Name
	}
	if next.HasClipDepth {
		acc.HasClipDepth = true
		acc.ClipDepth = next.ClipDepth
	}
	if next.HasVisible {
		acc.HasVisible = true
		acc.Visible = next.Visible
	}
}

// NormalizeForRewindPlace fills in every absent optional field with its
// identity default. A rewind goto always treats its aggregated delta as a
// fresh Place (§4.4: "rewind-Place normalization defaults every absent
// optional field") since there is no prior instance state to inherit from.
func (d *PlaceObjectDelta) NormalizeForRewindPlace() {
	if !d.HasMatrix {
		d.Matrix = Matrix{ScaleX: 1, ScaleY: 1}
		d.HasMatrix = true
	}
	if !d.HasColorTransform {
		d.ColorTransform = Cxform{RedMul: 1, GreenMul: 1, BlueMul: 1, AlphaMul: 1}
		d.HasColorTransform = true
	}
	if !d.HasRatio {
		d.Ratio = 0
		d.HasRatio = true
	}
	if !d.HasName {
		d.Name = ""
		d.HasName = true
	}
	if !d.HasClipDepth {
		d.ClipDepth = 0
		d.HasClipDepth = true
	}
	if !d.HasVisible {
		d.Visible = true
		d.HasVisible = true
	}
}

// ApplyTo mutates node's transform/color/name/visibility fields from the
// delta's present optional fields, leaving absent fields untouched on the
// node (the Modify merge rule applied at execution time rather than
// aggregation time).
func (d PlaceObjectDelta) ApplyTo(node Node) {
	if d.HasMatrix {
		node.SetTransform(d.Matrix)
	}
	if d.HasColorTransform {
		node.SetColorTransform(d.ColorTransform)
	}
	if d.HasName {
		node.SetName(d.Name)
	}
	if d.HasVisible {
		node.SetVisible(d.Visible)
	}
}
