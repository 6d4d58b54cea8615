package browse

import "errors"

var ErrNotOnPage = errors.New("slot is not on the visible page")

// dragState is either idle or carrying the working-set index the dragged
// product currently occupies.
type dragState struct {
	active bool
	origin int
}

// BeginDrag starts dragging the product in page-local slot.
func (v *View) BeginDrag(slot int) error {
	idx, ok := v.slotIndex(slot)
	if !ok {
		return ErrNotOnPage
	}
	v.drag = dragState{active: true, origin: idx}
	return nil
}

// HoverEnter is sent whenever the dragged product enters page-local slot.
// The product moves there immediately and the slot becomes the new origin,
// so repeated hovers give live feedback. Returns whether anything moved.
func (v *View) HoverEnter(slot int) bool {
	if !v.drag.active {
		return false
	}
	idx, ok := v.slotIndex(slot)
	if !ok || idx == v.drag.origin {
		return false
	}
	moveItem(v.working, v.drag.origin, idx)
	v.drag.origin = idx
	return true
}

func (v *View) Drop() {
	v.drag = dragState{}
}

// Dragging returns the page-local slot of the dragged product.
func (v *View) Dragging() (slot int, ok bool) {
	if !v.drag.active {
		return 0, false
	}
	start, _ := v.pageBounds()
	return v.drag.origin - start, true
}

// slotIndex maps a slot on the visible page to a working-set index.
func (v *View) slotIndex(slot int) (int, bool) {
	start, end := v.pageBounds()
	idx := start + slot
	if slot < 0 || idx >= end {
		return 0, false
	}
	return idx, true
}
