// Package editor holds the render-free model backing the request item form.
// The per-index address state lives here instead of in widget state so the
// re-keying rules on removal can be tested on their own.
package editor

import (
	"errors"

	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
)

var (
	ErrFirstItemProtected = errors.New("the first item cannot be removed")
	ErrIndexOutOfRange    = errors.New("item index out of range")
)

// ItemList is a zero-indexed ordered collection of line item drafts plus the
// auxiliary per-index address state. Indices are always contiguous 0..n-1
// and the auxiliary maps never reference an index outside that range.
type ItemList struct {
	drafts        []domain.LineItem
	otherSelected map[int]bool
	customAddress map[int]string
}

// NewItemList starts with a single empty draft; a request always carries at
// least one item.
func NewItemList() *ItemList {
	return &ItemList{
		drafts:        []domain.LineItem{{}},
		otherSelected: map[int]bool{},
		customAddress: map[int]string{},
	}
}

// Load replaces the drafts with an existing record's items, deriving the
// auxiliary state from each item's stored address, mirroring how the edit
// form hydrates.
func Load(items []domain.LineItem) *ItemList {
	list := &ItemList{
		drafts:        append([]domain.LineItem{}, items...),
		otherSelected: map[int]bool{},
		customAddress: map[int]string{},
	}
	if len(list.drafts) == 0 {
		list.drafts = []domain.LineItem{{}}
	}
	for i, item := range list.drafts {
		if item.DeliveryAddress == domain.DeliveryAddressOther {
			list.otherSelected[i] = true
			list.customAddress[i] = item.CustomDeliveryAddress
		}
	}
	return list
}

// Len returns the number of drafts.
func (l *ItemList) Len() int { return len(l.drafts) }

// AddItem appends an empty draft and returns its index.
func (l *ItemList) AddItem() int {
	l.drafts = append(l.drafts, domain.LineItem{})
	return len(l.drafts) - 1
}

// RemoveItem deletes the draft at index and renumbers everything behind it.
// Index 0 is protected so the list never becomes empty. Auxiliary entries
// for the removed index are dropped and later entries shift down by one.
func (l *ItemList) RemoveItem(index int) error {
	if index == 0 {
		return ErrFirstItemProtected
	}
	if index < 0 || index >= len(l.drafts) {
		return ErrIndexOutOfRange
	}
	l.drafts = append(l.drafts[:index], l.drafts[index+1:]...)
	l.otherSelected = shiftBoolKeys(l.otherSelected, index)
	l.customAddress = shiftStringKeys(l.customAddress, index)
	return nil
}

// SetItem replaces the draft at index.
func (l *ItemList) SetItem(index int, item domain.LineItem) error {
	if index < 0 || index >= len(l.drafts) {
		return ErrIndexOutOfRange
	}
	l.drafts[index] = item
	return nil
}

// Item returns the draft at index.
func (l *ItemList) Item(index int) (domain.LineItem, error) {
	if index < 0 || index >= len(l.drafts) {
		return domain.LineItem{}, ErrIndexOutOfRange
	}
	return l.drafts[index], nil
}

// SetAddressMode toggles whether the draft at index uses a custom address.
// Toggling away from "other" keeps any stored custom address text; it is
// just no longer applied to the draft.
func (l *ItemList) SetAddressMode(index int, isOther bool) error {
	if index < 0 || index >= len(l.drafts) {
		return ErrIndexOutOfRange
	}
	l.otherSelected[index] = isOther
	if isOther {
		l.drafts[index].DeliveryAddress = domain.DeliveryAddressOther
		l.drafts[index].CustomDeliveryAddress = l.customAddress[index]
	}
	return nil
}

// SetCustomAddress records the free-text address for the draft at index.
func (l *ItemList) SetCustomAddress(index int, text string) error {
	if index < 0 || index >= len(l.drafts) {
		return ErrIndexOutOfRange
	}
	l.customAddress[index] = text
	if l.otherSelected[index] {
		l.drafts[index].CustomDeliveryAddress = text
	}
	return nil
}

// IsOtherSelected reports the auxiliary flag for index.
func (l *ItemList) IsOtherSelected(index int) bool {
	return l.otherSelected[index]
}

// CustomAddress reports the stored free-text address for index.
func (l *ItemList) CustomAddress(index int) string {
	return l.customAddress[index]
}

// Items returns a copy of the drafts in display order.
func (l *ItemList) Items() []domain.LineItem {
	return append([]domain.LineItem{}, l.drafts...)
}

// AuxIndices returns every index present in the auxiliary maps; exposed so
// tests can assert the no-orphans guarantee.
func (l *ItemList) AuxIndices() []int {
	seen := map[int]struct{}{}
	for i := range l.otherSelected {
		seen[i] = struct{}{}
	}
	for i := range l.customAddress {
		seen[i] = struct{}{}
	}
	indices := make([]int, 0, len(seen))
	for i := range seen {
		indices = append(indices, i)
	}
	return indices
}

func shiftBoolKeys(m map[int]bool, removed int) map[int]bool {
	next := make(map[int]bool, len(m))
	for i, v := range m {
		switch {
		case i < removed:
			next[i] = v
		case i > removed:
			next[i-1] = v
		}
	}
	return next
}

func shiftStringKeys(m map[int]string, removed int) map[int]string {
	next := make(map[int]string, len(m))
	for i, v := range m {
		switch {
		case i < removed:
			next[i] = v
		case i > removed:
			next[i-1] = v
		}
	}
	return next
}
