package main

// Selection defaults
const (
	defaultSelectionLimit = 30
	maxSelectionLimit     = 100
)

// MediaFilter restricts which library entries may be picked
type MediaFilter int

const (
	MediaImages MediaFilter = iota
)

// SelectionRequest describes what the picker may return
type SelectionRequest struct {
	AllowMultiple  bool
	SelectionLimit int
	MediaFilter    MediaFilter
	Quality        float64 // 1.0 requests full resolution
}

// DefaultSelectionRequest returns the request the add button issues
func DefaultSelectionRequest(limit int) SelectionRequest {
	if limit < 1 {
		limit = defaultSelectionLimit
	}
	return SelectionRequest{
		AllowMultiple:  true,
		SelectionLimit: limit,
		MediaFilter:    MediaImages,
		Quality:        1.0,
	}
}

// Asset is one library entry returned by a selection
type Asset struct {
	Identifier string // Stable identifier, empty when the library has none
	URI        string
}

// SelectionResult is what a finished selection returns
type SelectionResult struct {
	Cancelled bool
	Assets    []Asset
}

// PickerSheet is the modal library browser used to pick photos
type PickerSheet struct {
	open     bool
	loading  bool
	request  SelectionRequest
	entries  []Asset
	selected []int // Entry indices in the order they were picked
	grid     GridLayout
}

// NewPickerSheet creates a closed picker
func NewPickerSheet() *PickerSheet {
	return &PickerSheet{loading: true}
}

// Open shows the picker for a request, clearing any previous selection
func (p *PickerSheet) Open(request SelectionRequest) {
	p.open = true
	p.request = request
	p.selected = nil
	p.grid.scroll = 0
}

// IsOpen reports whether the picker is showing
func (p *PickerSheet) IsOpen() bool {
	return p.open
}

// IsLoading reports whether the library listing is still being read
func (p *PickerSheet) IsLoading() bool {
	return p.loading
}

// SetEntries replaces the library listing. Selections that no longer exist are dropped.
func (p *PickerSheet) SetEntries(entries []Asset) {
	p.entries = entries
	p.loading = false

	kept := p.selected[:0]
	for _, idx := range p.selected {
		if idx < len(entries) {
			kept = append(kept, idx)
		}
	}
	p.selected = kept
}

// Entries returns the library listing
func (p *PickerSheet) Entries() []Asset {
	return p.entries
}

// Grid returns the picker's tile layout
func (p *PickerSheet) Grid() *GridLayout {
	return &p.grid
}

// Toggle selects or deselects the entry at idx. Returns false when the
// entry does not exist or the selection limit is reached.
func (p *PickerSheet) Toggle(idx int) bool {
	if !p.open || idx < 0 || idx >= len(p.entries) {
		return false
	}

	for i, sel := range p.selected {
		if sel == idx {
			p.selected = append(p.selected[:i], p.selected[i+1:]...)
			return true
		}
	}

	if !p.request.AllowMultiple {
		p.selected = []int{idx}
		return true
	}
	if p.request.SelectionLimit > 0 && len(p.selected) >= p.request.SelectionLimit {
		return false
	}
	p.selected = append(p.selected, idx)
	return true
}

// SelectionOrder returns the 1-based pick order of idx, or 0 if unselected
func (p *PickerSheet) SelectionOrder(idx int) int {
	for i, sel := range p.selected {
		if sel == idx {
			return i + 1
		}
	}
	return 0
}

// SelectedCount returns the number of picked entries
func (p *PickerSheet) SelectedCount() int {
	return len(p.selected)
}

// Limit returns the selection limit of the current request
func (p *PickerSheet) Limit() int {
	return p.request.SelectionLimit
}

// Confirm closes the picker and returns the picked assets in pick order.
// Confirming with nothing picked is the same as cancelling.
func (p *PickerSheet) Confirm() SelectionResult {
	if !p.open {
		return SelectionResult{Cancelled: true}
	}
	if len(p.selected) == 0 {
		return p.Cancel()
	}

	assets := make([]Asset, 0, len(p.selected))
	for _, idx := range p.selected {
		assets = append(assets, p.entries[idx])
	}
	p.close()
	return SelectionResult{Assets: assets}
}

// Cancel closes the picker without a selection
func (p *PickerSheet) Cancel() SelectionResult {
	p.close()
	return SelectionResult{Cancelled: true}
}

func (p *PickerSheet) close() {
	p.open = false
	p.selected = nil
}

// Height of the picker's top bar holding Cancel and Add
const pickerBarHeight = 48.0

// PickerBarTarget is the top bar control under a point
type PickerBarTarget int

const (
	PickerBarNone PickerBarTarget = iota
	PickerBarCancel
	PickerBarConfirm
)

// pickerBarHit maps a point to a top bar control on a screen of the given width
func pickerBarHit(width, x, y float64) PickerBarTarget {
	if y < 0 || y >= pickerBarHeight {
		return PickerBarNone
	}
	switch {
	case x < width/3:
		return PickerBarCancel
	case x >= width*2/3:
		return PickerBarConfirm
	default:
		return PickerBarNone
	}
}
