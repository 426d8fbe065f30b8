package main

import (
	"math"
	"time"
)

// Grid layout constants
const (
	gridColumns           = 3
	gridHorizontalPadding = 10 // Left and right padding of the grid
	gridTopPadding        = 20
	tilePadding           = 5 // Inner padding of every tile
)

// Default idle period before the add button hides
const defaultIdleHide = 3 * time.Second

// Photo is one selected image, held in memory for the session
type Photo struct {
	ID  string
	URI string
}

// photoFromAsset prefers the asset's stable identifier and falls back to its URI
func photoFromAsset(asset Asset) Photo {
	id := asset.Identifier
	if id == "" {
		id = asset.URI
	}
	return Photo{ID: id, URI: asset.URI}
}

// PhotoCollection is the ordered in-memory photo list, most recent batch first
type PhotoCollection struct {
	photos []Photo
}

// NewPhotoCollection creates an empty collection
func NewPhotoCollection() *PhotoCollection {
	return &PhotoCollection{photos: []Photo{}}
}

// AddSelection prepends a completed selection, keeping the batch's own order.
// Cancelled selections are ignored. Returns the number of photos added.
func (c *PhotoCollection) AddSelection(result SelectionResult) int {
	if result.Cancelled || len(result.Assets) == 0 {
		return 0
	}

	batch := make([]Photo, 0, len(result.Assets)+len(c.photos))
	for _, asset := range result.Assets {
		batch = append(batch, photoFromAsset(asset))
	}
	c.photos = append(batch, c.photos...)
	return len(result.Assets)
}

// Len returns the number of photos
func (c *PhotoCollection) Len() int {
	return len(c.photos)
}

// At returns the photo at index
func (c *PhotoCollection) At(idx int) (Photo, bool) {
	if idx < 0 || idx >= len(c.photos) {
		return Photo{}, false
	}
	return c.photos[idx], true
}

// All returns a copy of the photos in display order
func (c *PhotoCollection) All() []Photo {
	result := make([]Photo, len(c.photos))
	copy(result, c.photos)
	return result
}

// IdleTimer shows the add button on interaction and hides it after an idle
// period, but only while there is at least one photo.
type IdleTimer struct {
	idle     time.Duration
	deadline time.Time
	armed    bool
	visible  bool
}

// NewIdleTimer creates a timer whose affordance starts visible
func NewIdleTimer(idle time.Duration) *IdleTimer {
	if idle <= 0 {
		idle = defaultIdleHide
	}
	return &IdleTimer{idle: idle, visible: true}
}

// Touch records an interaction: the affordance shows and the countdown restarts
func (t *IdleTimer) Touch(now time.Time) {
	t.visible = true
	t.deadline = now.Add(t.idle)
	t.armed = true
}

// Tick fires the countdown if it has expired. Returns the current visibility.
func (t *IdleTimer) Tick(now time.Time, hasPhotos bool) bool {
	if t.armed && !now.Before(t.deadline) {
		t.armed = false
		if hasPhotos {
			t.visible = false
		}
	}
	return t.visible
}

// Stop clears any pending countdown
func (t *IdleTimer) Stop() {
	t.armed = false
}

// Visible reports whether the affordance is shown
func (t *IdleTimer) Visible() bool {
	return t.visible
}

// GridLayout places photo tiles in a fixed number of columns and tracks
// the vertical scroll offset.
type GridLayout struct {
	top    float64 // Screen y where the grid area starts
	width  float64
	height float64
	scroll float64
}

// Resize updates the area the grid is laid out in
func (g *GridLayout) Resize(top, width, height float64) {
	g.top, g.width, g.height = top, width, height
}

// TileSize returns the edge length of a tile, padding included
func (g *GridLayout) TileSize() float64 {
	size := (g.width - 2*gridHorizontalPadding) / gridColumns
	if size < 0 {
		return 0
	}
	return size
}

// TileRect returns the on-screen rectangle of the tile at idx, padding included
func (g *GridLayout) TileRect(idx int) (x, y, size float64) {
	size = g.TileSize()
	row, col := idx/gridColumns, idx%gridColumns
	x = gridHorizontalPadding + float64(col)*size
	y = g.top + gridTopPadding + float64(row)*size - g.scroll
	return x, y, size
}

// IndexAt returns the tile under a screen point
func (g *GridLayout) IndexAt(x, y float64, count int) (int, bool) {
	size := g.TileSize()
	if size <= 0 {
		return -1, false
	}
	if y < g.top {
		return -1, false
	}
	gx := x - gridHorizontalPadding
	gy := y - g.top - gridTopPadding + g.scroll
	if gx < 0 || gy < 0 || gx >= size*gridColumns {
		return -1, false
	}

	idx := int(gy/size)*gridColumns + int(gx/size)
	if idx >= count {
		return -1, false
	}
	return idx, true
}

// ContentHeight returns the full height of count tiles
func (g *GridLayout) ContentHeight(count int) float64 {
	rows := (count + gridColumns - 1) / gridColumns
	return gridTopPadding + float64(rows)*g.TileSize()
}

// ScrollBy moves the grid by dy, keeping the content on screen
func (g *GridLayout) ScrollBy(dy float64, count int) {
	maxScroll := math.Max(0, g.ContentHeight(count)-g.height)
	g.scroll = clamp(g.scroll+dy, 0, maxScroll)
}

// Scroll returns the current scroll offset
func (g *GridLayout) Scroll() float64 {
	return g.scroll
}

// VisibleRange returns the half-open index range of tiles intersecting the screen
func (g *GridLayout) VisibleRange(count int) (int, int) {
	size := g.TileSize()
	if size <= 0 || count == 0 {
		return 0, 0
	}
	firstRow := int(math.Max(0, (g.scroll-gridTopPadding)/size))
	lastRow := int((g.scroll+g.height-gridTopPadding)/size) + 1

	start := firstRow * gridColumns
	end := lastRow * gridColumns
	if end > count {
		end = count
	}
	if start > end {
		start = end
	}
	return start, end
}

// Floating add button placement
const (
	addButtonRadius = 28.0
	addButtonMargin = 24.0
)

// addButtonCenter returns the center of the add button on a w×h screen
func addButtonCenter(w, h float64) (float64, float64) {
	return w - addButtonMargin - addButtonRadius, h - addButtonMargin - addButtonRadius
}

// addButtonHit reports whether (x, y) lands on the add button
func addButtonHit(w, h, x, y float64) bool {
	cx, cy := addButtonCenter(w, h)
	return math.Hypot(x-cx, y-cy) <= addButtonRadius
}
