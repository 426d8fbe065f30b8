package main

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func newTestGame(t *testing.T) (*Game, *fakeClock) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string][]byte{
		"/lib/a.png": encodePNG(t, 400, 200),
		"/lib/b.png": encodePNG(t, 100, 300),
		"/lib/c.png": encodePNG(t, 50, 50),
	}
	for name, data := range files {
		if err := afero.WriteFile(fs, name, data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	config := defaultConfig()
	config.PreloadEnabled = false
	config.IdleHideMs = 2000

	clock := newFakeClock()
	g := NewGame(ConfigLoadResult{Config: config, Status: "Default"}, NewLibrary(fs), clock.Now)
	t.Cleanup(g.Shutdown)
	g.Layout(480, 800)

	g.StartLibraryScan([]string{"/lib"})
	deadline := time.Now().Add(2 * time.Second)
	for g.picker.IsLoading() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		g.drainLibraryScan()
	}
	if g.picker.IsLoading() {
		t.Fatal("library scan did not finish")
	}
	return g, clock
}

func tap(g *Game, x, y float64) {
	g.HandleGesture(GestureEvent{Kind: GestureTap, X: x, Y: y})
}

// pickerTileCenter returns the center of picker tile idx on a 480 wide screen
func pickerTileCenter(idx int) (float64, float64) {
	size := (480.0 - 2*gridHorizontalPadding) / gridColumns
	col, row := idx%gridColumns, idx/gridColumns
	return gridHorizontalPadding + (float64(col)+0.5)*size, pickerBarHeight + gridTopPadding + (float64(row)+0.5)*size
}

func homeTileCenter(idx int) (float64, float64) {
	size := (480.0 - 2*gridHorizontalPadding) / gridColumns
	col, row := idx%gridColumns, idx/gridColumns
	return gridHorizontalPadding + (float64(col)+0.5)*size, gridTopPadding + (float64(row)+0.5)*size
}

func pickPhotos(t *testing.T, g *Game, indices ...int) {
	t.Helper()
	cx, cy := addButtonCenter(480, 800)
	tap(g, cx, cy)
	if !g.picker.IsOpen() {
		t.Fatal("tapping the add button did not open the picker")
	}
	for _, idx := range indices {
		x, y := pickerTileCenter(idx)
		tap(g, x, y)
	}
	tap(g, 470, pickerBarHeight/2)
	if g.picker.IsOpen() {
		t.Fatal("confirming did not close the picker")
	}
}

func photoURIs(photos []Photo) []string {
	uris := make([]string, 0, len(photos))
	for _, p := range photos {
		uris = append(uris, p.URI)
	}
	return uris
}

func TestGameSelectionFlow(t *testing.T) {
	g, _ := newTestGame(t)

	pickPhotos(t, g, 0, 1)
	pickPhotos(t, g, 2)

	want := []string{"/lib/c.png", "/lib/a.png", "/lib/b.png"}
	if diff := cmp.Diff(want, photoURIs(g.GetPhotos())); diff != "" {
		t.Errorf("photos mismatch (-want +got):\n%s", diff)
	}
	if g.GetOverlayMessage() != "Added 1 photo" {
		t.Errorf("overlay = %q, want %q", g.GetOverlayMessage(), "Added 1 photo")
	}

	// Cancelling leaves the collection alone
	cx, cy := addButtonCenter(480, 800)
	tap(g, cx, cy)
	x, y := pickerTileCenter(0)
	tap(g, x, y)
	tap(g, 10, pickerBarHeight/2)
	if g.picker.IsOpen() || g.photos.Len() != 3 {
		t.Errorf("after cancel: picker open = %v, photos = %d", g.picker.IsOpen(), g.photos.Len())
	}
}

func TestGameViewerFlow(t *testing.T) {
	g, clock := newTestGame(t)
	pickPhotos(t, g, 0, 1)

	x, y := homeTileCenter(0)
	tap(g, x, y)
	photo, ok := g.GetViewerPhoto()
	if !ok || photo.URI != "/lib/a.png" {
		t.Fatalf("viewer photo = %+v, %v; want /lib/a.png", photo, ok)
	}

	want := ViewportGeometry{ContainerWidth: 432, ContainerHeight: 216}
	deadline := time.Now().Add(2 * time.Second)
	for g.GetViewerGeometry() != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		g.viewer.Update(clock.Now())
	}
	if g.GetViewerGeometry() != want {
		t.Fatalf("geometry = %+v, want %+v", g.GetViewerGeometry(), want)
	}

	for _, ev := range []GestureEvent{
		{Kind: GesturePinchBegin, Scale: 1},
		{Kind: GesturePinchUpdate, Scale: 2},
		{Kind: GesturePinchEnd, Scale: 2},
		{Kind: GesturePanBegin},
		{Kind: GesturePanUpdate, TranslationX: 500, TranslationY: 30},
		{Kind: GesturePanEnd, TranslationX: 500, TranslationY: 30},
	} {
		g.HandleGesture(ev)
	}
	// Slack at 2x: 216 wide, 54 high
	if tr := g.GetViewerTransform(); tr.Scale != 2 || tr.TranslateX != 216 || tr.TranslateY != 30 {
		t.Errorf("transform = %+v, want scale 2 translate (216, 30)", tr)
	}

	// Taps on the image keep the viewer open, taps outside close it
	tap(g, 240, 400)
	if !g.IsViewerOpen() {
		t.Fatal("tap on the image closed the viewer")
	}
	tap(g, 240, 100)
	if g.IsViewerOpen() {
		t.Fatal("tap outside the image did not close the viewer")
	}
	if diff := cmp.Diff([]string{"/lib/a.png", "/lib/b.png"}, photoURIs(g.GetPhotos())); diff != "" {
		t.Errorf("closing the viewer changed the photos (-want +got):\n%s", diff)
	}

	x, y = homeTileCenter(1)
	tap(g, x, y)
	if tr := g.GetViewerTransform(); !tr.IsIdentity() {
		t.Errorf("transform on reopening = %+v, want identity", tr)
	}

	// Wheel zooms inside the viewer and back closes it
	g.Scroll(-1)
	g.viewer.Update(clock.Advance(time.Second))
	if tr := g.GetViewerTransform(); tr.Scale != g.config.MouseSettings.ZoomStep {
		t.Errorf("scale after wheel = %v, want %v", tr.Scale, g.config.MouseSettings.ZoomStep)
	}
	g.ZoomReset()
	g.viewer.Update(clock.Advance(time.Second))
	if tr := g.GetViewerTransform(); math.Abs(tr.Scale-1) > floatTolerance {
		t.Errorf("scale after reset = %v, want 1", tr.Scale)
	}
	if !globalActionExecutor.ExecuteAction("back", g, g) || g.IsViewerOpen() {
		t.Error("back did not close the viewer")
	}
}

func TestGameAddButtonIdle(t *testing.T) {
	g, clock := newTestGame(t)
	cx, cy := addButtonCenter(480, 800)

	// Without photos the button never hides
	g.idle.Tick(clock.Advance(5*time.Second), g.photos.Len() > 0)
	if !g.IsAddButtonVisible() {
		t.Fatal("add button hidden with an empty collection")
	}

	pickPhotos(t, g, 0)
	g.NotifyInteraction()
	g.idle.Tick(clock.Advance(1999*time.Millisecond), true)
	if !g.IsAddButtonVisible() {
		t.Error("add button hidden before the idle period")
	}
	g.idle.Tick(clock.Advance(2*time.Millisecond), true)
	if g.IsAddButtonVisible() {
		t.Fatal("add button visible after the idle period")
	}

	// The tap that reveals the button does not press it
	g.NotifyInteraction()
	tap(g, cx, cy)
	if !g.IsAddButtonVisible() || g.picker.IsOpen() {
		t.Errorf("revealing tap: visible = %v, picker open = %v; want true, false", g.IsAddButtonVisible(), g.picker.IsOpen())
	}

	clock.Advance(time.Second)
	g.NotifyInteraction()
	tap(g, cx, cy)
	if !g.picker.IsOpen() {
		t.Error("tap on the visible add button did not open the picker")
	}
}

func TestGameInputSharesClock(t *testing.T) {
	g, clock := newTestGame(t)
	clock.Advance(time.Hour)
	if got := g.inputHandler.now(); !got.Equal(clock.Now()) {
		t.Errorf("input clock = %v, want the game clock %v", got, clock.Now())
	}
}

func TestGameOpenRequestsFullImage(t *testing.T) {
	g, _ := newTestGame(t)
	pickPhotos(t, g, 0, 1, 2)

	x, y := homeTileCenter(1)
	tap(g, x, y)
	for _, uri := range []string{"/lib/a.png", "/lib/b.png", "/lib/c.png"} {
		if !g.imageManager.IsLoading(uri) {
			t.Errorf("%s is not loading after opening its neighbour", uri)
		}
	}
	if _, ok := g.GetImage("/lib/a.png"); ok {
		t.Error("full image available before the background decode was drained")
	}
}
