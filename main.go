package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/afero"
)

const (
	// Pixels moved by one keyboard pan action
	panStep = 40.0

	// Thumbnails requested below the visible rows
	thumbnailLookahead = gridColumns * 2
)

var debugMode bool

// debugLog prints only when -debug is given
func debugLog(format string, args ...interface{}) {
	if debugMode {
		log.Printf("Debug: "+format, args...)
	}
}

type Game struct {
	config       Config
	configStatus ConfigLoadResult
	now          func() time.Time

	fullscreen    bool
	savedWinW     int
	savedWinH     int
	exitRequested bool

	library      *Library
	scanCancel   context.CancelFunc
	scanResults  <-chan LibraryScanResult
	imageManager *ImageManager

	photos *PhotoCollection
	grid   GridLayout
	idle   *IdleTimer
	viewer *ImageViewer
	picker *PickerSheet

	// A tap that reveals the hidden add button does not press it
	revealedAt time.Time

	lastThumbnailKey [3]int

	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	inputHandler        *InputHandler
	renderer            *Renderer

	showHelp           bool
	overlayMessage     string
	overlayMessageTime time.Time

	screenW float64
	screenH float64
}

// NewGame wires the gallery together. The library scan is started separately.
func NewGame(configResult ConfigLoadResult, library *Library, now func() time.Time) *Game {
	if now == nil {
		now = time.Now
	}
	config := configResult.Config

	imageManager := NewImageManager(library, config.CacheSize, config.ThumbnailSize, config.PreloadEnabled)

	g := &Game{
		config:       config,
		configStatus: configResult,
		now:          now,
		library:      library,
		imageManager: imageManager,
		photos:       NewPhotoCollection(),
		idle:         NewIdleTimer(time.Duration(config.IdleHideMs) * time.Millisecond),
		picker:       NewPickerSheet(),
		viewer: NewImageViewer(imageManager, ViewerOptions{
			MaxScale:       config.MaxScale,
			BounceDuration: time.Duration(config.BounceDurationMs) * time.Millisecond,
			WidthRatio:     config.ViewerWidthRatio,
			HeightRatio:    config.ViewerHeightRatio,
		}, now),
		keybindingManager:   NewKeybindingManager(config.Keybindings),
		mousebindingManager: NewMousebindingManager(config.Mousebindings, config.MouseSettings),
		lastThumbnailKey:    [3]int{-1, -1, -1},
	}
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager, g.now)
	g.renderer = NewRenderer(g)
	g.idle.Touch(now())
	return g
}

// StartLibraryScan enumerates roots in the background; the picker shows a
// loading state until the result is drained in Update.
func (g *Game) StartLibraryScan(roots []string) {
	ctx, cancel := context.WithCancel(context.Background())
	g.scanCancel = cancel
	g.scanResults = g.library.ScanAsync(ctx, roots, g.config.SortMethod)
}

func (g *Game) drainLibraryScan() {
	if g.scanResults == nil {
		return
	}
	select {
	case res := <-g.scanResults:
		g.scanResults = nil
		if res.Err != nil {
			log.Printf("Error: Library scan failed: %v", res.Err)
			g.ShowOverlayMessage("Could not read the photo library")
			g.picker.SetEntries(nil)
			return
		}
		g.picker.SetEntries(assetsFromPaths(res.Paths))
		debugLog("Library ready: %d images", len(res.Paths))
	default:
	}
}

// Shutdown stops background work
func (g *Game) Shutdown() {
	if g.scanCancel != nil {
		g.scanCancel()
	}
	g.viewer.Close()
	g.idle.Stop()
	g.imageManager.Stop()
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		w, h := ebiten.WindowSize()
		g.config.WindowWidth = w
		g.config.WindowHeight = h
	}
	saveConfig(g.config)
}

func (g *Game) Update() error {
	now := g.now()

	g.drainLibraryScan()
	g.inputHandler.HandleInput()
	if g.exitRequested {
		g.saveCurrentWindowSize()
		return ebiten.Termination
	}

	g.imageManager.DrainLoaded()
	g.viewer.Update(now)
	g.idle.Tick(now, g.photos.Len() > 0)
	g.requestVisibleThumbnails()
	return nil
}

// requestVisibleThumbnails asks for thumbnails of the tiles on screen and a few rows below
func (g *Game) requestVisibleThumbnails() {
	var uris []string
	var start, end, which int

	if g.picker.IsOpen() {
		entries := g.picker.Entries()
		start, end = g.picker.Grid().VisibleRange(len(entries))
		end = min(end+thumbnailLookahead, len(entries))
		which = 1
		if key := [3]int{which, start, end}; key == g.lastThumbnailKey {
			return
		}
		for _, entry := range entries[start:end] {
			uris = append(uris, entry.URI)
		}
	} else {
		photos := g.photos.All()
		start, end = g.grid.VisibleRange(len(photos))
		end = min(end+thumbnailLookahead, len(photos))
		if key := [3]int{which, start, end}; key == g.lastThumbnailKey {
			return
		}
		for _, photo := range photos[start:end] {
			uris = append(uris, photo.URI)
		}
	}

	g.lastThumbnailKey = [3]int{which, start, end}
	if len(uris) > g.config.PreloadCount {
		uris = uris[:g.config.PreloadCount]
	}
	g.imageManager.RequestThumbnails(uris)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := float64(outsideWidth), float64(outsideHeight)
	if w != g.screenW || h != g.screenH {
		g.screenW, g.screenH = w, h
		g.grid.Resize(0, w, h)
		g.picker.Grid().Resize(pickerBarHeight, w, h-pickerBarHeight)
		g.viewer.SetDisplayArea(w, h)
		g.lastThumbnailKey = [3]int{-1, -1, -1}
	}
	return outsideWidth, outsideHeight
}

// InputActions implementation

func (g *Game) Exit() {
	g.exitRequested = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if g.savedWinW > 0 && g.savedWinH > 0 {
			ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
		}
	}
}

func (g *Game) ToggleTheme() {
	theme := ToggleTheme()
	g.ShowOverlayMessage(fmt.Sprintf("Theme: %s", theme))
}

func (g *Game) OpenPicker() {
	g.picker.Open(DefaultSelectionRequest(g.config.SelectionLimit))
	g.inputHandler.ResetGestures()
	g.lastThumbnailKey = [3]int{-1, -1, -1}
}

func (g *Game) ConfirmPicker() {
	g.applySelection(g.picker.Confirm())
}

func (g *Game) CancelPicker() {
	g.applySelection(g.picker.Cancel())
}

// applySelection adds a finished selection to the collection
func (g *Game) applySelection(result SelectionResult) {
	g.lastThumbnailKey = [3]int{-1, -1, -1}
	added := g.photos.AddSelection(result)
	if added == 0 {
		debugLog("Selection cancelled")
		return
	}
	// New photos are at the top
	g.grid.ScrollBy(-g.grid.Scroll(), g.photos.Len())
	debugLog("Added %d photos (%d total)", added, g.photos.Len())
	if added == 1 {
		g.ShowOverlayMessage("Added 1 photo")
	} else {
		g.ShowOverlayMessage(fmt.Sprintf("Added %d photos", added))
	}
}

func (g *Game) openPhoto(idx int) {
	photo, ok := g.photos.At(idx)
	if !ok {
		return
	}
	g.viewer.Open(photo)
	g.imageManager.RequestImage(photo.URI)
	// Neighbours are likely next
	for _, n := range []int{idx + 1, idx - 1} {
		if p, ok := g.photos.At(n); ok {
			g.imageManager.RequestImage(p.URI)
		}
	}
	debugLog("Viewer open: %s", photo.URI)
}

func (g *Game) CloseViewer() {
	g.viewer.Close()
}

// zoomBy runs a complete pinch with factor so keyboard and wheel zoom settle like a gesture
func (g *Game) zoomBy(factor float64) {
	mapper := g.viewer.Mapper()
	if mapper.IsPinching() {
		return
	}
	mapper.PinchBegin()
	mapper.PinchUpdate(factor)
	mapper.PinchEnd()
}

func (g *Game) ZoomIn() {
	g.zoomBy(g.config.MouseSettings.ZoomStep)
}

func (g *Game) ZoomOut() {
	g.zoomBy(1 / g.config.MouseSettings.ZoomStep)
}

func (g *Game) ZoomReset() {
	scale := g.viewer.Transform().Scale
	if scale > 0 {
		g.zoomBy(1 / scale)
	}
}

func (g *Game) PanBy(dirX, dirY float64) {
	mapper := g.viewer.Mapper()
	if mapper.IsPanning() {
		return
	}
	mapper.PanBegin()
	mapper.PanUpdate(dirX*panStep, dirY*panStep)
	mapper.PanEnd()
}

func (g *Game) Scroll(direction float64) {
	step := direction * g.config.MouseSettings.ScrollStep
	switch {
	case g.picker.IsOpen():
		g.picker.Grid().ScrollBy(step, len(g.picker.Entries()))
	case g.viewer.IsOpen():
		if direction < 0 {
			g.ZoomIn()
		} else {
			g.ZoomOut()
		}
	default:
		g.grid.ScrollBy(step, g.photos.Len())
	}
}

// HandleGesture routes a pointer gesture to the topmost surface
func (g *Game) HandleGesture(ev GestureEvent) {
	switch {
	case g.showHelp:
		if ev.Kind == GestureTap {
			g.showHelp = false
		}
	case g.picker.IsOpen():
		g.handlePickerGesture(ev)
	case g.viewer.IsOpen():
		g.handleViewerGesture(ev)
	default:
		g.handleHomeGesture(ev)
	}
}

func (g *Game) handleViewerGesture(ev GestureEvent) {
	mapper := g.viewer.Mapper()
	switch ev.Kind {
	case GesturePinchBegin:
		mapper.PinchBegin()
	case GesturePinchUpdate:
		mapper.PinchUpdate(ev.Scale)
	case GesturePinchEnd:
		mapper.PinchEnd()
	case GesturePanBegin:
		mapper.PanBegin()
	case GesturePanUpdate:
		mapper.PanUpdate(ev.TranslationX, ev.TranslationY)
	case GesturePanEnd:
		mapper.PanEnd()
	case GestureTap:
		if g.viewer.HandleTap(ev.X, ev.Y) {
			debugLog("Viewer closed by tap outside the image")
		}
	}
}

func (g *Game) handleHomeGesture(ev GestureEvent) {
	switch ev.Kind {
	case GesturePanUpdate:
		g.grid.ScrollBy(-ev.DeltaY, g.photos.Len())
	case GestureTap:
		if g.idle.Visible() && addButtonHit(g.screenW, g.screenH, ev.X, ev.Y) {
			if g.now().Sub(g.revealedAt) > defaultTapTimeout {
				g.OpenPicker()
			}
			return
		}
		if idx, ok := g.grid.IndexAt(ev.X, ev.Y, g.photos.Len()); ok {
			g.openPhoto(idx)
		}
	}
}

func (g *Game) handlePickerGesture(ev GestureEvent) {
	entries := g.picker.Entries()
	switch ev.Kind {
	case GesturePanUpdate:
		g.picker.Grid().ScrollBy(-ev.DeltaY, len(entries))
	case GestureTap:
		switch pickerBarHit(g.screenW, ev.X, ev.Y) {
		case PickerBarCancel:
			g.CancelPicker()
			return
		case PickerBarConfirm:
			g.ConfirmPicker()
			return
		}
		if g.picker.IsLoading() {
			return
		}
		idx, ok := g.picker.Grid().IndexAt(ev.X, ev.Y, len(entries))
		if !ok {
			return
		}
		if !g.picker.Toggle(idx) {
			g.ShowOverlayMessage(fmt.Sprintf("You can pick up to %d photos", g.picker.Limit()))
		}
	}
}

func (g *Game) NotifyInteraction() {
	now := g.now()
	if !g.idle.Visible() {
		g.revealedAt = now
	}
	g.idle.Touch(now)
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = g.now()
}

// RenderState and InputState implementation

func (g *Game) GetPhotos() []Photo { return g.photos.All() }
func (g *Game) GetGrid() *GridLayout { return &g.grid }
func (g *Game) IsAddButtonVisible() bool { return g.idle.Visible() }
func (g *Game) IsViewerOpen() bool { return g.viewer.IsOpen() }
func (g *Game) GetViewerPhoto() (Photo, bool) { return g.viewer.Photo() }
func (g *Game) GetViewerTransform() TransformState { return g.viewer.Transform() }
func (g *Game) GetViewerGeometry() ViewportGeometry { return g.viewer.Geometry() }
func (g *Game) IsPickerOpen() bool { return g.picker.IsOpen() }
func (g *Game) GetPicker() *PickerSheet { return g.picker }
func (g *Game) GetImage(uri string) (*ebiten.Image, bool) { return g.imageManager.CachedImage(uri) }
func (g *Game) IsShowingHelp() bool { return g.showHelp }
func (g *Game) GetOverlayMessage() string { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time { return g.overlayMessageTime }
func (g *Game) GetFontSize() float64 { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() ConfigLoadResult { return g.configStatus }
func (g *Game) GetKeybindings() map[string][]string { return g.keybindingManager.GetKeybindings() }
func (g *Game) GetMousebindings() map[string][]string { return g.mousebindingManager.GetMousebindings() }
func (g *Game) GetPreloadStats() PreloadStats { return g.imageManager.GetPreloadStats() }
func (g *Game) GetSortMethodName() string { return getSortMethodName(g.config.SortMethod) }

func (g *Game) GetThumbnail(uri string) (*ebiten.Image, bool) {
	return g.imageManager.Thumbnail(uri)
}

func main() {
	flag.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-debug] <library roots...>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	roots := flag.Args()
	if len(roots) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	fs := afero.NewOsFs()
	for _, root := range roots {
		if _, err := fs.Stat(root); err != nil {
			log.Fatal(err)
		}
	}

	if err := InitGraphics(); err != nil {
		log.Fatal(err)
	}

	configResult := loadConfig()
	theme, _ := ParseTheme(configResult.Config.Theme)
	SetTheme(theme)

	g := NewGame(configResult, NewLibrary(fs), time.Now)
	g.StartLibraryScan(roots)
	defer g.Shutdown()

	ebiten.SetWindowTitle("Photo Gallery")
	ebiten.SetWindowSize(configResult.Config.WindowWidth, configResult.Config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
