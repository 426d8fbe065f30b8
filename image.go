package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"
	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type ImagePath struct {
	Path        string // Local file path or archive:entry format, also used as the asset URI
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

func isArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// asset converts a library location into a selectable asset.
// Plain files are identified by their path; archive entries have no stable identifier.
func (p ImagePath) asset() Asset {
	if p.ArchivePath == "" {
		return Asset{Identifier: p.Path, URI: p.Path}
	}
	return Asset{URI: p.Path}
}

func assetsFromPaths(paths []ImagePath) []Asset {
	assets := make([]Asset, 0, len(paths))
	for _, p := range paths {
		assets = append(assets, p.asset())
	}
	return assets
}

// LibraryScanResult is delivered when an asynchronous scan finishes
type LibraryScanResult struct {
	Paths []ImagePath
	Err   error
}

// Library is the set of images the picker can choose from: directories and
// archives under the configured roots.
type Library struct {
	fs    afero.Fs
	mu    sync.RWMutex
	index map[string]ImagePath
}

// NewLibrary creates a library over fs
func NewLibrary(fs afero.Fs) *Library {
	return &Library{
		fs:    fs,
		index: make(map[string]ImagePath),
	}
}

// Scan collects the images under roots. Roots are scanned concurrently but
// results keep the order of roots; entries within a root follow sortMethod.
func (l *Library) Scan(ctx context.Context, roots []string, sortMethod int) ([]ImagePath, error) {
	perRoot := make([][]ImagePath, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			images, err := l.collectRoot(root, sortMethod)
			if err != nil {
				return err
			}
			perRoot[i] = images
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var list []ImagePath
	for _, images := range perRoot {
		list = append(list, images...)
	}

	l.mu.Lock()
	for _, p := range list {
		l.index[p.Path] = p
	}
	l.mu.Unlock()

	debugLog("Library scan: %d images from %d roots", len(list), len(roots))
	return list, nil
}

// ScanAsync runs Scan on a goroutine and delivers the result on the returned channel
func (l *Library) ScanAsync(ctx context.Context, roots []string, sortMethod int) <-chan LibraryScanResult {
	ch := make(chan LibraryScanResult, 1)
	go func() {
		paths, err := l.Scan(ctx, roots, sortMethod)
		ch <- LibraryScanResult{Paths: paths, Err: err}
	}()
	return ch
}

// Lookup returns the location of a scanned URI
func (l *Library) Lookup(uri string) (ImagePath, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.index[uri]
	return p, ok
}

// ReadAll returns the encoded bytes of the image behind uri
func (l *Library) ReadAll(uri string) ([]byte, error) {
	p, ok := l.Lookup(uri)
	if !ok {
		return nil, fmt.Errorf("unknown image %s", uri)
	}
	return readImageData(l.fs, p)
}

func (l *Library) collectRoot(root string, sortMethod int) ([]ImagePath, error) {
	info, err := l.fs.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if isSupportedExt(root) {
			return []ImagePath{{Path: root}}, nil
		}
		if isArchiveExt(root) {
			archiveImages, err := processArchive(l.fs, root)
			if err != nil {
				log.Printf("Warning: Skipping problematic archive %s: %v", root, err)
				return nil, nil
			}
			return sortImagePaths(archiveImages, sortMethod), nil
		}
		return nil, nil
	}

	var dirImages []ImagePath
	err = afero.Walk(l.fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if isSupportedExt(path) {
			dirImages = append(dirImages, ImagePath{Path: path})
		} else if isArchiveExt(path) {
			archiveImages, err := processArchive(l.fs, path)
			if err != nil {
				log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
				return nil
			}
			dirImages = append(dirImages, archiveImages...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortImagePaths(dirImages, sortMethod), nil
}

// sortImagePaths sorts the given image paths using the specified sort strategy.
// Returns a new sorted slice without modifying the original.
func sortImagePaths(images []ImagePath, sortMethod int) []ImagePath {
	strategy := GetSortStrategy(sortMethod)
	return strategy.Sort(images)
}

// Archive readers

func openSized(fs afero.Fs, path string) (afero.File, int64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func archiveEntry(archivePath, entryPath string) ImagePath {
	return ImagePath{
		Path:        archivePath + ":" + entryPath,
		ArchivePath: archivePath,
		EntryPath:   entryPath,
	}
}

func extractImagesFromZip(fs afero.Fs, archivePath string) ([]ImagePath, error) {
	f, size, err := openSized(fs, archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := zip.NewReader(f, size)
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for _, zf := range r.File {
		if !zf.FileInfo().IsDir() && isSupportedExt(zf.Name) {
			images = append(images, archiveEntry(archivePath, zf.Name))
		}
	}
	return images, nil
}

func extractImagesFromRar(fs afero.Fs, archivePath string) ([]ImagePath, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if !header.IsDir && isSupportedExt(header.Name) {
			images = append(images, archiveEntry(archivePath, header.Name))
		}
	}
	return images, nil
}

func extractImagesFrom7z(fs afero.Fs, archivePath string) ([]ImagePath, error) {
	f, size, err := openSized(fs, archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for _, sf := range r.File {
		if !sf.FileInfo().IsDir() && isSupportedExt(sf.Name) {
			images = append(images, archiveEntry(archivePath, sf.Name))
		}
	}
	return images, nil
}

func processArchive(fs afero.Fs, archivePath string) ([]ImagePath, error) {
	ext := strings.ToLower(filepath.Ext(archivePath))
	switch ext {
	case ".zip":
		return extractImagesFromZip(fs, archivePath)
	case ".rar":
		return extractImagesFromRar(fs, archivePath)
	case ".7z":
		return extractImagesFrom7z(fs, archivePath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

// Image data readers

func readZipEntry(fs afero.Fs, archivePath, entryPath string) ([]byte, error) {
	f, size, err := openSized(fs, archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := zip.NewReader(f, size)
	if err != nil {
		return nil, err
	}
	for _, zf := range r.File {
		if zf.Name == entryPath {
			rc, err := zf.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readRarEntry(fs afero.Fs, archivePath, entryPath string) ([]byte, error) {
	f, err := fs.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func read7zEntry(fs afero.Fs, archivePath, entryPath string) ([]byte, error) {
	f, size, err := openSized(fs, archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, err
	}
	for _, sf := range r.File {
		if sf.Name == entryPath {
			rc, err := sf.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readImageData(fs afero.Fs, p ImagePath) ([]byte, error) {
	if p.ArchivePath == "" {
		return afero.ReadFile(fs, p.Path)
	}

	ext := strings.ToLower(filepath.Ext(p.ArchivePath))
	switch ext {
	case ".zip":
		return readZipEntry(fs, p.ArchivePath, p.EntryPath)
	case ".rar":
		return readRarEntry(fs, p.ArchivePath, p.EntryPath)
	case ".7z":
		return read7zEntry(fs, p.ArchivePath, p.EntryPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ext)
	}
}

func decodeImage(data []byte, uri string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", uri, err)
	}
	return img, nil
}

// PreloadRequest asks the worker to prepare thumbnails for a set of URIs
type PreloadRequest struct {
	URIs []string
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize   int
	LoadedCount int
	FailedCount int
}

// PreloadManager builds grid thumbnails on a background goroutine
type PreloadManager struct {
	requestChan  chan PreloadRequest
	ctx          context.Context
	cancel       context.CancelFunc
	imageManager *ImageManager
	mu           sync.RWMutex
	stats        PreloadStats
	enabled      bool
}

// NewPreloadManager creates a new PreloadManager and starts its worker
func NewPreloadManager(imageManager *ImageManager) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan:  make(chan PreloadRequest, 100),
		ctx:          ctx,
		cancel:       cancel,
		imageManager: imageManager,
		enabled:      true,
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	stats := pm.stats
	stats.QueueSize = len(pm.requestChan)
	return stats
}

// Stop stops the preload manager
func (pm *PreloadManager) Stop() {
	pm.cancel()
}

// Request replaces any pending request with uris
func (pm *PreloadManager) Request(uris []string) {
	if !pm.IsEnabled() || len(uris) == 0 {
		return
	}

	// Only the latest visible range matters
drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{URIs: uris}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	for _, uri := range req.URIs {
		select {
		case <-pm.ctx.Done():
			return
		default:
		}

		if pm.imageManager.HasThumbnail(uri) {
			continue
		}
		if err := pm.imageManager.buildThumbnail(uri); err != nil {
			pm.mu.Lock()
			pm.stats.FailedCount++
			pm.mu.Unlock()
			debugLog("Thumbnail failed for %s: %v", uri, err)
			continue
		}

		pm.mu.Lock()
		pm.stats.LoadedCount++
		pm.mu.Unlock()
	}
}

// ImageManager loads and caches full images, grid thumbnails and intrinsic sizes
type ImageManager struct {
	library        *Library
	images         *lru.Cache[string, *ebiten.Image]
	thumbs         *lru.Cache[string, *ebiten.Image]
	sizes          *lru.Cache[string, image.Point]
	sizeGroup      singleflight.Group
	thumbSize      int
	preloadManager *PreloadManager

	// Full images decode in the background and are cached from Update
	loaded  chan imageLoadResult
	loading map[string]bool
	ctx     context.Context
	cancel  context.CancelFunc
}

type imageLoadResult struct {
	uri string
	img image.Image
	err error
}

func newImageCache(size int) *lru.Cache[string, *ebiten.Image] {
	evict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](size, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, evict)
	}
	return cache
}

// NewImageManager creates an ImageManager. When preloadEnabled is false,
// thumbnails are built on demand during drawing.
func NewImageManager(library *Library, cacheSize, thumbSize int, preloadEnabled bool) *ImageManager {
	sizes, _ := lru.New[string, image.Point](1024)
	ctx, cancel := context.WithCancel(context.Background())
	m := &ImageManager{
		library:   library,
		images:    newImageCache(cacheSize),
		thumbs:    newImageCache(cacheSize * 16),
		sizes:     sizes,
		thumbSize: thumbSize,
		loaded:    make(chan imageLoadResult, 8),
		loading:   make(map[string]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
	if preloadEnabled {
		m.preloadManager = NewPreloadManager(m)
	}
	return m
}

// RequestImage starts decoding the full image for uri in the background
// unless it is cached or already on its way. Call from the update goroutine.
func (m *ImageManager) RequestImage(uri string) {
	if m.images.Contains(uri) || m.loading[uri] {
		return
	}
	m.loading[uri] = true

	go func() {
		img, err := m.decodeFull(uri)
		select {
		case m.loaded <- imageLoadResult{uri: uri, img: img, err: err}:
		case <-m.ctx.Done():
		}
	}()
}

// IsLoading reports whether the full image for uri is being decoded
func (m *ImageManager) IsLoading(uri string) bool {
	return m.loading[uri]
}

// CachedImage returns the full image for uri once it has been loaded
func (m *ImageManager) CachedImage(uri string) (*ebiten.Image, bool) {
	return m.images.Get(uri)
}

// DrainLoaded caches full images whose background decode finished.
// Failures are cached as an error placeholder.
func (m *ImageManager) DrainLoaded() int {
	applied := 0
drain:
	for {
		select {
		case res := <-m.loaded:
			delete(m.loading, res.uri)
			m.storeImage(res)
			applied++
		default:
			break drain
		}
	}
	return applied
}

func (m *ImageManager) storeImage(res imageLoadResult) {
	if res.err != nil {
		log.Printf("Error: Failed to load image %s: %v", res.uri, res.err)
		m.images.Add(res.uri, CreateErrorImage(400, 300, res.uri, res.err.Error()))
		return
	}
	m.images.Add(res.uri, ebiten.NewImageFromImage(res.img))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Cache MISS: %s, loaded and cached (cache: %d items, memory: %dMB)",
		res.uri, m.images.Len(), mem.Alloc/1024/1024)
}

func (m *ImageManager) decodeFull(uri string) (image.Image, error) {
	data, err := m.library.ReadAll(uri)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data, uri)
	if err != nil {
		return nil, err
	}
	m.sizes.Add(uri, image.Pt(img.Bounds().Dx(), img.Bounds().Dy()))
	return img, nil
}

// Thumbnail returns the cached thumbnail for uri
func (m *ImageManager) Thumbnail(uri string) (*ebiten.Image, bool) {
	return m.thumbs.Get(uri)
}

// HasThumbnail reports whether a thumbnail is cached without touching recency
func (m *ImageManager) HasThumbnail(uri string) bool {
	return m.thumbs.Contains(uri)
}

// RequestThumbnails queues thumbnail generation for uris that are not cached yet.
// Without a preload worker the thumbnails are built synchronously.
func (m *ImageManager) RequestThumbnails(uris []string) {
	var missing []string
	for _, uri := range uris {
		if !m.thumbs.Contains(uri) {
			missing = append(missing, uri)
		}
	}
	if len(missing) == 0 {
		return
	}

	if m.preloadManager != nil {
		m.preloadManager.Request(missing)
		return
	}
	for _, uri := range missing {
		if err := m.buildThumbnail(uri); err != nil {
			debugLog("Thumbnail failed for %s: %v", uri, err)
		}
	}
}

func (m *ImageManager) buildThumbnail(uri string) error {
	data, err := m.library.ReadAll(uri)
	if err == nil {
		var img image.Image
		img, err = decodeImage(data, uri)
		if err == nil {
			m.sizes.Add(uri, image.Pt(img.Bounds().Dx(), img.Bounds().Dy()))
			m.thumbs.Add(uri, ebiten.NewImageFromImage(makeThumbnail(img, m.thumbSize)))
			return nil
		}
	}
	m.thumbs.Add(uri, CreateErrorImage(m.thumbSize, m.thumbSize, uri, err.Error()))
	return err
}

// ResolveSize reports the intrinsic size of the image behind uri.
// Concurrent probes of the same URI share one decode.
func (m *ImageManager) ResolveSize(ctx context.Context, uri string) (int, int, error) {
	if pt, ok := m.sizes.Get(uri); ok {
		return pt.X, pt.Y, nil
	}

	v, err, _ := m.sizeGroup.Do(uri, func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := m.library.ReadAll(uri)
		if err != nil {
			return nil, err
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding config of %s: %v", uri, err)
		}
		pt := image.Pt(cfg.Width, cfg.Height)
		m.sizes.Add(uri, pt)
		return pt, nil
	})
	if err != nil {
		return 0, 0, err
	}
	pt := v.(image.Point)
	return pt.X, pt.Y, nil
}

// GetPreloadStats returns thumbnail preload statistics
func (m *ImageManager) GetPreloadStats() PreloadStats {
	if m.preloadManager != nil {
		return m.preloadManager.GetStats()
	}
	return PreloadStats{}
}

// Stop shuts the preload worker and pending full-image loads down
func (m *ImageManager) Stop() {
	m.cancel()
	if m.preloadManager != nil {
		m.preloadManager.Stop()
	}
}
