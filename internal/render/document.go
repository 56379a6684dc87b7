// Package render turns PDF pages into compressed JPEG rasters.
//
// Rendering runs through a Renderer strategy: a background worker pool when
// configured, a synchronous inline path otherwise. A failed pool submission
// falls back to the inline path so a run always completes.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"os"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/Sonucs12/pdf-weaver/internal/types"
)

// ErrFileTooLarge is returned when the input exceeds the configured size cap.
var ErrFileTooLarge = errors.New("file too large")

// Document is an open PDF ready for page rendering.
// Rendering individual pages is safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	doc       *fitz.Document
	path      string
	pageCount int

	dpi     int
	quality int
}

// OpenOptions bound and shape document loading.
type OpenOptions struct {
	DPI         int // render resolution
	JPEGQuality int // 1-100
	MaxSizeMB   int // 0 disables the size check
}

// Open validates and opens the PDF at path. Validation (page count via
// pdfcpu) runs before the rendering engine touches the file, so corrupt
// documents fail with a clean error instead of a render crash.
func Open(path string, opts OpenOptions) (*Document, error) {
	if opts.DPI <= 0 {
		opts.DPI = 150
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 75
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if opts.MaxSizeMB > 0 && info.Size() > int64(opts.MaxSizeMB)*1024*1024 {
		return nil, fmt.Errorf("%w: %s is %dMB (limit %dMB)",
			ErrFileTooLarge, path, info.Size()/(1024*1024), opts.MaxSizeMB)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF structure of %s: %w", path, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%s has no pages", path)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for rendering: %w", path, err)
	}

	return &Document{
		doc:       doc,
		path:      path,
		pageCount: pageCount,
		dpi:       opts.DPI,
		quality:   opts.JPEGQuality,
	}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pageCount
}

// Path returns the source path.
func (d *Document) Path() string {
	return d.path
}

// RenderPage rasterizes one 1-indexed page and encodes it as JPEG.
// The raster step is serialized; encoding runs concurrently so pooled
// workers still overlap useful work.
func (d *Document) RenderPage(page int) (types.PageImage, error) {
	if page < 1 || page > d.pageCount {
		return types.PageImage{}, fmt.Errorf("page %d out of range 1-%d", page, d.pageCount)
	}

	d.mu.Lock()
	img, err := d.doc.ImageDPI(page-1, float64(d.dpi))
	d.mu.Unlock()
	if err != nil {
		return types.PageImage{}, fmt.Errorf("failed to render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: d.quality}); err != nil {
		return types.PageImage{}, fmt.Errorf("failed to encode page %d: %w", page, err)
	}

	bounds := img.Bounds()
	return types.PageImage{
		Page:   page,
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Close releases the rendering engine's handle.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
