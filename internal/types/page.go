// Package types provides shared types used across multiple packages.
// This package has no dependencies on other pdf-weaver packages to avoid import cycles.
package types

// PageImage is a single rendered page: its 1-indexed page number paired with
// the JPEG-encoded raster. The render stage produces these and releases its
// reference once the extraction stage takes ownership.
type PageImage struct {
	Page   int
	Data   []byte
	Width  int
	Height int
}

// PageResult is the outcome of extracting one page. Exactly one PageResult
// exists per requested page; collected sequences are sorted by Page
// ascending regardless of completion order.
type PageResult struct {
	Page int
	Text string
	Err  error
}

// Ok reports whether the page produced text without error.
func (r PageResult) Ok() bool {
	return r.Err == nil
}
