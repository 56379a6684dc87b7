// Package pagerange parses user-supplied page range expressions into
// bounded page lists.
package pagerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is the sentinel for any malformed or out-of-policy range
// expression. Callers treat it as a user-input validation error, not a
// system fault.
var ErrInvalid = errors.New("invalid page range")

// Pages is a strictly ascending list of 1-indexed page numbers.
type Pages []int

// Parse expands a range expression into the full page list.
//
// Accepted shapes are a single page "N" or a dash pair "N-M". A single page
// is valid iff 1 <= N <= maxPage. A pair is valid iff 1 <= N <= M <= maxPage
// and its span M-N+1 does not exceed maxSpan; oversized spans are rejected
// outright rather than truncated, bounding per-run cost. Everything else
// (empty input, extra dashes, non-numeric tokens) fails with ErrInvalid.
func Parse(input string, maxPage, maxSpan int) (Pages, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalid)
	}

	parts := strings.Split(input, "-")
	switch len(parts) {
	case 1:
		n, err := parsePage(parts[0], maxPage)
		if err != nil {
			return nil, err
		}
		return Pages{n}, nil

	case 2:
		start, err := parsePage(parts[0], maxPage)
		if err != nil {
			return nil, err
		}
		end, err := parsePage(parts[1], maxPage)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("%w: %d-%d is descending", ErrInvalid, start, end)
		}
		if span := end - start + 1; span > maxSpan {
			return nil, fmt.Errorf("%w: span of %d exceeds the %d page limit", ErrInvalid, span, maxSpan)
		}
		pages := make(Pages, 0, end-start+1)
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
		return pages, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalid, input)
	}
}

// parsePage parses one token and checks document bounds.
func parsePage(tok string, maxPage int) (int, error) {
	tok = strings.TrimSpace(tok)
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a page number", ErrInvalid, tok)
	}
	if n < 1 || n > maxPage {
		return 0, fmt.Errorf("%w: page %d is outside 1-%d", ErrInvalid, n, maxPage)
	}
	return n, nil
}

// Chunks splits the page list into consecutive groups of at most size pages.
// The groups preserve order; size values below 1 are treated as 1.
func (p Pages) Chunks(size int) []Pages {
	if size < 1 {
		size = 1
	}
	chunks := make([]Pages, 0, (len(p)+size-1)/size)
	for start := 0; start < len(p); start += size {
		end := start + size
		if end > len(p) {
			end = len(p)
		}
		chunks = append(chunks, p[start:end])
	}
	return chunks
}
