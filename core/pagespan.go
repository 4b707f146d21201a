package core

import (
	"fmt"
	"strconv"
	"strings"
)

// MakePageSpan encodes the page provenance of a chunk. A chunk contained in a
// single page yields "N"; one that straddles pages yields the inclusive range
// "start-end".
func MakePageSpan(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// ParsePageSpan decodes a page span into the full set of covered pages.
// For a range "a-b" the result is {a, ..., b}. Returns ErrInvalidPageSpan for
// malformed spans, non-positive pages, or ranges with start > end.
func ParsePageSpan(span string) ([]int, error) {
	if span == "" {
		return nil, fmt.Errorf("%w: empty span", ErrInvalidPageSpan)
	}

	if start, end, ok := strings.Cut(span, "-"); ok {
		first, err := strconv.Atoi(start)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPageSpan, span)
		}
		last, err := strconv.Atoi(end)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPageSpan, span)
		}
		if first < 1 || last < first {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPageSpan, span)
		}
		pages := make([]int, 0, last-first+1)
		for p := first; p <= last; p++ {
			pages = append(pages, p)
		}
		return pages, nil
	}

	page, err := strconv.Atoi(span)
	if err != nil || page < 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageSpan, span)
	}
	return []int{page}, nil
}
