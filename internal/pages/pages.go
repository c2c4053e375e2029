// Package pages normalizes user-supplied page selections into canonical
// zero-based index sets. Ranges use Python-style negative indexing: -1 is
// the last page, -n the first. Explicit page lists are unioned with the
// range, deduplicated, bounds-filtered, and returned sorted.
package pages

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidSelection indicates a selection that cannot be resolved against
// the document: an out-of-bounds range endpoint or an empty result set.
var ErrInvalidSelection = errors.New("invalid page selection")

// RangeSpec describes a page selection. Start and End are inclusive range
// endpoints; nil means unspecified. Pages lists explicit zero-based indices
// unioned with the range. Negative Start/End values count from the end of
// the document.
type RangeSpec struct {
	Start *int  `json:"start"`
	End   *int  `json:"end"`
	Pages []int `json:"pages"`
}

// IsZero reports whether the spec selects nothing explicitly, which callers
// treat as "all pages".
func (s RangeSpec) IsZero() bool {
	return s.Start == nil && s.End == nil && len(s.Pages) == 0
}

// Resolve normalizes the spec against a document of totalPages pages.
// The range contributes only when Start or End is set: a Start short of the
// first page clamps to 0, a Start at or past the last page is an error, an
// End past the last page clamps to it, and an End resolving before the first
// page is an error. Explicit pages outside the document are dropped silently.
// An empty result is ErrInvalidSelection.
func Resolve(totalPages int, spec RangeSpec) ([]int, error) {
	if totalPages <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidSelection)
	}

	selected := make(map[int]bool)

	if spec.Start != nil || spec.End != nil {
		start := 0
		end := totalPages - 1

		if spec.Start != nil {
			s := *spec.Start
			if s < 0 {
				s = max(0, totalPages+s)
			} else if s >= totalPages {
				return nil, fmt.Errorf("%w: start %d exceeds page count %d", ErrInvalidSelection, *spec.Start, totalPages)
			}
			start = s
		}

		if spec.End != nil {
			e := *spec.End
			if e < 0 {
				if totalPages+e < 0 {
					return nil, fmt.Errorf("%w: end %d resolves before first page", ErrInvalidSelection, *spec.End)
				}
				e = totalPages + e
			} else {
				e = min(totalPages-1, e)
			}
			end = e
		}

		for i := start; i <= end; i++ {
			selected[i] = true
		}
	}

	for _, p := range spec.Pages {
		if p >= 0 && p < totalPages {
			selected[p] = true
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no pages selected", ErrInvalidSelection)
	}

	result := make([]int, 0, len(selected))
	for p := range selected {
		result = append(result, p)
	}
	sort.Ints(result)

	return result, nil
}
