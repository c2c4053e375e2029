package pages_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/inkblot-io/inkblot/internal/pages"
)

func intPtr(v int) *int {
	return &v
}

func TestResolve_RangeSelection(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		spec       pages.RangeSpec
		expected   []int
	}{
		{
			name:       "explicit range",
			totalPages: 10,
			spec:       pages.RangeSpec{Start: intPtr(2), End: intPtr(5)},
			expected:   []int{2, 3, 4, 5},
		},
		{
			name:       "start only extends to last page",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(3)},
			expected:   []int{3, 4},
		},
		{
			name:       "end only starts from first page",
			totalPages: 5,
			spec:       pages.RangeSpec{End: intPtr(2)},
			expected:   []int{0, 1, 2},
		},
		{
			name:       "start zero is a real bound",
			totalPages: 3,
			spec:       pages.RangeSpec{Start: intPtr(0), End: intPtr(1)},
			expected:   []int{0, 1},
		},
		{
			name:       "negative start counts from end",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(-1)},
			expected:   []int{4},
		},
		{
			name:       "negative start clamps to first page",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(-100)},
			expected:   []int{0, 1, 2, 3, 4},
		},
		{
			name:       "negative end counts from end",
			totalPages: 5,
			spec:       pages.RangeSpec{End: intPtr(-2)},
			expected:   []int{0, 1, 2, 3},
		},
		{
			name:       "end clamps to last page",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(3), End: intPtr(99)},
			expected:   []int{3, 4},
		},
		{
			name:       "single page range",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(2), End: intPtr(2)},
			expected:   []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := pages.Resolve(tt.totalPages, tt.spec)
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if !slices.Equal(result, tt.expected) {
				t.Errorf("Resolve() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestResolve_ExplicitPages(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		spec       pages.RangeSpec
		expected   []int
	}{
		{
			name:       "pages only",
			totalPages: 10,
			spec:       pages.RangeSpec{Pages: []int{7, 1, 4}},
			expected:   []int{1, 4, 7},
		},
		{
			name:       "union with range deduplicates",
			totalPages: 10,
			spec:       pages.RangeSpec{Start: intPtr(2), End: intPtr(4), Pages: []int{3, 8}},
			expected:   []int{2, 3, 4, 8},
		},
		{
			name:       "out of range pages dropped",
			totalPages: 5,
			spec:       pages.RangeSpec{Pages: []int{0, 4, 5, 100, -1}},
			expected:   []int{0, 4},
		},
		{
			name:       "duplicate pages collapse",
			totalPages: 5,
			spec:       pages.RangeSpec{Pages: []int{2, 2, 2}},
			expected:   []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := pages.Resolve(tt.totalPages, tt.spec)
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if !slices.Equal(result, tt.expected) {
				t.Errorf("Resolve() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		spec       pages.RangeSpec
	}{
		{
			name:       "start past last page",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(5)},
		},
		{
			name:       "end before first page",
			totalPages: 5,
			spec:       pages.RangeSpec{End: intPtr(-100)},
		},
		{
			name:       "empty document",
			totalPages: 0,
			spec:       pages.RangeSpec{Start: intPtr(0)},
		},
		{
			name:       "all explicit pages out of range",
			totalPages: 5,
			spec:       pages.RangeSpec{Pages: []int{9, 10}},
		},
		{
			name:       "nothing selected",
			totalPages: 5,
			spec:       pages.RangeSpec{},
		},
		{
			name:       "inverted range with no valid pages",
			totalPages: 5,
			spec:       pages.RangeSpec{Start: intPtr(4), End: intPtr(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pages.Resolve(tt.totalPages, tt.spec)
			if !errors.Is(err, pages.ErrInvalidSelection) {
				t.Errorf("Resolve() error = %v, want ErrInvalidSelection", err)
			}
		})
	}
}

func TestResolve_InvertedRangeWithExplicitPages(t *testing.T) {
	// An empty range contributes nothing, but explicit pages still count.
	spec := pages.RangeSpec{Start: intPtr(4), End: intPtr(1), Pages: []int{0}}

	result, err := pages.Resolve(5, spec)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !slices.Equal(result, []int{0}) {
		t.Errorf("Resolve() = %v, want [0]", result)
	}
}

func TestRangeSpec_IsZero(t *testing.T) {
	if !(pages.RangeSpec{}).IsZero() {
		t.Error("empty spec should be zero")
	}
	if (pages.RangeSpec{Start: intPtr(0)}).IsZero() {
		t.Error("spec with start should not be zero")
	}
	if (pages.RangeSpec{Pages: []int{1}}).IsZero() {
		t.Error("spec with pages should not be zero")
	}
}
