package transform

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/inkblot-io/inkblot/internal/engine"
)

// RedactionMap assigns redaction rectangles to zero-based page indices.
// It unmarshals from a JSON object keyed by page number strings:
// {"0": [[10, 10, 100, 40]], "2": [...]}. Rectangles are in reference
// DPI coordinates.
type RedactionMap map[int][]engine.Rect

func (m *RedactionMap) UnmarshalJSON(data []byte) error {
	raw := make(map[string][]engine.Rect)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(RedactionMap, len(raw))
	for key, rects := range raw {
		page, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid page key %q: %w", key, err)
		}
		result[page] = rects
	}
	*m = result
	return nil
}

// FigurePair couples a figure region with its optional caption region.
// It unmarshals from a JSON array [figureRect, captionRect] where the
// caption may be null or absent.
type FigurePair struct {
	Figure  engine.Rect
	Caption *engine.Rect
}

func (p *FigurePair) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("figure pair must be an array: %w", err)
	}
	if len(parts) < 1 || len(parts) > 2 {
		return fmt.Errorf("figure pair must hold one or two regions, got %d", len(parts))
	}

	if err := json.Unmarshal(parts[0], &p.Figure); err != nil {
		return fmt.Errorf("figure region: %w", err)
	}

	p.Caption = nil
	if len(parts) == 2 && string(parts[1]) != "null" {
		var caption engine.Rect
		if err := json.Unmarshal(parts[1], &caption); err != nil {
			return fmt.Errorf("caption region: %w", err)
		}
		p.Caption = &caption
	}
	return nil
}

func (p FigurePair) MarshalJSON() ([]byte, error) {
	if p.Caption == nil {
		return json.Marshal([]any{p.Figure, nil})
	}
	return json.Marshal([]any{p.Figure, *p.Caption})
}

// FigureMap assigns figure/caption pairs to zero-based page indices, keyed
// the same way as RedactionMap.
type FigureMap map[int][]FigurePair

func (m *FigureMap) UnmarshalJSON(data []byte) error {
	raw := make(map[string][]FigurePair)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(FigureMap, len(raw))
	for key, pairs := range raw {
		page, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid page key %q: %w", key, err)
		}
		result[page] = pairs
	}
	*m = result
	return nil
}
