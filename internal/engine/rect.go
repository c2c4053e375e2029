package engine

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in page coordinates, top-left origin.
// It marshals as a JSON array [left, top, right, bottom].
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Valid reports whether the rectangle has positive area.
func (r Rect) Valid() bool {
	return r.Right > r.Left && r.Bottom > r.Top
}

// Scale returns the rectangle with all coordinates multiplied by factor.
// Used to convert between DPI coordinate spaces.
func (r Rect) Scale(factor float64) Rect {
	return Rect{
		Left:   r.Left * factor,
		Top:    r.Top * factor,
		Right:  r.Right * factor,
		Bottom: r.Bottom * factor,
	}
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// ImageRect converts the rectangle to integer pixel bounds, truncating
// toward zero the way raster crops expect.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Trunc(r.Left)),
		int(math.Trunc(r.Top)),
		int(math.Trunc(r.Right)),
		int(math.Trunc(r.Bottom)),
	)
}

func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.Left, r.Top, r.Right, r.Bottom})
}

func (r *Rect) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("rect must be [left, top, right, bottom]: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("rect must be [left, top, right, bottom], got %d elements", len(coords))
	}
	r.Left, r.Top, r.Right, r.Bottom = coords[0], coords[1], coords[2], coords[3]
	return nil
}
