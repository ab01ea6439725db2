package color

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
)

// Point is a chromaticity coordinate in the CIE 1931 xy plane.
// The zero value is the origin, which is a valid (if unreachable) chromaticity.
type Point struct {
	x float32
	y float32
}

// NewPoint validates and creates a Point. Both coordinates must be finite and non-negative.
func NewPoint(x, y float32) (Point, error) {
	if err := validComponent("x", x); err != nil {
		return Point{}, err
	}
	if err := validComponent("y", y); err != nil {
		return Point{}, err
	}
	return Point{x: x, y: y}, nil
}

func validComponent(name string, v float32) error {
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return fmt.Errorf("%s=%v is not finite: %w", name, v, ErrInvalidComponent)
	}
	if v < 0 {
		return fmt.Errorf("%s=%v is negative: %w", name, v, ErrInvalidComponent)
	}
	return nil
}

// X returns the x coordinate
func (p Point) X() float32 { return p.x }

// Y returns the y coordinate
func (p Point) Y() float32 { return p.y }

// String implements fmt.Stringer
func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.x, p.y)
}

// SquaredDistance returns the squared euclidean distance between a and b
func SquaredDistance(a, b Point) float32 {
	dx := a.x - b.x
	dy := a.y - b.y
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance between a and b
func Distance(a, b Point) float32 {
	return math32.Sqrt(SquaredDistance(a, b))
}

type pointJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// MarshalJSON encodes the point as {"x": ..., "y": ...}
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{X: p.x, Y: p.y})
}

// UnmarshalJSON decodes {"x": ..., "y": ...} and validates the coordinates
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw pointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewPoint(raw.X, raw.Y)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
