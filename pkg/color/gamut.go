package color

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
)

// settleStart is the first fraction of the way to the centroid tried when a
// projected point lands just outside the triangle. It doubles on each retry.
const settleStart = 1e-7

// Gamut is the triangle of a light's red, green and blue primaries in the xy plane.
type Gamut struct {
	red   Point
	green Point
	blue  Point
}

// Well-known gamuts reported by Hue fixtures
var (
	GamutA = Gamut{
		red:   Point{x: 0.704, y: 0.296},
		green: Point{x: 0.2151, y: 0.7106},
		blue:  Point{x: 0.138, y: 0.08},
	}
	GamutB = Gamut{
		red:   Point{x: 0.675, y: 0.322},
		green: Point{x: 0.409, y: 0.518},
		blue:  Point{x: 0.167, y: 0.04},
	}
	GamutC = Gamut{
		red:   Point{x: 0.6915, y: 0.3083},
		green: Point{x: 0.17, y: 0.7},
		blue:  Point{x: 0.1532, y: 0.0475},
	}
)

// GamutForType returns the well-known gamut for a gamut class tag ("A", "B" or "C")
func GamutForType(gamutType string) (Gamut, bool) {
	switch gamutType {
	case "A", "a":
		return GamutA, true
	case "B", "b":
		return GamutB, true
	case "C", "c":
		return GamutC, true
	default:
		return Gamut{}, false
	}
}

// NewGamut creates a Gamut. The primaries must not be collinear.
func NewGamut(red, green, blue Point) (Gamut, error) {
	if edgeSign(green, red, blue) == 0 {
		return Gamut{}, fmt.Errorf("primaries %v, %v, %v are collinear: %w", red, green, blue, ErrDegenerateGamut)
	}
	return Gamut{red: red, green: green, blue: blue}, nil
}

// Red returns the red primary
func (g Gamut) Red() Point { return g.red }

// Green returns the green primary
func (g Gamut) Green() Point { return g.green }

// Blue returns the blue primary
func (g Gamut) Blue() Point { return g.blue }

// Centroid returns the mean of the three primaries
func (g Gamut) Centroid() Point {
	return Point{
		x: (g.red.x + g.green.x + g.blue.x) / 3,
		y: (g.red.y + g.green.y + g.blue.y) / 3,
	}
}

// edgeSign is the cross product of (a - b) and (p - b). Its sign tells on
// which side of the line through b and a the point p lies; zero is on it.
func edgeSign(a, b, p Point) float32 {
	return (a.x-b.x)*(p.y-b.y) - (a.y-b.y)*(p.x-b.x)
}

// Contains reports whether p lies inside the gamut triangle. Points exactly on
// an edge, including the primaries themselves, are contained.
func (g Gamut) Contains(p Point) bool {
	s := edgeSign(g.red, g.blue, p)
	t := edgeSign(g.green, g.red, p)
	if (s < 0) != (t < 0) && s != 0 && t != 0 {
		return false
	}

	d := edgeSign(g.blue, g.green, p)
	if d == 0 {
		return true
	}
	// s and t agree, or at least one of them is zero
	ref := s + t
	return ref == 0 || (d < 0) == (ref < 0)
}

// Restrain returns p when it is contained, otherwise the nearest point on the
// gamut boundary.
func (g Gamut) Restrain(p Point) Point {
	if g.Contains(p) {
		return p
	}
	q, _ := g.nearestEdgePoint(p)
	return g.settle(q)
}

// nearestEdgePoint projects p onto each edge and returns the closest result
// with the index of its edge. Edges are tried red-green, green-blue, blue-red
// and a later edge only wins when it is strictly closer.
func (g Gamut) nearestEdgePoint(p Point) (Point, int) {
	edges := [...][2]Point{{g.red, g.green}, {g.green, g.blue}, {g.blue, g.red}}

	best := closestPointOnSegment(edges[0][0], edges[0][1], p)
	bestDist, bestEdge := SquaredDistance(p, best), 0
	for i := 1; i < len(edges); i++ {
		candidate := closestPointOnSegment(edges[i][0], edges[i][1], p)
		if d := SquaredDistance(p, candidate); d < bestDist {
			best, bestDist, bestEdge = candidate, d, i
		}
	}
	return best, bestEdge
}

// closestPointOnSegment projects p onto the segment a->b with the projection
// parameter clamped to [0, 1].
func closestPointOnSegment(a, b, p Point) Point {
	abx, aby := b.x-a.x, b.y-a.y
	apx, apy := p.x-a.x, p.y-a.y

	t := (apx*abx + apy*aby) / (abx*abx + aby*aby)
	switch {
	case t <= 0 || math32.IsNaN(t):
		return a
	case t >= 1:
		return b
	}
	return Point{x: a.x + abx*t, y: a.y + aby*t}
}

// settle moves a projected point that rounding left just outside the triangle
// along the line to the centroid, doubling the step until Contains accepts
// it. Restrain is idempotent as a result.
func (g Gamut) settle(q Point) Point {
	if g.Contains(q) {
		return q
	}
	c := g.Centroid()
	dx, dy := c.x-q.x, c.y-q.y
	for f := float32(settleStart); f < 1; f *= 2 {
		n := Point{x: q.x + dx*f, y: q.y + dy*f}
		if g.Contains(n) {
			return n
		}
	}
	// Not reached: the centroid of a valid gamut is contained
	return c
}

// String implements fmt.Stringer
func (g Gamut) String() string {
	return fmt.Sprintf("red=%v green=%v blue=%v", g.red, g.green, g.blue)
}

type gamutJSON struct {
	Red   Point `json:"red"`
	Green Point `json:"green"`
	Blue  Point `json:"blue"`
}

// MarshalJSON encodes the gamut as {"red": ..., "green": ..., "blue": ...}
func (g Gamut) MarshalJSON() ([]byte, error) {
	return json.Marshal(gamutJSON{Red: g.red, Green: g.green, Blue: g.blue})
}

// UnmarshalJSON decodes and validates a gamut
func (g *Gamut) UnmarshalJSON(data []byte) error {
	var raw gamutJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewGamut(raw.Red, raw.Green, raw.Blue)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
