package color

import "errors"

var (
	// ErrInvalidComponent is returned when a chromaticity coordinate is negative or not finite
	ErrInvalidComponent = errors.New("invalid chromaticity component")

	// ErrDegenerateGamut is returned when the three primaries of a gamut are collinear
	ErrDegenerateGamut = errors.New("degenerate gamut")

	// ErrOutOfGamut is returned when a color is built from a point outside its gamut
	ErrOutOfGamut = errors.New("point out of gamut")
)
