// Package unit derives the scaling unit that converts author coordinates
// into canvas pixels.
//
// The unit grows sub-linearly with the canvas area so that hand-written
// coordinates stay in a comfortable range (roughly 10 to 100) whether the
// canvas is a thumbnail or a 4K frame:
//
//	u := ceil(area / 10^(digits(area) - 1.95))
//
// where digits is the number of decimal digits of width*height.
package unit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MinUnit is returned for an empty (zero-area) canvas.
const MinUnit Unit = 1

// exponentOffset is subtracted from the digit count of the area.
const exponentOffset = 1.95

var (
	// ErrInvalidDimension is returned for negative canvas dimensions.
	ErrInvalidDimension = errors.New("unit: canvas dimensions must not be negative")

	// ErrInvalidOverride is returned when an explicit unit is not a finite positive number.
	ErrInvalidOverride = errors.New("unit: override must be a finite positive number")
)

// Unit is the number of pixels per author coordinate.
type Unit float64

// Scale converts an author coordinate to pixels.
func (u Unit) Scale(v float64) float64 {
	return float64(u) * v
}

// ScalePoint converts an author point to pixels.
func (u Unit) ScalePoint(x, y float64) (float64, float64) {
	return float64(u) * x, float64(u) * y
}

// String formats the unit without trailing zeros.
func (u Unit) String() string {
	return strconv.FormatFloat(float64(u), 'f', -1, 64)
}

// Derive returns the unit for a width x height canvas.
// A non-nil override bypasses the heuristic and is returned unchanged.
func Derive(width, height int, override *float64) (Unit, error) {
	if override != nil {
		v := *override
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrInvalidOverride, v)
		}
		return Unit(v), nil
	}

	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}

	return fromArea(int64(width) * int64(height)), nil
}

// MustDerive is like Derive but panics on error.
func MustDerive(width, height int, override *float64) Unit {
	u, err := Derive(width, height, override)
	if err != nil {
		panic(err)
	}
	return u
}

// fromArea applies the digit heuristic to a pixel count.
func fromArea(area int64) Unit {
	if area <= 0 {
		return MinUnit
	}

	digits := len(strconv.FormatInt(area, 10))
	u := math.Ceil(float64(area) / math.Pow(10, float64(digits)-exponentOffset))

	// area / 10^(d-1.95) lies in [10^0.95, 10^1.95), so this only guards
	// against float surprises.
	if u < float64(MinUnit) || math.IsNaN(u) || math.IsInf(u, 0) {
		return MinUnit
	}
	return Unit(u)
}
