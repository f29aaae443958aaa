// Package sortkeys provides the pure pixel-to-key functions that order the
// pixels within an interval.
package sortkeys

import (
	"errors"
	"fmt"
	"image/color"
)

// Func maps one pixel to its numeric ordering key. Implementations must be
// pure: same pixel, same key.
type Func func(color.NRGBA) uint32

// ErrUnknownKey reports an unrecognized sorting key selector.
var ErrUnknownKey = errors.New("unknown sorting key")

// Selector names as accepted on the command line.
const (
	NameLightness = "lightness"
	NameIntensity = "intensity"
	NameMinimum   = "minimum"
	NameMaximum   = "maximum"
)

// Lightness returns the pixel's perceptual luma using the standard BT.601
// weighting, matching the grayscale conversion the threshold partitioner
// relies on.
func Lightness(p color.NRGBA) uint32 {
	return (19595*uint32(p.R) + 38470*uint32(p.G) + 7471*uint32(p.B) + 1<<15) >> 16
}

// Intensity returns the sum of all channel values, alpha included.
func Intensity(p color.NRGBA) uint32 {
	return uint32(p.R) + uint32(p.G) + uint32(p.B) + uint32(p.A)
}

// ChanMin returns the smallest channel value, alpha included.
func ChanMin(p color.NRGBA) uint32 {
	return uint32(min(p.R, p.G, p.B, p.A))
}

// ChanMax returns the largest channel value, alpha included.
func ChanMax(p color.NRGBA) uint32 {
	return uint32(max(p.R, p.G, p.B, p.A))
}

// ByName resolves a selector name to its key function.
func ByName(name string) (Func, error) {
	switch name {
	case NameLightness:
		return Lightness, nil
	case NameIntensity:
		return Intensity, nil
	case NameMinimum:
		return ChanMin, nil
	case NameMaximum:
		return ChanMax, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
}

// Names returns the selector names in their canonical order.
func Names() []string {
	return []string{NameLightness, NameIntensity, NameMinimum, NameMaximum}
}
