// Package pixelio wraps the imaging collaborators the sorter depends on:
// decode and encode, right-angle rotation, grayscale and binary mask
// derivation, and edge detection. The sorting core never touches files or
// color spaces itself; everything goes through here.
package pixelio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrRotationStep reports an angle that is not a multiple of 90 degrees.
var ErrRotationStep = errors.New("rotation angle must be a multiple of 90 degrees")

// Open decodes the image at path into row-major NRGBA pixels.
func Open(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}

	return imaging.Clone(img), nil
}

// OpenGray decodes the image at path into a single-channel buffer, for use
// as a mask.
func OpenGray(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask %s: %w", path, err)
	}

	return ToGray(img), nil
}

// Save encodes img to path. The format is derived from the file extension.
func Save(img image.Image, path string) error {
	err := imaging.Save(img, path)
	if err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}

	return nil
}

// SortedPath derives the default output path by inserting the given suffix
// before the input's extension: with suffix "sorted", picture.png becomes
// picture.sorted.png. Inputs without an extension get ".png" appended.
func SortedPath(input, suffix string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".png"
	}

	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + suffix + ext
}

// Grayscale converts img to a single-channel image using the standard luma
// weighting.
func Grayscale(img image.Image) *image.Gray {
	return ToGray(imaging.Grayscale(img))
}

// ToGray repacks any image into single-channel 8-bit form. An image that is
// already *image.Gray is returned as-is.
func ToGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)

	return gray
}

// Binarize maps every pixel to white when its value lies in [low, high) and
// to black otherwise, in place.
func Binarize(gray *image.Gray, low, high uint8) {
	for i, v := range gray.Pix {
		if low <= v && v < high {
			gray.Pix[i] = 255
		} else {
			gray.Pix[i] = 0
		}
	}
}

// Rotation is a right-angle rotation applied to the image (and mask) before
// sorting and reversed afterwards, so that the sort axis is always a row.
type Rotation int

// Supported rotations.
const (
	RotateNone Rotation = iota
	RotateQuarter
	RotateHalf
	RotateThreeQuarter
)

// ParseRotation interprets an angle in degrees. Any multiple of 90 is
// accepted; negative angles wrap, so -90 equals 270.
func ParseRotation(degrees int) (Rotation, error) {
	norm := ((degrees % 360) + 360) % 360

	switch norm {
	case 0:
		return RotateNone, nil
	case 90:
		return RotateQuarter, nil
	case 180:
		return RotateHalf, nil
	case 270:
		return RotateThreeQuarter, nil
	default:
		return RotateNone, fmt.Errorf("%w: got %d", ErrRotationStep, degrees)
	}
}

// Apply rotates img counter-clockwise by the rotation's angle.
func (rot Rotation) Apply(img image.Image) *image.NRGBA {
	switch rot {
	case RotateQuarter:
		return imaging.Rotate90(img)
	case RotateHalf:
		return imaging.Rotate180(img)
	case RotateThreeQuarter:
		return imaging.Rotate270(img)
	default:
		return imaging.Clone(img)
	}
}

// Undo reverses Apply.
func (rot Rotation) Undo(img image.Image) *image.NRGBA {
	switch rot {
	case RotateQuarter:
		return imaging.Rotate270(img)
	case RotateHalf:
		return imaging.Rotate180(img)
	case RotateThreeQuarter:
		return imaging.Rotate90(img)
	default:
		return imaging.Clone(img)
	}
}
