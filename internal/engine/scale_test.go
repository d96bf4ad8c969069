package engine

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleImage_Shrinks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3840, 1200))
	out := ScaleImage(img, 1920, 1200)
	assert.Equal(t, image.Rect(0, 0, 1920, 600), out.Bounds())
}

func TestScaleImage_KeepsColour(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	red := color.RGBA{R: 255, A: 255}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, red)
		}
	}
	out := ScaleImage(img, 10, 10)
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())
	r, g, b, a := out.At(5, 5).RGBA()
	assert.InDelta(t, 0xffff, r, 0x101)
	assert.InDelta(t, 0, g, 0x101)
	assert.InDelta(t, 0, b, 0x101)
	assert.InDelta(t, 0xffff, a, 0x101)
}

func TestScaleImage_LeavesSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	assert.Same(t, img, ScaleImage(img, 1920, 1200))
	assert.Same(t, img, ScaleImage(img, 800, 600))
	assert.Same(t, img, ScaleImage(img, 0, 0), "no limit")
}

func TestScaleImage_TallImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 5000))
	out := ScaleImage(img, 1920, 1200)
	assert.Equal(t, 1200, out.Bounds().Dy())
	assert.Equal(t, 24, out.Bounds().Dx())
}
