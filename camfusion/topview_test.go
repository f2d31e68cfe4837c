package camfusion

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeBox(t *testing.T) {
	box := NewBoundingBox(4, NewRect(0, 0, 100, 100))
	box.RangePoints = []RangePoint{
		{X: 9.8, Y: 0.6},
		{X: 10.4, Y: -0.4},
		{X: 10.1, Y: 0.1},
	}

	stats := SummarizeBox(&box)
	assert.Equal(t, 4, stats.BoxID)
	assert.Equal(t, 3, stats.PointCount)
	assert.InDelta(t, 9.8, stats.MinX, eps)
	assert.InDelta(t, 1.0, stats.LateralExtent, eps)
}

func TestSummarizeBoxEmpty(t *testing.T) {
	box := NewBoundingBox(4, NewRect(0, 0, 100, 100))
	stats := SummarizeBox(&box)
	assert.Equal(t, 0, stats.PointCount)
	assert.Equal(t, 0.0, stats.MinX)
	assert.Equal(t, 0.0, stats.LateralExtent)
}

func TestRenderTopView(t *testing.T) {
	box := NewBoundingBox(1, NewRect(0, 0, 100, 100))
	box.RangePoints = []RangePoint{
		{X: 9.8, Y: 0.6},
		{X: 10.4, Y: -0.4},
	}

	opts := DefaultTopViewOptions()
	img := RenderTopView([]BoundingBox{box}, opts)
	require.Equal(t, opts.ImageWidth, img.Bounds().Dx())
	require.Equal(t, opts.ImageHeight, img.Bounds().Dy())

	// The top-left corner is far from any point and marker line
	corner := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA)
	assert.EqualValues(t, 255, corner.R)
	assert.EqualValues(t, 255, corner.G)
	assert.EqualValues(t, 255, corner.B)
}

func TestRenderTopViewEmptyBoxes(t *testing.T) {
	opts := DefaultTopViewOptions()
	img := RenderTopView([]BoundingBox{NewBoundingBox(0, NewRect(0, 0, 10, 10))}, opts)
	require.NotNil(t, img)
	assert.Equal(t, opts.ImageWidth, img.Bounds().Dx())
}
