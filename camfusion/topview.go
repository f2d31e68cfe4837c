package camfusion

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/fogleman/gg"
)

// VisualizationSink receives rendered debug views. Rendering is a side
// channel: implementations may ignore the image entirely, and none of the
// estimators depend on it.
type VisualizationSink interface {
	Accept(img image.Image)
}

// TopViewOptions controls the top-down rendering of associated range points.
// World sizes are in meters, image sizes in pixels.
type TopViewOptions struct {
	WorldWidth  float64
	WorldHeight float64
	ImageWidth  int
	ImageHeight int
	// MarkerSpacing is the gap between forward distance marker lines, in
	// meters.
	MarkerSpacing float64
}

func DefaultTopViewOptions() TopViewOptions {
	return TopViewOptions{
		WorldWidth:    10.0,
		WorldHeight:   20.0,
		ImageWidth:    1000,
		ImageHeight:   2000,
		MarkerSpacing: 2.0,
	}
}

// BoxStats summarizes the range points attached to one box: the closest
// forward distance and the lateral spread, the numbers printed next to each
// object in the top view.
type BoxStats struct {
	BoxID         int
	PointCount    int
	MinX          float64
	LateralExtent float64
}

// SummarizeBox computes BoxStats over box.RangePoints. A box with no
// attached points yields zero stats.
func SummarizeBox(box *BoundingBox) BoxStats {
	stats := BoxStats{BoxID: box.ID, PointCount: len(box.RangePoints)}
	if stats.PointCount == 0 {
		return stats
	}
	xMin := math.Inf(1)
	yMin := math.Inf(1)
	yMax := math.Inf(-1)
	for _, pt := range box.RangePoints {
		xMin = minFloat64(xMin, pt.X)
		yMin = minFloat64(yMin, pt.Y)
		yMax = maxFloat64(yMax, pt.Y)
	}
	stats.MinX = xMin
	stats.LateralExtent = yMax - yMin
	return stats
}

// RenderTopView draws the range points attached to each box into a top-down
// view of the space ahead of the sensor: one deterministic color per box id,
// an enclosing rectangle, id/count/distance labels and forward distance
// marker lines. Boxes with no attached points are skipped.
func RenderTopView(boxes []BoundingBox, opts TopViewOptions) image.Image {
	dc := gg.NewContext(opts.ImageWidth, opts.ImageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i := range boxes {
		drawBoxTopView(dc, &boxes[i], opts)
	}

	// Forward distance markers
	dc.SetRGB(0, 0, 1)
	nMarkers := int(opts.WorldHeight / opts.MarkerSpacing)
	for i := 0; i < nMarkers; i++ {
		y := worldToImageY(float64(i)*opts.MarkerSpacing, opts)
		dc.DrawLine(0, y, float64(opts.ImageWidth), y)
		dc.Stroke()
	}

	return dc.Image()
}

func drawBoxTopView(dc *gg.Context, box *BoundingBox, opts TopViewOptions) {
	if len(box.RangePoints) == 0 {
		return
	}

	// Color is seeded by the box id so the same object keeps its color
	// across renders
	rng := rand.New(rand.NewSource(int64(box.ID)))
	r := float64(rng.Intn(150)) / 255.0
	g := float64(rng.Intn(150)) / 255.0
	b := float64(rng.Intn(150)) / 255.0

	top := math.Inf(1)
	left := math.Inf(1)
	bottom := math.Inf(-1)
	right := math.Inf(-1)

	dc.SetRGB(r, g, b)
	for _, pt := range box.RangePoints {
		x := worldToImageX(pt.Y, opts)
		y := worldToImageY(pt.X, opts)

		top = minFloat64(top, y)
		left = minFloat64(left, x)
		bottom = maxFloat64(bottom, y)
		right = maxFloat64(right, x)

		dc.DrawCircle(x, y, 4)
		dc.Fill()
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawRectangle(left, top, right-left, bottom-top)
	dc.Stroke()

	stats := SummarizeBox(box)
	dc.SetRGB(r, g, b)
	dc.DrawString(fmt.Sprintf("id=%d, #pts=%d", stats.BoxID, stats.PointCount), left, bottom+25)
	dc.DrawString(fmt.Sprintf("xmin=%.2f m, yw=%.2f m", stats.MinX, stats.LateralExtent), left, bottom+50)
}

// worldToImageX maps a lateral world coordinate (meters, positive left) to
// an image column; the sensor sits at the horizontal center.
func worldToImageX(yw float64, opts TopViewOptions) float64 {
	return -yw*float64(opts.ImageWidth)/opts.WorldWidth + float64(opts.ImageWidth)/2.0
}

// worldToImageY maps a forward world coordinate (meters ahead) to an image
// row; the sensor sits at the bottom edge.
func worldToImageY(xw float64, opts TopViewOptions) float64 {
	return -xw*float64(opts.ImageHeight)/opts.WorldHeight + float64(opts.ImageHeight)
}
