package camfusion

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateProjection is returned by Calibration.Project when a range
// point maps to a homogeneous scale of (almost) zero and therefore has no
// defined image-plane position. Such points are skipped by the association
// step; they are not a fatal condition for the frame.
var ErrDegenerateProjection = errors.New("degenerate homogeneous projection")

// Calibration holds the fixed camera/sensor geometry: the 3x4 projective
// matrix, the rectifying rotation and the 4x4 rigid transform from sensor to
// camera coordinates. Immutable after construction.
type Calibration struct {
	projection    *mat.Dense // 3x4
	rectification *mat.Dense // 4x4
	extrinsic     *mat.Dense // 4x4

	// projection * rectification * extrinsic, 3x4, precomputed once
	combined *mat.Dense
}

// NewCalibration validates matrix shapes and precomputes the combined
// transform. The rectification matrix may be given either as 3x3 (it is
// embedded into the upper-left of a 4x4 identity) or directly as 4x4.
func NewCalibration(projection, rectification, extrinsic *mat.Dense) (*Calibration, error) {
	if r, c := projection.Dims(); r != 3 || c != 4 {
		return nil, errors.Errorf("projection matrix must be 3x4, got %dx%d", r, c)
	}
	rect := rectification
	if r, c := rectification.Dims(); r == 3 && c == 3 {
		rect = embedRectification(rectification)
	} else if r != 4 || c != 4 {
		return nil, errors.Errorf("rectification matrix must be 3x3 or 4x4, got %dx%d", r, c)
	}
	if r, c := extrinsic.Dims(); r != 4 || c != 4 {
		return nil, errors.Errorf("extrinsic matrix must be 4x4, got %dx%d", r, c)
	}
	combined := mat.NewDense(3, 4, nil)
	combined.Product(projection, rect, extrinsic)
	return &Calibration{
		projection:    projection,
		rectification: rect,
		extrinsic:     extrinsic,
		combined:      combined,
	}, nil
}

func embedRectification(r3 *mat.Dense) *mat.Dense {
	out := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, r3.At(i, j))
		}
	}
	out.Set(3, 3, 1)
	return out
}

// Project maps a sensor-frame range point to image pixel coordinates by
// applying extrinsic, rectification and projection to the homogeneous vector
// [x y z 1]. The divisor of the homogeneous divide is the third component of
// the projected vector; dividing by anything else silently corrupts every
// downstream pixel position.
func (c *Calibration) Project(pt RangePoint) (Point, error) {
	x := mat.NewVecDense(4, []float64{pt.X, pt.Y, pt.Z, 1})
	var y mat.VecDense
	y.MulVec(c.combined, x)
	w := y.AtVec(2)
	if math.Abs(w) < epsFloat64 {
		return Point{}, ErrDegenerateProjection
	}
	return Point{
		X: y.AtVec(0) / w,
		Y: y.AtVec(1) / w,
	}, nil
}
