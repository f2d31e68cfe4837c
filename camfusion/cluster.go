package camfusion

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultShrinkFactor is the default box shrink applied before
	// range-point containment tests.
	DefaultShrinkFactor = 0.10
	// DefaultOutlierMeanRatio is the default multiplier on the mean
	// descriptor distance used as the correspondence outlier cutoff.
	DefaultOutlierMeanRatio = 0.8
)

// ClusterRangePoints projects every range point into the image and attaches
// it to the single box whose shrunk region contains the projected pixel.
// A point whose pixel falls into zero or several shrunk regions is dropped,
// as is a point with a degenerate projection; drops are policy, not errors.
//
// Populated RangePoints slices are reset first, so repeated calls with the
// same inputs produce the same state.
func ClusterRangePoints(boxes []BoundingBox, points []RangePoint, shrinkFactor float64, calib *Calibration) {
	shrunk := make([]Rectangle, len(boxes))
	for i := range boxes {
		boxes[i].RangePoints = nil
		shrunk[i] = boxes[i].Region.Shrink(shrinkFactor)
	}
	for _, pt := range points {
		pixel, err := calib.Project(pt)
		if err != nil {
			continue
		}
		enclosing := -1
		ambiguous := false
		for i := range shrunk {
			if shrunk[i].Contains(pixel) {
				if enclosing >= 0 {
					ambiguous = true
					break
				}
				enclosing = i
			}
		}
		if enclosing >= 0 && !ambiguous {
			boxes[enclosing].RangePoints = append(boxes[enclosing].RangePoints, pt)
		}
	}
}

// ClusterCorrespondences selects the correspondences whose current-frame
// keypoint lies inside the box's unshrunk region, then removes distance
// outliers: only correspondences below meanRatio times the mean descriptor
// distance of the contained set survive. The result replaces any previous
// contents of box.MatchedCorrespondences. If nothing is contained the box is
// left empty.
func ClusterCorrespondences(box *BoundingBox, currKeypoints []Keypoint, matches []Correspondence, meanRatio float64) {
	box.MatchedCorrespondences = nil

	var contained []Correspondence
	var distances []float64
	for _, m := range matches {
		if box.Region.Contains(currKeypoints[m.CurrIdx].Pt) {
			contained = append(contained, m)
			distances = append(distances, m.Distance)
		}
	}
	if len(contained) == 0 {
		return
	}

	threshold := meanRatio * stat.Mean(distances, nil)
	for _, m := range contained {
		if m.Distance < threshold {
			box.MatchedCorrespondences = append(box.MatchedCorrespondences, m)
		}
	}
}
