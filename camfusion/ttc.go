package camfusion

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultLaneHalfWidth bounds the ego lane used by the range estimator,
	// in meters to each side of the sensor.
	DefaultLaneHalfWidth = 2.0
	// DefaultMinPairDistance is the minimum current-frame pixel distance a
	// keypoint pair must span before its ratio counts as scale-change
	// evidence.
	DefaultMinPairDistance = 100.0
)

// ComputeTTCRange estimates time-to-collision in seconds from the change in
// mean longitudinal distance of in-lane range points between two frames,
// assuming constant relative velocity over the interval.
//
// The result is NaN when either frame has no in-lane points and +Inf when
// the means are equal (no closing motion measured).
func ComputeTTCRange(prevPoints, currPoints []RangePoint, frameRate, laneHalfWidth float64) float64 {
	prevX := inLaneX(prevPoints, laneHalfWidth)
	currX := inLaneX(currPoints, laneHalfWidth)
	if len(prevX) == 0 || len(currX) == 0 {
		return math.NaN()
	}

	avgXPrev := floats.Sum(prevX) / float64(len(prevX))
	avgXCurr := floats.Sum(currX) / float64(len(currX))
	if avgXPrev == avgXCurr {
		return math.Inf(1)
	}

	dT := 1.0 / frameRate
	return avgXCurr * dT / (avgXPrev - avgXCurr)
}

func inLaneX(points []RangePoint, laneHalfWidth float64) []float64 {
	xs := make([]float64, 0, len(points))
	for _, pt := range points {
		if math.Abs(pt.Y) <= laneHalfWidth {
			xs = append(xs, pt.X)
		}
	}
	return xs
}

// ComputeTTCCamera estimates time-to-collision in seconds from the median
// ratio of pairwise keypoint distances between the previous and current
// frame. Every unordered pair of distinct correspondences contributes one
// ratio, provided its previous-frame distance exceeds machine epsilon and
// its current-frame distance reaches minPairDistance; pairs of nearly
// coincident keypoints carry no scale signal.
//
// The result is NaN when no correspondences or no ratios exist, and +Inf
// when the median ratio is exactly 1 (no scale change, so no closing motion
// under the pinhole model).
func ComputeTTCCamera(prevKeypoints, currKeypoints []Keypoint, matches []Correspondence, frameRate, minPairDistance float64) float64 {
	if len(matches) == 0 {
		return math.NaN()
	}

	var distRatios []float64
	for i := 0; i < len(matches)-1; i++ {
		outerCurr := currKeypoints[matches[i].CurrIdx].Pt
		outerPrev := prevKeypoints[matches[i].PrevIdx].Pt
		for j := i + 1; j < len(matches); j++ {
			innerCurr := currKeypoints[matches[j].CurrIdx].Pt
			innerPrev := prevKeypoints[matches[j].PrevIdx].Pt

			distCurr := euclideanDistance(outerCurr, innerCurr)
			distPrev := euclideanDistance(outerPrev, innerPrev)
			if distPrev > epsFloat64 && distCurr >= minPairDistance {
				distRatios = append(distRatios, distCurr/distPrev)
			}
		}
	}
	if len(distRatios) == 0 {
		return math.NaN()
	}

	medianDistRatio := Median(distRatios)
	if medianDistRatio == 1 {
		return math.Inf(1)
	}

	dT := 1.0 / frameRate
	return -dT / (1 - medianDistRatio)
}
