package camfusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterRangePointsSingleBox(t *testing.T) {
	calib := testCalibration(t)
	boxes := []BoundingBox{
		NewBoundingBox(0, NewRect(550, 250, 100, 100)),
	}
	points := []RangePoint{
		{X: 10, Y: 1, Z: 0.5},  // projects to (550, 275), inside
		{X: 10, Y: 4, Z: 0.5},  // projects to (400, 275), outside
		{X: 0, Y: 1, Z: 1},     // degenerate projection, skipped
		{X: 10, Y: 0, Z: -0.5}, // projects to (600, 325), inside
	}

	ClusterRangePoints(boxes, points, 0, calib)
	require.Len(t, boxes[0].RangePoints, 2)
	assert.Equal(t, points[0], boxes[0].RangePoints[0])
	assert.Equal(t, points[3], boxes[0].RangePoints[1])
}

func TestClusterRangePointsAmbiguousDrop(t *testing.T) {
	calib := testCalibration(t)
	// Both regions contain the projected pixel (550, 275)
	boxes := []BoundingBox{
		NewBoundingBox(0, NewRect(500, 200, 200, 200)),
		NewBoundingBox(1, NewRect(540, 260, 50, 50)),
	}
	points := []RangePoint{{X: 10, Y: 1, Z: 0.5}}

	ClusterRangePoints(boxes, points, 0, calib)
	assert.Empty(t, boxes[0].RangePoints)
	assert.Empty(t, boxes[1].RangePoints)
}

func TestClusterRangePointsShrink(t *testing.T) {
	calib := testCalibration(t)
	// (550, 275) sits on the left edge of the unshrunk region
	point := RangePoint{X: 10, Y: 1, Z: 0.5}
	boxes := []BoundingBox{
		NewBoundingBox(0, NewRect(550, 250, 100, 100)),
	}

	ClusterRangePoints(boxes, []RangePoint{point}, 0, calib)
	assert.Len(t, boxes[0].RangePoints, 1, "shrink factor 0 must keep the full region")

	ClusterRangePoints(boxes, []RangePoint{point}, 0.2, calib)
	assert.Empty(t, boxes[0].RangePoints, "edge point must fall outside the shrunk region")
}

func TestClusterRangePointsRepopulates(t *testing.T) {
	calib := testCalibration(t)
	boxes := []BoundingBox{
		NewBoundingBox(0, NewRect(550, 250, 100, 100)),
	}
	points := []RangePoint{{X: 10, Y: 1, Z: 0.5}}

	ClusterRangePoints(boxes, points, 0, calib)
	ClusterRangePoints(boxes, points, 0, calib)
	assert.Len(t, boxes[0].RangePoints, 1, "reruns must reset, not accumulate")
}

func TestClusterCorrespondencesUniformDistancesRejected(t *testing.T) {
	box := NewBoundingBox(0, NewRect(0, 0, 100, 100))
	keypoints := []Keypoint{
		{Pt: Point{X: 10, Y: 10}},
		{Pt: Point{X: 20, Y: 20}},
		{Pt: Point{X: 30, Y: 30}},
	}
	matches := []Correspondence{
		{PrevIdx: 0, CurrIdx: 0, Distance: 2.5},
		{PrevIdx: 1, CurrIdx: 1, Distance: 2.5},
		{PrevIdx: 2, CurrIdx: 2, Distance: 2.5},
	}

	// threshold = 0.8 * mean = 2.0 < 2.5 for every correspondence
	ClusterCorrespondences(&box, keypoints, matches, DefaultOutlierMeanRatio)
	assert.Empty(t, box.MatchedCorrespondences)
}

func TestClusterCorrespondencesOutlierCut(t *testing.T) {
	box := NewBoundingBox(0, NewRect(0, 0, 100, 100))
	keypoints := []Keypoint{
		{Pt: Point{X: 10, Y: 10}},
		{Pt: Point{X: 20, Y: 20}},
		{Pt: Point{X: 30, Y: 30}},
		{Pt: Point{X: 40, Y: 40}},
	}
	matches := []Correspondence{
		{PrevIdx: 0, CurrIdx: 0, Distance: 1.0},
		{PrevIdx: 1, CurrIdx: 1, Distance: 1.0},
		{PrevIdx: 2, CurrIdx: 2, Distance: 1.0},
		{PrevIdx: 3, CurrIdx: 3, Distance: 9.0},
	}

	// mean = 3.0, threshold = 2.4: the mismatch-like score is cut
	ClusterCorrespondences(&box, keypoints, matches, DefaultOutlierMeanRatio)
	require.Len(t, box.MatchedCorrespondences, 3)
	for _, m := range box.MatchedCorrespondences {
		assert.InDelta(t, 1.0, m.Distance, eps)
	}
}

func TestClusterCorrespondencesContainmentFilter(t *testing.T) {
	box := NewBoundingBox(0, NewRect(0, 0, 100, 100))
	keypoints := []Keypoint{
		{Pt: Point{X: 10, Y: 10}},
		{Pt: Point{X: 500, Y: 500}}, // outside the region
		{Pt: Point{X: 20, Y: 20}},
	}
	matches := []Correspondence{
		{PrevIdx: 0, CurrIdx: 0, Distance: 1.0},
		{PrevIdx: 1, CurrIdx: 1, Distance: 1.0},
		{PrevIdx: 2, CurrIdx: 2, Distance: 5.0},
	}

	// Mean over the two contained scores is 3.0, threshold 2.4: only the
	// first survives. The out-of-region score must not affect the mean.
	ClusterCorrespondences(&box, keypoints, matches, DefaultOutlierMeanRatio)
	require.Len(t, box.MatchedCorrespondences, 1)
	assert.Equal(t, 0, box.MatchedCorrespondences[0].CurrIdx)
}

func TestClusterCorrespondencesEmpty(t *testing.T) {
	box := NewBoundingBox(0, NewRect(0, 0, 100, 100))
	box.MatchedCorrespondences = []Correspondence{{PrevIdx: 0, CurrIdx: 0, Distance: 1.0}}
	keypoints := []Keypoint{{Pt: Point{X: 500, Y: 500}}}
	matches := []Correspondence{{PrevIdx: 0, CurrIdx: 0, Distance: 1.0}}

	ClusterCorrespondences(&box, keypoints, matches, DefaultOutlierMeanRatio)
	assert.Empty(t, box.MatchedCorrespondences, "stale contents must be replaced, not kept")
}
