package camfusion

import "github.com/google/uuid"

// RangePoint is a single return from the ranging sensor in sensor-centered
// coordinates: X forward, Y left, Z up, all in meters.
type RangePoint struct {
	X         float64
	Y         float64
	Z         float64
	Intensity float64
}

// Keypoint is a detected 2D image feature, referenced by its index in the
// owning frame's keypoint slice.
type Keypoint struct {
	Pt Point
}

// Correspondence links a keypoint in the previous frame to one in the
// current frame by index. Distance is the descriptor dissimilarity score of
// the match (lower = more similar).
type Correspondence struct {
	PrevIdx  int
	CurrIdx  int
	Distance float64
}

// BoundingBox is a detected object region in one frame. ID is unique within
// the frame but not stable across frames; cross-frame identity comes from
// MatchBoundingBoxes. RangePoints and MatchedCorrespondences start empty and
// are populated by ClusterRangePoints and ClusterCorrespondences.
type BoundingBox struct {
	ID     int
	Region Rectangle

	RangePoints            []RangePoint
	MatchedCorrespondences []Correspondence
}

// NewBoundingBox creates an unpopulated box for the given region.
func NewBoundingBox(id int, region Rectangle) BoundingBox {
	return BoundingBox{
		ID:     id,
		Region: region,
	}
}

// Frame bundles the detections of a single capture: keypoints and bounding
// boxes. The frame identifier is used for log correlation only.
type Frame struct {
	ID            uuid.UUID
	Keypoints     []Keypoint
	BoundingBoxes []BoundingBox
}

// NewFrame creates a frame with a fresh identifier.
func NewFrame(keypoints []Keypoint, boxes []BoundingBox) *Frame {
	return &Frame{
		ID:            uuid.New(),
		Keypoints:     keypoints,
		BoundingBoxes: boxes,
	}
}
