package camfusion

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// TTCResult is one matched box pair with both collision-time estimates.
type TTCResult struct {
	PrevBoxID int
	CurrBoxID int
	// Votes is the correspondence evidence behind the match. Zero means the
	// pairing is the default fallback and should be treated as unreliable.
	Votes int
	// TTCRange and TTCCamera are seconds to collision. NaN marks a missing
	// estimate (no usable data), +Inf marks "not currently closing".
	TTCRange  float64
	TTCCamera float64
}

// Processor runs the full fusion pipeline on one frame pair at a time: box
// matching, range-point and correspondence association, then both TTC
// estimators per matched pair. It keeps no state between frame pairs, so a
// single Processor may be shared as long as no two goroutines process the
// same frames concurrently.
type Processor struct {
	calib            *Calibration
	frameRate        float64
	shrinkFactor     float64
	laneHalfWidth    float64
	minPairDistance  float64
	outlierMeanRatio float64
	algorithm        MatchingAlgorithm
	sink             VisualizationSink
	log              *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithShrinkFactor sets the box shrink applied before range-point
// containment tests. Must be in [0, 1).
func WithShrinkFactor(factor float64) Option {
	return func(p *Processor) { p.shrinkFactor = factor }
}

// WithLaneHalfWidth sets the ego-lane half-width in meters for the range
// estimator.
func WithLaneHalfWidth(halfWidth float64) Option {
	return func(p *Processor) { p.laneHalfWidth = halfWidth }
}

// WithMinPairDistance sets the minimum current-frame pixel distance for a
// keypoint pair to contribute a distance ratio.
func WithMinPairDistance(dist float64) Option {
	return func(p *Processor) { p.minPairDistance = dist }
}

// WithOutlierMeanRatio sets the multiplier on the mean descriptor distance
// used as the correspondence outlier cutoff.
func WithOutlierMeanRatio(ratio float64) Option {
	return func(p *Processor) { p.outlierMeanRatio = ratio }
}

// WithMatchingAlgorithm selects greedy or Hungarian box matching.
func WithMatchingAlgorithm(algorithm MatchingAlgorithm) Option {
	return func(p *Processor) { p.algorithm = algorithm }
}

// WithVisualizationSink attaches a sink that receives a top-down render of
// the current frame after every processed pair.
func WithVisualizationSink(sink VisualizationSink) Option {
	return func(p *Processor) { p.sink = sink }
}

// WithLogger replaces the default nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// NewProcessor creates a Processor for the given calibration and camera
// frame rate (Hz).
func NewProcessor(calib *Calibration, frameRate float64, opts ...Option) (*Processor, error) {
	if calib == nil {
		return nil, errors.New("calibration is required")
	}
	if frameRate <= 0 {
		return nil, errors.Errorf("frame rate must be positive, got %f", frameRate)
	}
	p := &Processor{
		calib:            calib,
		frameRate:        frameRate,
		shrinkFactor:     DefaultShrinkFactor,
		laneHalfWidth:    DefaultLaneHalfWidth,
		minPairDistance:  DefaultMinPairDistance,
		outlierMeanRatio: DefaultOutlierMeanRatio,
		algorithm:        MatchingAlgorithmGreedy,
		log:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.shrinkFactor < 0 || p.shrinkFactor >= 1 {
		return nil, errors.Errorf("shrink factor must be in [0,1), got %f", p.shrinkFactor)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p, nil
}

// ProcessFramePair runs the pipeline over a consecutive frame pair and
// returns one result per matched box pair, ordered by previous box index.
// Frame box annotations (RangePoints, MatchedCorrespondences) are populated
// as a side effect.
func (p *Processor) ProcessFramePair(prevFrame, currFrame *Frame, prevPoints, currPoints []RangePoint, matches []Correspondence) ([]TTCResult, error) {
	if prevFrame == nil || currFrame == nil {
		return nil, errors.New("both frames are required")
	}

	ClusterRangePoints(prevFrame.BoundingBoxes, prevPoints, p.shrinkFactor, p.calib)
	ClusterRangePoints(currFrame.BoundingBoxes, currPoints, p.shrinkFactor, p.calib)

	if len(currFrame.BoundingBoxes) == 0 {
		p.log.Debug("no current-frame boxes, nothing to estimate",
			zap.Stringer("prev_frame", prevFrame.ID),
			zap.Stringer("curr_frame", currFrame.ID))
		return nil, nil
	}

	var best map[int]int
	var votes *mat.Dense
	switch p.algorithm {
	case MatchingAlgorithmHungarian:
		best, votes = matchHungarian(prevFrame, currFrame, matches)
	default:
		best, votes = matchGreedy(prevFrame, currFrame, matches)
	}

	results := make([]TTCResult, 0, len(best))
	for i := range prevFrame.BoundingBoxes {
		j, ok := best[i]
		if !ok {
			continue
		}
		voteCount := 0
		if votes != nil {
			voteCount = int(votes.At(i, j))
		}

		prevBox := &prevFrame.BoundingBoxes[i]
		currBox := &currFrame.BoundingBoxes[j]
		ClusterCorrespondences(currBox, currFrame.Keypoints, matches, p.outlierMeanRatio)

		ttcRange := ComputeTTCRange(prevBox.RangePoints, currBox.RangePoints, p.frameRate, p.laneHalfWidth)
		ttcCamera := ComputeTTCCamera(prevFrame.Keypoints, currFrame.Keypoints, currBox.MatchedCorrespondences, p.frameRate, p.minPairDistance)

		p.log.Debug("estimated matched box pair",
			zap.Stringer("prev_frame", prevFrame.ID),
			zap.Stringer("curr_frame", currFrame.ID),
			zap.Int("prev_box", prevBox.ID),
			zap.Int("curr_box", currBox.ID),
			zap.Int("votes", voteCount),
			zap.Int("range_points_prev", len(prevBox.RangePoints)),
			zap.Int("range_points_curr", len(currBox.RangePoints)),
			zap.Int("correspondences", len(currBox.MatchedCorrespondences)),
			zap.Float64("ttc_range", ttcRange),
			zap.Float64("ttc_camera", ttcCamera))

		results = append(results, TTCResult{
			PrevBoxID: prevBox.ID,
			CurrBoxID: currBox.ID,
			Votes:     voteCount,
			TTCRange:  ttcRange,
			TTCCamera: ttcCamera,
		})
	}

	if p.sink != nil {
		p.sink.Accept(RenderTopView(currFrame.BoundingBoxes, DefaultTopViewOptions()))
	}
	return results, nil
}
