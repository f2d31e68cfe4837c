package camfusion

import (
	"github.com/arthurkushman/go-hungarian"
	"gonum.org/v1/gonum/mat"
)

// MatchingAlgorithm selects how box-to-box matches are picked from the vote
// matrix.
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy picks, for every previous box, the current box
	// with the strictly highest vote count. This is the default.
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian solves the vote matrix as a global
	// assignment problem (Kuhn-Munkres), trading the per-box guarantee for a
	// one-to-one mapping.
	MatchingAlgorithmHungarian
)

// voteMatrix counts, for every keypoint correspondence, which (previous box,
// current box) pairs it implicates: row i / column j is incremented once for
// every pair (i, j) in the cross product of the boxes containing the
// previous and current keypoint. A correspondence contained by no box on
// either side contributes nothing; ambiguous containment spreads its vote
// over every combination rather than discarding it.
//
// Rows are sized from the previous frame's box count and columns from the
// current frame's own box count. Both counts must be positive.
func voteMatrix(prevFrame, currFrame *Frame, matches []Correspondence) *mat.Dense {
	votes := mat.NewDense(len(prevFrame.BoundingBoxes), len(currFrame.BoundingBoxes), nil)
	for _, m := range matches {
		prevPt := prevFrame.Keypoints[m.PrevIdx].Pt
		currPt := currFrame.Keypoints[m.CurrIdx].Pt

		var prevIDs, currIDs []int
		for i := range prevFrame.BoundingBoxes {
			if prevFrame.BoundingBoxes[i].Region.Contains(prevPt) {
				prevIDs = append(prevIDs, i)
			}
		}
		for j := range currFrame.BoundingBoxes {
			if currFrame.BoundingBoxes[j].Region.Contains(currPt) {
				currIDs = append(currIDs, j)
			}
		}

		for _, i := range prevIDs {
			for _, j := range currIDs {
				votes.Set(i, j, votes.At(i, j)+1)
			}
		}
	}
	return votes
}

// MatchBoundingBoxes matches bounding boxes between the previous and current
// frame by keypoint-correspondence voting. The result maps every
// previous-frame box index to a current-frame box index.
//
// Selection per previous box is a strict-greater scan in increasing column
// order, so ties resolve to the lowest current index. A previous box with no
// votes at all still maps to index 0; callers must treat such a match as
// unreliable.
func MatchBoundingBoxes(prevFrame, currFrame *Frame, matches []Correspondence) map[int]int {
	best, _ := matchGreedy(prevFrame, currFrame, matches)
	return best
}

func matchGreedy(prevFrame, currFrame *Frame, matches []Correspondence) (map[int]int, *mat.Dense) {
	best := make(map[int]int, len(prevFrame.BoundingBoxes))
	if len(prevFrame.BoundingBoxes) == 0 {
		return best, nil
	}
	if len(currFrame.BoundingBoxes) == 0 {
		// No evidence is possible; the zero-vote default still applies
		for i := range prevFrame.BoundingBoxes {
			best[i] = 0
		}
		return best, nil
	}

	votes := voteMatrix(prevFrame, currFrame, matches)
	for i := range prevFrame.BoundingBoxes {
		maxVotes := 0.0
		idMax := 0
		for j := range currFrame.BoundingBoxes {
			if v := votes.At(i, j); v > maxVotes {
				maxVotes = v
				idMax = j
			}
		}
		best[i] = idMax
	}
	return best, votes
}

// MatchBoundingBoxesHungarian matches boxes by solving the vote matrix as a
// global assignment problem, in contrast to the per-box greedy scan of
// MatchBoundingBoxes. Previous boxes whose optimal assignment carries zero
// votes are absent from the result instead of defaulting to index 0.
func MatchBoundingBoxesHungarian(prevFrame, currFrame *Frame, matches []Correspondence) map[int]int {
	best, _ := matchHungarian(prevFrame, currFrame, matches)
	return best
}

func matchHungarian(prevFrame, currFrame *Frame, matches []Correspondence) (map[int]int, *mat.Dense) {
	best := make(map[int]int)
	prevCnt := len(prevFrame.BoundingBoxes)
	currCnt := len(currFrame.BoundingBoxes)
	if prevCnt == 0 || currCnt == 0 {
		return best, nil
	}

	votes := voteMatrix(prevFrame, currFrame, matches)

	// Kuhn-Munkres needs a square matrix; pad with zero votes
	paddedSize := maxInt(prevCnt, currCnt)
	paddedMatrix := make([][]float64, paddedSize)
	for i := 0; i < paddedSize; i++ {
		paddedMatrix[i] = make([]float64, paddedSize)
	}
	for i := 0; i < prevCnt; i++ {
		for j := 0; j < currCnt; j++ {
			paddedMatrix[i][j] = votes.At(i, j)
		}
	}

	assignments := hungarian.SolveMax(paddedMatrix)
	for prevIdx, rowMap := range assignments {
		if prevIdx >= prevCnt {
			continue
		}
		for currIdx := range rowMap {
			if currIdx >= currCnt {
				continue
			}
			if votes.At(prevIdx, currIdx) > 0 {
				best[prevIdx] = currIdx
			}
			break
		}
	}
	return best, votes
}
