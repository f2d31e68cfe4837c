package camfusion

// Median returns the statistical median of xs using in-place selection
// instead of a full sort. The slice is consumed: its elements are reordered.
// For an even count the two middle order statistics are averaged.
//
// An empty slice yields 0.0 by convention. That sentinel is not a meaningful
// median; callers that need to distinguish "no data" must check the length
// before calling.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0.0
	}
	mid := n / 2
	upper := quickselect(xs, mid)
	if n%2 == 0 {
		// quickselect leaves everything before mid no greater than xs[mid],
		// so the lower middle order statistic is the maximum of that prefix
		lower := xs[0]
		for _, v := range xs[1:mid] {
			if v > lower {
				lower = v
			}
		}
		return (upper + lower) / 2.0
	}
	return upper
}

// quickselect places the k-th smallest element of xs at index k and returns
// it, partitioning the slice around it. Hoare partitioning, average linear
// time.
func quickselect(xs []float64, k int) float64 {
	lo, hi := 0, len(xs)-1
	for lo < hi {
		pivot := xs[(lo+hi)/2]
		i, j := lo, hi
		for i <= j {
			for xs[i] < pivot {
				i++
			}
			for xs[j] > pivot {
				j--
			}
			if i <= j {
				xs[i], xs[j] = xs[j], xs[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return xs[k]
		}
	}
	return xs[k]
}
