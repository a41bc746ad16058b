package kdtree

import "github.com/hupe1980/knngo/num"

// nthPosition returns the value at ascending sorted position n of values,
// reordering the slice in place. Lomuto quickselect with the last element as
// pivot, partitioning into <= pivot / > pivot.
func nthPosition[D num.Coord](values []D, n int) D {
	lo, hi := 0, len(values)-1
	for lo < hi {
		p := partition(values, lo, hi)
		switch {
		case n < p:
			hi = p - 1
		case n > p:
			lo = p + 1
		default:
			return values[p]
		}
	}
	return values[lo]
}

func partition[D num.Coord](values []D, lo, hi int) int {
	pivot := values[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if values[j] <= pivot {
			values[i], values[j] = values[j], values[i]
			i++
		}
	}
	values[i], values[hi] = values[hi], values[i]
	return i
}
