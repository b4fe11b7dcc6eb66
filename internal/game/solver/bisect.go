package solver

import "math"

const (
	bisectTolerance   = 1e-9
	bisectMaxIter     = 200
	bisectMaxExpand   = 64
	bracketLowEpsilon = 1e-9
)

// Bisect finds x in [lo, hi] with f(x) ≈ target for a monotone f.
// When target is not bracketed, hi is pushed outwards (doubling the span) up to
// bisectMaxExpand times. Returns false when no bracket could be found.
func Bisect(f func(float64) float64, target, lo, hi float64) (float64, bool) {
	flo := f(lo) - target
	fhi := f(hi) - target
	for i := 0; flo*fhi > 0 && i < bisectMaxExpand; i++ {
		hi = lo + (hi-lo)*2
		fhi = f(hi) - target
	}
	switch {
	case flo == 0:
		return lo, true
	case fhi == 0:
		return hi, true
	case flo*fhi > 0 || math.IsNaN(flo) || math.IsNaN(fhi):
		return 0, false
	}

	for range bisectMaxIter {
		mid := lo + (hi-lo)/2
		fm := f(mid) - target
		if math.Abs(fm) < bisectTolerance || hi-lo < bisectTolerance*math.Max(1, math.Abs(mid)) {
			return mid, true
		}
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2, true
}
