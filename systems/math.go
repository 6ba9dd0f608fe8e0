package systems

import "math"

// clampInt clamps an int between min and max.
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Interpolate returns min + (max-min)*f.
func Interpolate(minVal, maxVal, f float32) float32 {
	return minVal + (maxVal-minVal)*f
}

// Falloff is the quadratic impulse falloff: 1 at the centre, 0 at the radius.
func Falloff(d, radius float32) float32 {
	f := clamp01(1 - d/radius)
	return f * f
}

// wrapAxis folds v into [0, extent). A single add or subtract handles normal
// motion; anything still outside (huge steps, rounding at the edge) is folded
// with a modulo.
func wrapAxis(v, extent float32) float32 {
	if v < 0 {
		v += extent
	} else if v >= extent {
		v -= extent
	}
	if v >= 0 && v < extent {
		return v
	}
	v = float32(math.Mod(float64(v), float64(extent)))
	if v < 0 {
		v += extent
	}
	if v >= extent || v < 0 {
		v = 0
	}
	return v
}

// reflectAxis mirrors an overshoot back inside [0, extent) and reports
// whether the velocity component along this axis must flip.
func reflectAxis(v, extent float32) (float32, bool) {
	flipped := false
	if v < 0 {
		v = -v
		flipped = true
	} else if v >= extent {
		v = 2*extent - v
		flipped = true
	}
	if v < 0 || v >= extent {
		// Overshoot larger than the extent itself: fold instead of bouncing twice.
		v = wrapAxis(v, extent)
	}
	if v >= extent {
		v = math.Nextafter32(extent, 0)
	}
	return v, flipped
}
