package engine

// Rate and volume arrive on the host's integer scales and are converted to
// the engine's normalized scales before they reach a synthesis session.

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RateScale converts a host rate (-10..10, 0 = unity) to the engine's
// normalized speaking rate. Negative values compress toward a floor of 0.5,
// positive values expand toward a ceiling of 6.0.
func RateScale(rate int) float64 {
	switch {
	case rate < 0:
		return 1.0 - clamp(float64(-rate)/20.0, 0.0, 0.5)
	case rate == 0:
		return 1.0
	default:
		return 1.0 + clamp(float64(rate)/2.0, 0.0, 5.0)
	}
}

// VolumeScale converts a host volume (0..100) to the engine's normalized
// 0.0..1.0 scale, clamped.
func VolumeScale(volume int) float64 {
	return clamp(float64(volume)/100.0, 0.0, 1.0)
}
