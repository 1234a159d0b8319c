package scene

// easeValue applies the named easing curve to t in [0,1]. Unknown names fall
// back to linear.
func easeValue(name string, t float64) float64 {
	switch name {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		u := -2*t + 2
		return 1 - u*u/2
	default:
		return t
	}
}
