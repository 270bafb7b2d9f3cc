package fx

// Easing maps linear progress in [0,1] to eased progress in [0,1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseOut decelerates: 1-(1-t)². Used for projectiles and extending lines.
func EaseOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u
}

// EaseIn accelerates: t². Used for fades.
func EaseIn(t float64) float64 { return t * t }

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
