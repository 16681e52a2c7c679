package core

import "math"

// MachineEpsilon is half the distance between 1.0 and the next representable float64,
// the unit roundoff used by the error bounds below.
const MachineEpsilon = 0x1p-53

// Gamma returns the conservative bound on the relative error accumulated by n
// floating point operations: n*eps / (1 - n*eps).
func Gamma(n int) float64 {
	return float64(n) * MachineEpsilon / (1 - float64(n)*MachineEpsilon)
}

// NextFloatUp returns the smallest float64 greater than v
func NextFloatUp(v float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	if v == 0 {
		v = 0 // treat -0 as +0
	}
	return math.Nextafter(v, math.Inf(1))
}

// NextFloatDown returns the largest float64 less than v
func NextFloatDown(v float64) float64 {
	if math.IsInf(v, -1) {
		return v
	}
	if v == 0 {
		v = 0
	}
	return math.Nextafter(v, math.Inf(-1))
}
