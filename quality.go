package pixhuff

import (
	"errors"
	"math"
)

// PSNRSentinel is returned by PSNR when the two sequences are identical,
// standing in for the infinite value a zero mean squared error implies.
const PSNRSentinel = 100.0

// PSNR computes the peak signal-to-noise ratio in decibels between an
// original sample sequence and its reconstruction. The sequences must have
// the same length.
func PSNR(original, restored []uint8) (float64, error) {
	if len(original) != len(restored) {
		return 0, errors.New("pixhuff: sequence lengths differ")
	}
	if len(original) == 0 {
		return PSNRSentinel, nil
	}

	var sum float64
	for i := range original {
		d := float64(original[i]) - float64(restored[i])
		sum += d * d
	}
	mse := sum / float64(len(original))
	if mse == 0 {
		return PSNRSentinel, nil
	}
	return 20 * math.Log10(255/math.Sqrt(mse)), nil
}
