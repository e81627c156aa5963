// Package transform implements the per-sample stages of the codec:
// lossy scalar quantization and the reversible modular delta transform.
package transform

// Quantize divides each sample by factor, discarding the remainder.
// A factor of one or less is the identity. The result always fits in
// eight bits because factor is never negative at the call sites.
func Quantize(samples []uint8, factor int) []uint8 {
	out := make([]uint8, len(samples))
	if factor <= 1 {
		copy(out, samples)
		return out
	}
	for i, s := range samples {
		out[i] = uint8(int(s) / factor)
	}
	return out
}

// Dequantize multiplies each sample by factor, clamping to the 8-bit
// range. The remainder discarded by Quantize is unrecoverable, so the
// result approximates the original within factor-1 per sample.
func Dequantize(samples []uint8, factor int) []uint8 {
	out := make([]uint8, len(samples))
	if factor <= 1 {
		copy(out, samples)
		return out
	}
	for i, s := range samples {
		v := int(s) * factor
		if v > 255 {
			v = 255
		}
		out[i] = uint8(v)
	}
	return out
}

// DeltaForward replaces each sample with its difference from the previous
// sample modulo 256. The baseline is zero, so the first delta is the first
// sample's absolute value; the decoder has no other way to recover it.
func DeltaForward(samples []uint8) []uint8 {
	out := make([]uint8, len(samples))
	var prev uint8
	for i, s := range samples {
		out[i] = s - prev // uint8 subtraction wraps mod 256
		prev = s
	}
	return out
}

// DeltaInverse restores the original samples with a running modular sum
// seeded from the same zero baseline. Modular addition exactly inverts
// modular subtraction, so wraparound in the forward pass is harmless.
func DeltaInverse(deltas []uint8) []uint8 {
	out := make([]uint8, len(deltas))
	var acc uint8
	for i, d := range deltas {
		acc += d
		out[i] = acc
	}
	return out
}
