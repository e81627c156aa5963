package pixhuff

import (
	"math"
	"testing"
)

func TestPSNR_Identical(t *testing.T) {
	s := []uint8{0, 50, 100, 200, 255}
	got, err := PSNR(s, s)
	if err != nil {
		t.Fatalf("PSNR() error: %v", err)
	}
	if got != PSNRSentinel {
		t.Errorf("PSNR(s, s) = %f, want the %f sentinel", got, PSNRSentinel)
	}
}

func TestPSNR_LengthMismatch(t *testing.T) {
	if _, err := PSNR([]uint8{1, 2}, []uint8{1}); err == nil {
		t.Error("PSNR() accepted sequences of different lengths")
	}
}

func TestPSNR_KnownValue(t *testing.T) {
	// Every sample off by exactly 5: MSE = 25, PSNR = 20*log10(255/5).
	orig := make([]uint8, 64)
	rest := make([]uint8, 64)
	for i := range orig {
		orig[i] = 100
		rest[i] = 105
	}

	got, err := PSNR(orig, rest)
	if err != nil {
		t.Fatalf("PSNR() error: %v", err)
	}
	want := 20 * math.Log10(255.0/5.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PSNR = %f, want %f", got, want)
	}
}

func TestPSNR_MonotonicInError(t *testing.T) {
	orig := make([]uint8, 128)
	for i := range orig {
		orig[i] = 100
	}

	prev := math.Inf(1)
	for _, off := range []uint8{1, 2, 5, 10, 40} {
		rest := make([]uint8, len(orig))
		for i := range rest {
			rest[i] = orig[i] + off
		}
		got, err := PSNR(orig, rest)
		if err != nil {
			t.Fatalf("offset %d: PSNR() error: %v", off, err)
		}
		if got >= prev {
			t.Errorf("PSNR at offset %d = %f, want less than %f", off, got, prev)
		}
		prev = got
	}
}
