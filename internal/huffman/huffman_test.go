package huffman

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mrjoshuak/go-pixhuff/internal/bitpack"
)

func TestCountFrequencies(t *testing.T) {
	in := []uint8{5, 5, 5, 0, 255, 0}
	freqs := CountFrequencies(in)

	want := FreqTable{0: 2, 5: 3, 255: 1}
	if len(freqs) != len(want) {
		t.Fatalf("table has %d keys, want %d", len(freqs), len(want))
	}
	for s, c := range want {
		if freqs[s] != c {
			t.Errorf("freqs[%d] = %d, want %d", s, freqs[s], c)
		}
	}
	if freqs.Total() != uint64(len(in)) {
		t.Errorf("Total() = %d, want %d", freqs.Total(), len(in))
	}
}

func TestFreqTable_SymbolsSorted(t *testing.T) {
	freqs := FreqTable{200: 1, 3: 1, 100: 1, 0: 1}
	got := freqs.Symbols()
	want := []uint8{0, 3, 100, 200}
	if !bytes.Equal(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []uint8
	}{
		{"single symbol", []uint8{7}},
		{"uniform", bytes.Repeat([]uint8{128}, 16)},
		{"two symbols", []uint8{0, 1, 0, 0, 1, 1, 1, 0}},
		{"skewed", append(bytes.Repeat([]uint8{9}, 100), 1, 2, 3)},
		{"full alphabet", func() []uint8 {
			s := make([]uint8, 256)
			for i := range s {
				s[i] = uint8(i)
			}
			return s
		}()},
		{"equal frequency ties", []uint8{0, 1, 2, 3, 0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, freqs, err := Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}

			got, err := Decode(packed, freqs)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if !bytes.Equal(got, tt.in) {
				t.Errorf("round trip = %v, want %v", got, tt.in)
			}
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	if _, _, err := Encode(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Encode(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestDecode_EmptyTable(t *testing.T) {
	if _, err := Decode([]byte{0}, FreqTable{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Decode() error = %v, want ErrEmptyInput", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	if _, err := Decode(nil, FreqTable{1: 1}); !errors.Is(err, bitpack.ErrTruncated) {
		t.Errorf("Decode(nil) error = %v, want bitpack.ErrTruncated", err)
	}
}

func TestDecode_CorruptStream(t *testing.T) {
	// With frequencies {a:1, b:1, c:2} the two singletons merge first, so c
	// takes the 1-bit code 0 and a, b sit behind the prefix 1. A stream
	// holding the lone bit 1 therefore ends mid-codeword.
	freqs := FreqTable{10: 1, 20: 1, 30: 2}

	p := bitpack.NewPacker(1)
	p.WriteBit(1)
	if _, err := Decode(p.Finish(), freqs); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Decode() error = %v, want ErrCorrupt", err)
	}
}

func TestDegenerateAlphabet(t *testing.T) {
	in := bytes.Repeat([]uint8{42}, 9)
	packed, freqs, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	// One leaf still gets a 1-bit code: nine zero bits plus the pad header.
	if len(packed) != 1+2 {
		t.Errorf("packed length = %d, want 3", len(packed))
	}

	got, err := Decode(packed, freqs)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestBuildTree_Deterministic(t *testing.T) {
	freqs := FreqTable{0: 3, 1: 3, 2: 3, 3: 3, 4: 1}

	first := deriveCodes(mustTree(t, freqs))
	for i := 0; i < 10; i++ {
		again := deriveCodes(mustTree(t, freqs))
		if *again != *first {
			t.Fatalf("tree build is not deterministic: run %d differs", i)
		}
	}
}

func TestDeriveCodes_PrefixFree(t *testing.T) {
	freqs := CountFrequencies([]uint8{1, 1, 1, 1, 2, 2, 3, 4, 4, 4, 4, 4, 5})
	codes := deriveCodes(mustTree(t, freqs))

	for a := range freqs {
		for b := range freqs {
			if a == b {
				continue
			}
			ca, cb := codes[a], codes[b]
			if ca.Len > cb.Len {
				continue
			}
			if cb.Bits>>(cb.Len-ca.Len) == ca.Bits {
				t.Errorf("code of %d (%0*b) is a prefix of code of %d (%0*b)",
					a, int(ca.Len), ca.Bits, b, int(cb.Len), cb.Bits)
			}
		}
	}
}

func mustTree(t *testing.T, freqs FreqTable) *node {
	t.Helper()
	root, err := buildTree(freqs)
	if err != nil {
		t.Fatalf("buildTree() error: %v", err)
	}
	return root
}
