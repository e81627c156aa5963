// Package container defines the on-disk layout of a compressed image.
//
// The layout is a frozen contract, all fields big-endian:
//
//	Height       uint32
//	Width        uint32
//	Channels     uint8   (1 = grayscale, 3 = planar RGB)
//	QuantFactor  uint32  (1 = lossless)
//	FreqTableLen uint32
//	FreqTable    FreqTableLen bytes
//	BitStream    remainder
//
// The frequency table is a run of 5-byte records, symbol followed by its
// uint32 count, sorted by ascending symbol. The bitstream is bitpack
// output: a 1-byte pad-length header plus the packed bits.
package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mrjoshuak/go-pixhuff/internal/huffman"
)

// HeaderSize is the fixed byte length of the container header ahead of
// the frequency table.
const HeaderSize = 17

// FreqRecordSize is the byte length of one frequency table record.
const FreqRecordSize = 5

// Header holds the image shape metadata stored ahead of the payload.
type Header struct {
	Height      uint32
	Width       uint32
	Channels    uint8
	QuantFactor uint32
}

// Validate checks the header for consistency.
func (h *Header) Validate() error {
	if h.Height == 0 || h.Width == 0 {
		return fmt.Errorf("invalid image dimensions: %dx%d", h.Width, h.Height)
	}
	if h.Channels != 1 && h.Channels != 3 {
		return fmt.Errorf("invalid channel count: %d", h.Channels)
	}
	if h.QuantFactor == 0 {
		return fmt.Errorf("invalid quantization factor: 0")
	}
	return nil
}

// SampleCount returns the number of samples the payload must decode to.
func (h *Header) SampleCount() uint64 {
	return uint64(h.Height) * uint64(h.Width) * uint64(h.Channels)
}

// Write serializes the header, frequency table, and packed bitstream to w.
func Write(w io.Writer, h Header, freqs huffman.FreqTable, bitstream []byte) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("container: %w", err)
	}

	buf := make([]byte, HeaderSize+FreqRecordSize*len(freqs))
	binary.BigEndian.PutUint32(buf[0:4], h.Height)
	binary.BigEndian.PutUint32(buf[4:8], h.Width)
	buf[8] = h.Channels
	binary.BigEndian.PutUint32(buf[9:13], h.QuantFactor)
	binary.BigEndian.PutUint32(buf[13:17], uint32(FreqRecordSize*len(freqs)))

	off := HeaderSize
	for _, s := range freqs.Symbols() {
		buf[off] = s
		binary.BigEndian.PutUint32(buf[off+1:off+5], freqs[s])
		off += FreqRecordSize
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("container: writing header: %w", err)
	}
	if _, err := w.Write(bitstream); err != nil {
		return fmt.Errorf("container: writing bitstream: %w", err)
	}
	return nil
}

// Read parses a container, returning the header, the rebuilt frequency
// table, and the packed bitstream.
func Read(r io.Reader) (Header, huffman.FreqTable, []byte, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, nil, nil, fmt.Errorf("container: reading header: %w", err)
	}

	h := Header{
		Height:      binary.BigEndian.Uint32(buf[0:4]),
		Width:       binary.BigEndian.Uint32(buf[4:8]),
		Channels:    buf[8],
		QuantFactor: binary.BigEndian.Uint32(buf[9:13]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, nil, nil, fmt.Errorf("container: %w", err)
	}

	tableLen := binary.BigEndian.Uint32(buf[13:17])
	if tableLen%FreqRecordSize != 0 {
		return Header{}, nil, nil, fmt.Errorf("container: frequency table length %d is not a multiple of %d", tableLen, FreqRecordSize)
	}
	// At most 256 distinct byte symbols can occur.
	if tableLen > 256*FreqRecordSize {
		return Header{}, nil, nil, fmt.Errorf("container: frequency table length %d exceeds the symbol alphabet", tableLen)
	}

	table := make([]byte, tableLen)
	if _, err := io.ReadFull(r, table); err != nil {
		return Header{}, nil, nil, fmt.Errorf("container: reading frequency table: %w", err)
	}

	freqs := make(huffman.FreqTable, tableLen/FreqRecordSize)
	prev := -1
	for off := 0; off < len(table); off += FreqRecordSize {
		sym := table[off]
		count := binary.BigEndian.Uint32(table[off+1 : off+5])
		if int(sym) <= prev {
			return Header{}, nil, nil, fmt.Errorf("container: frequency table symbols out of order at %d", sym)
		}
		if count == 0 {
			return Header{}, nil, nil, fmt.Errorf("container: zero count for symbol %d", sym)
		}
		freqs[sym] = count
		prev = int(sym)
	}

	bitstream, err := io.ReadAll(r)
	if err != nil {
		return Header{}, nil, nil, fmt.Errorf("container: reading bitstream: %w", err)
	}
	return h, freqs, bitstream, nil
}
