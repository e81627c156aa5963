// Package bitpack provides pad-aware bit packing for codec bitstreams.
//
// A packed stream is one header byte holding the pad length (0-7) followed
// by the logical bits packed 8 per byte, most-significant bit first. The pad
// bits are zeros appended to the tail so the stream ends on a byte boundary.
package bitpack

import (
	"errors"
)

// ErrTruncated is returned when a packed buffer is too short for its header
// or the header's pad length exceeds the available tail bits.
var ErrTruncated = errors.New("bitpack: truncated stream")

// Packer accumulates bits and produces a packed buffer with a pad header.
type Packer struct {
	buf   []byte // index 0 reserved for the pad-length header
	acc   byte   // current byte buffer
	cnt   uint8  // number of valid bits in acc (0-7)
	total uint64 // total bits written
}

// NewPacker creates a new packer. sizeHint is the expected number of bits
// and may be zero.
func NewPacker(sizeHint int) *Packer {
	buf := make([]byte, 1, 1+(sizeHint+7)/8)
	return &Packer{buf: buf}
}

// WriteBit appends a single bit.
func (p *Packer) WriteBit(bit int) {
	p.acc = (p.acc << 1) | byte(bit&1)
	p.cnt++
	p.total++
	if p.cnt == 8 {
		p.buf = append(p.buf, p.acc)
		p.acc = 0
		p.cnt = 0
	}
}

// WriteBits appends the lowest n bits of val, most-significant first.
func (p *Packer) WriteBits(val uint64, n uint8) {
	for i := n; i > 0; i-- {
		p.WriteBit(int((val >> (i - 1)) & 1))
	}
}

// Len returns the number of logical bits written so far.
func (p *Packer) Len() uint64 {
	return p.total
}

// Finish zero-pads the final byte, records the pad length in the header,
// and returns the packed buffer. The packer must not be reused afterwards.
func (p *Packer) Finish() []byte {
	pad := (8 - p.total%8) % 8
	if p.cnt > 0 {
		p.acc <<= 8 - p.cnt
		p.buf = append(p.buf, p.acc)
	}
	p.buf[0] = byte(pad)
	return p.buf
}

// Unpacker reads the logical bit sequence back out of a packed buffer.
type Unpacker struct {
	data []byte // packed payload, header stripped
	pos  uint64 // next bit position
	n    uint64 // total logical bits
}

// NewUnpacker validates the pad header and returns a reader over the
// logical bits. The pad bits are excluded from the tail, never the head.
func NewUnpacker(buf []byte) (*Unpacker, error) {
	if len(buf) < 1 {
		return nil, ErrTruncated
	}
	pad := uint64(buf[0])
	raw := uint64(len(buf)-1) * 8
	if pad >= 8 || pad > raw {
		return nil, ErrTruncated
	}
	return &Unpacker{data: buf[1:], n: raw - pad}, nil
}

// Len returns the total number of logical bits.
func (u *Unpacker) Len() uint64 {
	return u.n
}

// ReadBit returns the next bit, or ok=false once the logical bits are
// exhausted.
func (u *Unpacker) ReadBit() (bit int, ok bool) {
	if u.pos >= u.n {
		return 0, false
	}
	b := u.data[u.pos>>3]
	bit = int((b >> (7 - u.pos&7)) & 1)
	u.pos++
	return bit, true
}
