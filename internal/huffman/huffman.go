// Package huffman implements the canonical Huffman stage of the codec.
//
// The tree is never stored: both sides rebuild it from the frequency table
// alone; leaves are seeded in ascending symbol order and every node carries
// a sequence number, so equal-frequency merges resolve identically on the
// encode and decode paths.
package huffman

import (
	"container/heap"
	"errors"

	"github.com/mrjoshuak/go-pixhuff/internal/bitpack"
)

var (
	// ErrEmptyInput is returned when there are no symbols to build a tree from.
	ErrEmptyInput = errors.New("huffman: empty input")

	// ErrMissingCode is returned when a symbol has no code table entry.
	// The table is always derived from the symbols being encoded, so this
	// indicates a broken invariant rather than bad input.
	ErrMissingCode = errors.New("huffman: symbol missing from code table")

	// ErrCorrupt is returned when the bitstream ends in the middle of a
	// codeword.
	ErrCorrupt = errors.New("huffman: corrupt bitstream")
)

// FreqTable maps each symbol that occurs in the input to its count.
type FreqTable map[uint8]uint32

// CountFrequencies tallies the symbols of the input. Every symbol present
// in the input appears as a key; the counts sum to len(symbols).
func CountFrequencies(symbols []uint8) FreqTable {
	freqs := make(FreqTable)
	for _, s := range symbols {
		freqs[s]++
	}
	return freqs
}

// Total returns the sum of all counts, which is the number of symbols the
// table was built from.
func (ft FreqTable) Total() uint64 {
	var n uint64
	for _, c := range ft {
		n += uint64(c)
	}
	return n
}

// Symbols returns the table's keys in ascending order.
func (ft FreqTable) Symbols() []uint8 {
	out := make([]uint8, 0, len(ft))
	for s := 0; s < 256; s++ {
		if _, ok := ft[uint8(s)]; ok {
			out = append(out, uint8(s))
		}
	}
	return out
}

// Code is one symbol's codeword: the Len low bits of Bits, emitted
// most-significant first.
type Code struct {
	Bits uint64
	Len  uint8
}

// Encode concatenates each symbol's codeword in input order and packs the
// result. It returns the packed bitstream and the frequency table the
// decoder needs to rebuild the tree.
func Encode(symbols []uint8) ([]byte, FreqTable, error) {
	freqs := CountFrequencies(symbols)
	root, err := buildTree(freqs)
	if err != nil {
		return nil, nil, err
	}
	codes := deriveCodes(root)

	p := bitpack.NewPacker(len(symbols))
	for _, s := range symbols {
		c := codes[s]
		if c.Len == 0 {
			return nil, nil, ErrMissingCode
		}
		p.WriteBits(c.Bits, c.Len)
	}
	return p.Finish(), freqs, nil
}

// Decode rebuilds the tree from the frequency table, unpacks the bitstream,
// and walks the tree bit by bit, emitting one symbol at each leaf until the
// bits are exhausted.
func Decode(packed []byte, freqs FreqTable) ([]uint8, error) {
	root, err := buildTree(freqs)
	if err != nil {
		return nil, err
	}
	u, err := bitpack.NewUnpacker(packed)
	if err != nil {
		return nil, err
	}

	// A symbol costs at least one bit, so the bit count bounds the output
	// regardless of what the table claims.
	total := freqs.Total()
	if bits := u.Len(); bits < total {
		total = bits
	}
	out := make([]uint8, 0, total)

	// A single-symbol alphabet degenerates to a lone leaf carrying the
	// 1-bit code 0: every bit is one occurrence of that symbol.
	if root.leaf {
		for {
			if _, ok := u.ReadBit(); !ok {
				return out, nil
			}
			out = append(out, root.symbol)
		}
	}

	cur := root
	for {
		bit, ok := u.ReadBit()
		if !ok {
			if cur != root {
				return nil, ErrCorrupt
			}
			return out, nil
		}
		if bit == 0 {
			cur = cur.left
		} else {
			cur = cur.right
		}
		if cur.leaf {
			out = append(out, cur.symbol)
			cur = root
		}
	}
}

// node is either a leaf carrying one symbol or an internal node owning two
// children; internal nodes carry only the combined frequency.
type node struct {
	freq   uint64
	seq    int
	leaf   bool
	symbol uint8
	left   *node
	right  *node
}

// buildTree constructs the prefix tree by repeatedly merging the two
// lowest-frequency nodes. Ties are broken by sequence number: leaves in
// ascending symbol order first, then merged nodes in creation order.
func buildTree(freqs FreqTable) (*node, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyInput
	}

	pq := make(nodeQueue, 0, len(freqs))
	seq := 0
	for _, s := range freqs.Symbols() {
		pq = append(pq, &node{freq: uint64(freqs[s]), seq: seq, leaf: true, symbol: s})
		seq++
	}
	heap.Init(&pq)

	for pq.Len() > 1 {
		left := heap.Pop(&pq).(*node)
		right := heap.Pop(&pq).(*node)
		heap.Push(&pq, &node{
			freq:  left.freq + right.freq,
			seq:   seq,
			left:  left,
			right: right,
		})
		seq++
	}
	return pq[0], nil
}

// nodeQueue is a min-heap over (frequency, sequence number).
type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].freq != q[j].freq {
		return q[i].freq < q[j].freq
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// deriveCodes walks the tree depth first, appending 0 on left descent and
// 1 on right descent. A lone leaf at the root gets the 1-bit code 0 so a
// uniform buffer still has a non-empty codeword.
func deriveCodes(root *node) *[256]Code {
	var codes [256]Code
	if root.leaf {
		codes[root.symbol] = Code{Bits: 0, Len: 1}
		return &codes
	}
	var walk func(n *node, bits uint64, depth uint8)
	walk = func(n *node, bits uint64, depth uint8) {
		if n.leaf {
			codes[n.symbol] = Code{Bits: bits, Len: depth}
			return
		}
		walk(n.left, bits<<1, depth+1)
		walk(n.right, bits<<1|1, depth+1)
	}
	walk(root, 0, 0)
	return &codes
}
