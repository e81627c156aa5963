package pixhuff

import (
	"errors"

	"github.com/mrjoshuak/go-pixhuff/internal/bitpack"
	"github.com/mrjoshuak/go-pixhuff/internal/huffman"
)

// The codec surfaces every failure as one of these typed errors, wrapped
// with stage context. Nothing is retried or swallowed internally, and no
// state is shared between calls, so a batch caller can keep going after
// one image fails.
var (
	// ErrInvalidConfiguration reports a bad encoding option, such as a
	// non-positive quantization factor.
	ErrInvalidConfiguration = errors.New("pixhuff: invalid configuration")

	// ErrInvalidInput reports an empty sample sequence or an empty
	// frequency table at tree-build time.
	ErrInvalidInput = huffman.ErrEmptyInput

	// ErrMissingCode reports a symbol with no code table entry. The table
	// is derived from the symbols being encoded, so this is an internal
	// invariant violation, not a recoverable input problem.
	ErrMissingCode = huffman.ErrMissingCode

	// ErrCorruptStream reports a bitstream that ends mid-codeword.
	ErrCorruptStream = huffman.ErrCorrupt

	// ErrTruncatedStream reports a packed bitstream whose pad header is
	// inconsistent with the buffer length.
	ErrTruncatedStream = bitpack.ErrTruncated

	// ErrShapeMismatch reports a decoded sample count that disagrees with
	// the container's declared height, width, and channel count.
	ErrShapeMismatch = errors.New("pixhuff: decoded sample count disagrees with declared shape")
)
