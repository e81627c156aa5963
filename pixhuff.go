// Package pixhuff implements a lossy/lossless image codec built from
// scalar quantization, a modular delta transform, and canonical Huffman
// coding.
//
// Samples are flattened in channel-planar order, optionally quantized,
// delta-transformed to concentrate probability mass near zero, then
// entropy-coded and packed into a compact binary container. Decoding
// reverses every step; at quantization factor 1 the round trip is exact.
//
// Basic usage for encoding:
//
//	file, _ := os.Create("image.phf")
//	err := pixhuff.Encode(file, img, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Basic usage for decoding:
//
//	file, _ := os.Open("image.phf")
//	img, err := pixhuff.Decode(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
package pixhuff

import (
	"image"
	"io"

	"github.com/mrjoshuak/go-pixhuff/internal/container"
)

// Options holds the encoding options.
type Options struct {
	// QuantFactor is the scalar quantization divisor applied to every
	// sample before entropy coding. 1 means lossless; larger values trade
	// reconstruction error (bounded by QuantFactor-1 per sample) for a
	// smaller output.
	QuantFactor int
}

// DefaultOptions returns the default encoding options (lossless).
func DefaultOptions() *Options {
	return &Options{QuantFactor: 1}
}

// Encode writes the image m to w in the pixhuff container format.
// Grayscale images are stored as a single channel; everything else is
// stored as three planar RGB channels.
func Encode(w io.Writer, m image.Image, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	e := newEncoder(w, m, o)
	return e.encode()
}

// Decode reads a pixhuff container from r and reconstructs the image.
func Decode(r io.Reader) (image.Image, error) {
	d := newDecoder(r)
	return d.decode()
}

// DecodeMetadata reads a container and reports its shape and payload
// statistics without reconstructing the image.
func DecodeMetadata(r io.Reader) (*Metadata, error) {
	d := newDecoder(r)
	return d.readMetadata()
}

// Metadata describes a compressed image's container.
type Metadata struct {
	// Width and Height are the image dimensions in samples.
	Width  int
	Height int

	// Channels is 1 for grayscale, 3 for planar RGB.
	Channels int

	// QuantFactor is the quantization divisor used at encode time.
	QuantFactor int

	// DistinctSymbols is the size of the coding alphabet after the
	// transform stages.
	DistinctSymbols int

	// FreqTableBytes is the serialized frequency table size.
	FreqTableBytes int

	// BitstreamBytes is the packed payload size, pad header included.
	BitstreamBytes int
}

// RawBytes returns the uncompressed planar sample count, which is also
// the raw payload size in bytes for 8-bit samples.
func (m *Metadata) RawBytes() int {
	return m.Width * m.Height * m.Channels
}

// CompressedBytes returns the total container size.
func (m *Metadata) CompressedBytes() int {
	return container.HeaderSize + m.FreqTableBytes + m.BitstreamBytes
}

// CompressionRatio returns the compressed size as a fraction of the raw
// planar payload. Smaller is better; 1.0 means no savings.
func (m *Metadata) CompressionRatio() float64 {
	raw := m.RawBytes()
	if raw == 0 {
		return 0
	}
	return float64(m.CompressedBytes()) / float64(raw)
}
