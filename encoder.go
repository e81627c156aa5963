package pixhuff

import (
	"fmt"
	"image"
	"io"

	"github.com/mrjoshuak/go-pixhuff/internal/container"
	"github.com/mrjoshuak/go-pixhuff/internal/huffman"
	"github.com/mrjoshuak/go-pixhuff/internal/transform"
)

// encoder handles compression of one image.
type encoder struct {
	w       io.Writer
	img     image.Image
	options *Options

	width    int
	height   int
	channels int
}

// newEncoder creates a new encoder.
func newEncoder(w io.Writer, img image.Image, options *Options) *encoder {
	bounds := img.Bounds()
	return &encoder{
		w:       w,
		img:     img,
		options: options,
		width:   bounds.Dx(),
		height:  bounds.Dy(),
	}
}

// encode runs the pipeline and writes the container.
func (e *encoder) encode() error {
	if e.options.QuantFactor < 1 {
		return fmt.Errorf("%w: quantization factor %d", ErrInvalidConfiguration, e.options.QuantFactor)
	}

	samples := e.extractSamples()

	bitstream, freqs, err := encodeSamples(samples, e.options.QuantFactor)
	if err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}

	hdr := container.Header{
		Height:      uint32(e.height),
		Width:       uint32(e.width),
		Channels:    uint8(e.channels),
		QuantFactor: uint32(e.options.QuantFactor),
	}
	return container.Write(e.w, hdr, freqs, bitstream)
}

// encodeSamples is the core pipeline: quantize, delta-transform, then
// Huffman-encode. It returns the packed bitstream and the frequency table
// a decoder needs alongside the shape metadata.
func encodeSamples(samples []uint8, quantFactor int) ([]byte, huffman.FreqTable, error) {
	quantized := transform.Quantize(samples, quantFactor)
	deltas := transform.DeltaForward(quantized)
	return huffman.Encode(deltas)
}

// extractSamples flattens the image into channel-planar order: all of
// channel 0, then channel 1, then channel 2. Neighboring samples in the
// flat sequence stay spatially adjacent within one channel, which is what
// the delta transform needs.
func (e *encoder) extractSamples() []uint8 {
	bounds := e.img.Bounds()
	plane := e.width * e.height

	switch img := e.img.(type) {
	case *image.Gray:
		e.channels = 1
		samples := make([]uint8, plane)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			start := img.PixOffset(bounds.Min.X, y)
			copy(samples[(y-bounds.Min.Y)*e.width:], img.Pix[start:start+e.width])
		}
		return samples

	case *image.RGBA:
		e.channels = 3
		samples := make([]uint8, 3*plane)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				idx := (y-bounds.Min.Y)*e.width + (x - bounds.Min.X)
				c := img.RGBAAt(x, y)
				samples[idx] = c.R
				samples[plane+idx] = c.G
				samples[2*plane+idx] = c.B
			}
		}
		return samples

	default:
		// Generic fallback - alpha is dropped.
		e.channels = 3
		samples := make([]uint8, 3*plane)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				idx := (y-bounds.Min.Y)*e.width + (x - bounds.Min.X)
				r, g, b, _ := e.img.At(x, y).RGBA()
				samples[idx] = uint8(r >> 8)
				samples[plane+idx] = uint8(g >> 8)
				samples[2*plane+idx] = uint8(b >> 8)
			}
		}
		return samples
	}
}
