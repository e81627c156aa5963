package pixhuff

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/mrjoshuak/go-pixhuff/internal/container"
	"github.com/mrjoshuak/go-pixhuff/internal/huffman"
	"github.com/mrjoshuak/go-pixhuff/internal/transform"
)

// decoder handles decompression of one container.
type decoder struct {
	r io.Reader
}

// newDecoder creates a new decoder.
func newDecoder(r io.Reader) *decoder {
	return &decoder{r: r}
}

// decode reads the container, reverses the pipeline, and reassembles the
// image.
func (d *decoder) decode() (image.Image, error) {
	hdr, freqs, bitstream, err := container.Read(d.r)
	if err != nil {
		return nil, fmt.Errorf("parsing container: %w", err)
	}

	samples, err := decodeSamples(bitstream, freqs, int(hdr.QuantFactor))
	if err != nil {
		return nil, fmt.Errorf("decoding samples: %w", err)
	}

	if uint64(len(samples)) != hdr.SampleCount() {
		return nil, fmt.Errorf("%w: got %d samples, want %d (%dx%dx%d)",
			ErrShapeMismatch, len(samples), hdr.SampleCount(),
			hdr.Width, hdr.Height, hdr.Channels)
	}

	return assembleImage(samples, hdr), nil
}

// decodeSamples is the mirror pipeline: Huffman-decode, undo the delta
// transform, then dequantize.
func decodeSamples(bitstream []byte, freqs huffman.FreqTable, quantFactor int) ([]uint8, error) {
	deltas, err := huffman.Decode(bitstream, freqs)
	if err != nil {
		return nil, err
	}
	quantized := transform.DeltaInverse(deltas)
	return transform.Dequantize(quantized, quantFactor), nil
}

// assembleImage turns the flat planar sample sequence back into an image.
func assembleImage(samples []uint8, hdr container.Header) image.Image {
	w, h := int(hdr.Width), int(hdr.Height)
	rect := image.Rect(0, 0, w, h)

	if hdr.Channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, samples)
		return img
	}

	plane := w * h
	img := image.NewRGBA(rect)
	for i := 0; i < plane; i++ {
		img.SetRGBA(i%w, i/w, color.RGBA{
			R: samples[i],
			G: samples[plane+i],
			B: samples[2*plane+i],
			A: 255,
		})
	}
	return img
}

// readMetadata parses the container without running the decode pipeline.
func (d *decoder) readMetadata() (*Metadata, error) {
	hdr, freqs, bitstream, err := container.Read(d.r)
	if err != nil {
		return nil, fmt.Errorf("parsing container: %w", err)
	}
	return &Metadata{
		Width:           int(hdr.Width),
		Height:          int(hdr.Height),
		Channels:        int(hdr.Channels),
		QuantFactor:     int(hdr.QuantFactor),
		DistinctSymbols: len(freqs),
		FreqTableBytes:  container.FreqRecordSize * len(freqs),
		BitstreamBytes:  len(bitstream),
	}, nil
}
