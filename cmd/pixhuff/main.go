// Command pixhuff compresses and reconstructs images with the pixhuff
// codec. It reads BMP, PNG, and JPEG input and writes any of them back by
// file extension.
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"

	"github.com/mrjoshuak/go-pixhuff"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pixhuff",
		Short:         "Lossy/lossless image compression with delta + Huffman coding",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(encodeCmd(), decodeCmd(), infoCmd(), psnrCmd())
	return root
}

func encodeCmd() *cobra.Command {
	var (
		quantFactor int
		grayscale   bool
		maxHeight   int
		verify      bool
	)

	cmd := &cobra.Command{
		Use:   "encode <image> <output>",
		Short: "Compress an image into a pixhuff container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openImage(args[0])
			if err != nil {
				return err
			}

			if maxHeight > 0 && img.Bounds().Dy() > maxHeight {
				img = imaging.Resize(img, 0, maxHeight, imaging.Lanczos)
			}
			if grayscale {
				g := gift.New(gift.Grayscale())
				dst := image.NewGray(g.Bounds(img.Bounds()))
				g.Draw(dst, img)
				img = dst
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			opts := &pixhuff.Options{QuantFactor: quantFactor}
			if err := pixhuff.Encode(out, img, opts); err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			meta, err := pixhuff.DecodeMetadata(f)
			if err != nil {
				return err
			}
			printReport(cmd, meta)

			if verify {
				if _, err := f.Seek(0, 0); err != nil {
					return err
				}
				restored, err := pixhuff.Decode(f)
				if err != nil {
					return fmt.Errorf("verify: %w", err)
				}
				psnr, err := pixhuff.PSNR(flattenRGB(img), flattenRGB(restored))
				if err != nil {
					return fmt.Errorf("verify: %w", err)
				}
				cmd.Printf("  PSNR:             %.2f dB\n", psnr)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantFactor, "quant-factor", "q", 1, "quantization divisor (1 = lossless)")
	cmd.Flags().BoolVar(&grayscale, "grayscale", false, "convert to grayscale before encoding")
	cmd.Flags().IntVar(&maxHeight, "max-height", 0, "downscale taller images to this height")
	cmd.Flags().BoolVar(&verify, "verify", false, "decode after encoding and report PSNR")
	return cmd
}

func decodeCmd() *cobra.Command {
	var thumbHeight int

	cmd := &cobra.Command{
		Use:   "decode <container> <image>",
		Short: "Reconstruct an image from a pixhuff container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			img, err := pixhuff.Decode(f)
			if err != nil {
				return err
			}
			if err := saveImage(args[1], img); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", args[1])

			if thumbHeight > 0 {
				thumb := resize.Resize(0, uint(thumbHeight), img, resize.Lanczos3)
				ext := filepath.Ext(args[1])
				path := strings.TrimSuffix(args[1], ext) + "_thumb" + ext
				if err := saveImage(path, thumb); err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&thumbHeight, "thumb", 0, "also write a thumbnail of this height")
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <container>",
		Short: "Show a container's shape and size statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			meta, err := pixhuff.DecodeMetadata(f)
			if err != nil {
				return err
			}
			cmd.Printf("%s: %dx%d, %d channel(s), quant factor %d, %d symbols\n",
				args[0], meta.Width, meta.Height, meta.Channels, meta.QuantFactor, meta.DistinctSymbols)
			printReport(cmd, meta)
			return nil
		},
	}
}

func psnrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "psnr <original> <restored>",
		Short: "Compute the PSNR between two images of equal size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openImage(args[0])
			if err != nil {
				return err
			}
			b, err := openImage(args[1])
			if err != nil {
				return err
			}
			psnr, err := pixhuff.PSNR(flattenRGB(a), flattenRGB(b))
			if err != nil {
				return err
			}
			cmd.Printf("%.2f dB\n", psnr)
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, meta *pixhuff.Metadata) {
	cmd.Printf("  raw samples:      %d bytes\n", meta.RawBytes())
	cmd.Printf("  compressed:       %d bytes\n", meta.CompressedBytes())
	cmd.Printf("  ratio:            %.2f%% of raw\n", meta.CompressionRatio()*100)
}

// openImage decodes a BMP, PNG, or JPEG file. The bmp import registers the
// format alongside the stdlib ones.
func openImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

// flattenRGB flattens an image into planar RGB samples so two images can
// be compared channel by channel.
func flattenRGB(img image.Image) []uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	plane := w * h

	samples := make([]uint8, 3*plane)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx := (y-bounds.Min.Y)*w + (x - bounds.Min.X)
			r, g, b, _ := img.At(x, y).RGBA()
			samples[idx] = uint8(r >> 8)
			samples[plane+idx] = uint8(g >> 8)
			samples[2*plane+idx] = uint8(b >> 8)
		}
	}
	return samples
}
