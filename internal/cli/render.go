// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/noise"
)

// Image formats accepted by render.
const (
	formatPNG  = "png"
	formatBMP  = "bmp"
	formatTIFF = "tiff"
)

// Sample formats accepted by raw.
const (
	formatF32 = "f32"
	formatCSV = "csv"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

type renderOpts struct {
	configFlags
	output string
	format string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render [algorithm]",
		Short: "Render a noise texture to an image file",
		Long: `Render a noise texture and write it as PNG, BMP or TIFF.

The format is taken from --format, then from the output file extension,
and defaults to PNG. Use -o - to write to standard output.`,
		Example: `  noisegen render perlin --width 1024 --height 1024 --octaves 5 -o clouds.png
  noisegen render value --interpolation linear --seed auto -o blocks.bmp
  noisegen render --config terrain.toml -o terrain.tiff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			format, err := imageFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			output := opts.output
			if output == "" {
				output = p.Algorithm + "." + format
			}
			return c.runRender(cmd, p, output, format)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <algorithm>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "image format: png, bmp, tiff")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, p *Preset, output, format string) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	tex, err := c.open(p)
	if err != nil {
		return err
	}
	defer tex.Close()

	img, err := tex.ImageData(p.AnyConfig)
	if err != nil {
		return err
	}
	err = writeOutput(cmd, output, func(w io.Writer) error {
		return encodeImage(w, img, format)
	})
	if err != nil {
		return err
	}
	b := img.Bounds()
	prog.done(fmt.Sprintf("Rendered %s %dx%d to %s", tex.Algorithm(), b.Dx(), b.Dy(), output))
	return nil
}

// imageFormat picks the format from the flag, then the file extension.
func imageFormat(flag, output string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" && output != "" && output != stdoutPath {
		f = strings.ToLower(strings.TrimPrefix(filepath.Ext(output), "."))
	}
	switch f {
	case "", formatPNG:
		return formatPNG, nil
	case formatBMP:
		return formatBMP, nil
	case formatTIFF, "tif":
		return formatTIFF, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'png', 'bmp', or 'tiff')", f)
	}
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case formatBMP:
		return bmp.Encode(w, img)
	case formatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return png.Encode(w, img)
	}
}

func (c *CLI) dataURLCommand() *cobra.Command {
	var opts configFlags
	cmd := &cobra.Command{
		Use:   "dataurl [algorithm]",
		Short: "Print a noise texture as a PNG data URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			tex, err := c.open(p)
			if err != nil {
				return err
			}
			defer tex.Close()

			dataURL, err := tex.DataURL(p.AnyConfig)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dataURL)
			return err
		},
	}
	opts.register(cmd)
	return cmd
}

type rawOpts struct {
	configFlags
	output string
	format string
}

func (c *CLI) rawCommand() *cobra.Command {
	var opts rawOpts
	cmd := &cobra.Command{
		Use:   "raw [algorithm]",
		Short: "Write normalized noise samples",
		Long: `Write the red channel of a noise texture normalized to [0, 1].

The f32 format is little-endian float32, row-major, row zero at the top.
The csv format writes one line per row.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			if opts.format != formatF32 && opts.format != formatCSV {
				return fmt.Errorf("invalid format: %s (must be 'f32' or 'csv')", opts.format)
			}
			return c.runRaw(cmd, p, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", stdoutPath, "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatF32, "sample format: f32, csv")
	return cmd
}

func (c *CLI) runRaw(cmd *cobra.Command, p *Preset, opts *rawOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	tex, err := c.open(p)
	if err != nil {
		return err
	}
	defer tex.Close()

	samples, err := tex.RawData(p.AnyConfig)
	if err != nil {
		return err
	}
	width := noise.Resolve(p.SharedConfig, p.Defaults).Width

	err = writeOutput(cmd, opts.output, func(w io.Writer) error {
		if opts.format == formatCSV {
			return writeCSV(w, samples, width)
		}
		return binary.Write(w, binary.LittleEndian, samples)
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d %s samples", len(samples), opts.format))
	return nil
}

// writeCSV writes samples as rows of width values.
func writeCSV(w io.Writer, samples []float32, width int) error {
	if width <= 0 || len(samples)%width != 0 {
		return fmt.Errorf("%d samples do not form rows of %d", len(samples), width)
	}
	cw := csv.NewWriter(w)
	row := make([]string, width)
	for y := 0; y < len(samples)/width; y++ {
		for x := range row {
			row[x] = strconv.FormatFloat(float64(samples[y*width+x]), 'f', -1, 32)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeOutput runs write against a buffered file, or standard output for "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	var dst io.Writer = cmd.OutOrStdout()
	if path != stdoutPath {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		dst = f
	}
	bw := bufio.NewWriter(dst)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func (c *CLI) algorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported noise algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, a := range noise.Algorithms() {
				if _, err := fmt.Fprintln(out, a); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
