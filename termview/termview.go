// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that renders frames to the
// terminal (stdout) using ANSI color codes.
//
// Useful to develop e-paper layouts on a host machine without wiring up a
// panel; a framebuffer.Image can be drawn as-is.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and height in pixels. Each pixel renders as one character
	// cell pair, so keep these terminal-sized.
	Width  int
	Height int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
}

// Dev renders a 2D pixel grid to the console.
type Dev struct {
	w       io.Writer
	bounds  image.Rectangle
	palette ansi256.Palette

	pixels []color.NRGBA
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter is like New with an explicit output.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       w,
		bounds:  image.Rect(0, 0, opts.Width, opts.Height),
		palette: *p,
		pixels:  make([]color.NRGBA, opts.Width*opts.Height),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermView{%dx%d}", d.bounds.Dx(), d.bounds.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			r16, g16, b16, _ := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y).RGBA()
			d.pixels[y*d.bounds.Dx()+x] = color.NRGBA{
				R: byte(r16 >> 8),
				G: byte(g16 >> 8),
				B: byte(b16 >> 8),
				A: 255,
			}
		}
	}
	return d.refresh()
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated
	// per call.
	d.buf.Reset()
	for y := 0; y < d.bounds.Dy(); y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := 0; x < d.bounds.Dx(); x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.pixels[y*d.bounds.Dx()+x]))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
