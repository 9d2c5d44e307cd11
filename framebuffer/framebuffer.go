// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuffer implements the bit-packed image format consumed by the
// UC8176-family panels: one bit per pixel, MSB first within a byte, rows
// packed major. The buffer always keeps the panel's native layout so that
// Bytes() can be handed to a panel driver without conversion; rotation only
// changes how SetPixel coordinates are mapped.
package framebuffer

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Rotation maps logical drawing coordinates onto the panel.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// FillByte returns the byte that fills a buffer with the given color:
// 0xFF for white, 0x00 for black.
func FillByte(c image1bit.Bit) byte {
	if c == image1bit.On {
		return 0xFF
	}
	return 0x00
}

// Image is a fixed-size 1-bit frame for a single panel. It implements
// draw.Image so text and graphics from image/draw, x/image/font or
// fogleman/gg can be composed onto it directly.
type Image struct {
	w, h   int // panel-native; w is a multiple of 8 for every supported panel
	stride int // bytes per row
	rot    Rotation
	buf    []byte
}

// New returns a frame of the given panel-native size filled with the
// background color and rotation Rot0. w must be a multiple of 8.
func New(w, h int, bg image1bit.Bit) *Image {
	im := &Image{
		w:      w,
		h:      h,
		stride: w / 8,
		buf:    make([]byte, w/8*h),
	}
	im.Fill(bg)
	return im
}

// Fill sets every pixel to c.
func (im *Image) Fill(c image1bit.Bit) {
	b := FillByte(c)
	for i := range im.buf {
		im.buf[i] = b
	}
}

// SetRotation changes the mapping of logical coordinates. The stored bytes
// are unaffected.
func (im *Image) SetRotation(r Rotation) {
	im.rot = r
}

// Rotation returns the active rotation.
func (im *Image) Rotation() Rotation {
	return im.rot
}

// Bytes returns the raw on-panel byte stream. The slice aliases the frame;
// it is valid input for a panel driver's UpdateFrame.
func (im *Image) Bytes() []byte {
	return im.buf
}

// native maps logical (x, y) under the active rotation to panel-native
// coordinates.
func (im *Image) native(x, y int) (int, int) {
	switch im.rot {
	case Rot90:
		return im.w - 1 - y, x
	case Rot180:
		return im.w - 1 - x, im.h - 1 - y
	case Rot270:
		return y, im.h - 1 - x
	default:
		return x, y
	}
}

// SetPixel plots a pixel at logical (x, y). Out-of-range coordinates are
// ignored, matching the contract plotting libraries expect.
func (im *Image) SetPixel(x, y int, c image1bit.Bit) {
	u, v := im.native(x, y)
	if u < 0 || u >= im.w || v < 0 || v >= im.h {
		return
	}
	idx := v*im.stride + u>>3
	mask := byte(0x80) >> uint(u&7)
	if c == image1bit.On {
		im.buf[idx] |= mask
	} else {
		im.buf[idx] &^= mask
	}
}

// Pixel returns the pixel at logical (x, y). Out-of-range coordinates read
// as black.
func (im *Image) Pixel(x, y int) image1bit.Bit {
	u, v := im.native(x, y)
	if u < 0 || u >= im.w || v < 0 || v >= im.h {
		return image1bit.Off
	}
	return image1bit.Bit(im.buf[v*im.stride+u>>3]&(byte(0x80)>>uint(u&7)) != 0)
}

// ColorModel implements image.Image.
func (im *Image) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image. Width and height swap under Rot90/Rot270.
func (im *Image) Bounds() image.Rectangle {
	switch im.rot {
	case Rot90, Rot270:
		return image.Rect(0, 0, im.h, im.w)
	default:
		return image.Rect(0, 0, im.w, im.h)
	}
}

// At implements image.Image.
func (im *Image) At(x, y int) color.Color {
	return im.Pixel(x, y)
}

// Set implements draw.Image.
func (im *Image) Set(x, y int, c color.Color) {
	im.SetPixel(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

var _ draw.Image = &Image{}
