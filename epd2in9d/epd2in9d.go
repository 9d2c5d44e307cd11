// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9d

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"

	"github.com/epaperlabs/epd/epdio"
	"github.com/epaperlabs/epd/framebuffer"
	"github.com/epaperlabs/epd/uc8176"
)

// Panel geometry.
const (
	Width  = 128
	Height = 296
)

// DefaultBackground is the color the panel shows after ClearFrame and the
// fill of a fresh buffer.
var DefaultBackground = image1bit.On

// The controller reports busy with the pin low.
const isBusyLow = true

// ErrGeometry is returned when a partial update buffer length or window
// coordinates are inconsistent. The bus is not touched.
var ErrGeometry = errors.New("epd2in9d: inconsistent partial window geometry")

// ErrAsleep is returned when anything but WakeUp is invoked on a sleeping
// display.
var ErrAsleep = errors.New("epd2in9d: display is in deep sleep, call WakeUp")

// errorHandler is a sticky wrapper around the host interface: after the
// first failure every call is a no-op and the error is surfaced once.
type errorHandler struct {
	io  *epdio.IO
	err error
}

func (eh *errorHandler) sendCommand(c byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.io.Cmd(c)
}

func (eh *errorHandler) sendData(p []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.io.Data(p)
}

func (eh *errorHandler) sendDataRepeated(b byte, n int) {
	if eh.err != nil {
		return
	}
	eh.err = eh.io.DataXTimes(b, n)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	eh.io.WaitUntilIdle(isBusyLow)
}

// Dev is a handler for one 2.9" D panel. It is not safe for concurrent use;
// callers sharing a Dev between goroutines need their own locking.
type Dev struct {
	io      *epdio.IO
	color   image1bit.Bit
	refresh uc8176.Refresh
	buffer  *framebuffer.Image
	asleep  bool
}

// New opens the display on the given SPI port and control pins and runs the
// power-up sequence. On return the controller is powered, initialized with
// the full-refresh waveform, and idle.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		io:      epdio.New(c, dc, cs, rst, busy),
		color:   DefaultBackground,
		refresh: uc8176.Full,
		buffer:  NewBuffer(),
	}

	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewHat opens the display with the default Waveshare HAT wiring.
func NewHat(p spi.Port) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy)
}

// NewBuffer returns a framebuffer sized for this panel, filled with the
// default background.
func NewBuffer() *framebuffer.Image {
	return framebuffer.New(Width, Height, DefaultBackground)
}

// Init resets the controller and runs the power-up sequence with the
// currently selected waveform.
func (d *Dev) Init() error {
	if err := d.io.Reset(); err != nil {
		return err
	}

	eh := errorHandler{io: d.io}
	initDisplay(&eh, d.lut())
	if eh.err != nil {
		return eh.err
	}

	d.asleep = false
	return nil
}

// WakeUp brings the display back from deep sleep by re-running the power-up
// sequence.
func (d *Dev) WakeUp() error {
	return d.Init()
}

// Sleep puts the controller into deep sleep. The panel keeps its image
// without power; only WakeUp may follow.
func (d *Dev) Sleep() error {
	if d.asleep {
		return ErrAsleep
	}

	eh := errorHandler{io: d.io}
	sleep(&eh)
	if eh.err != nil {
		return eh.err
	}

	d.asleep = true
	return nil
}

// UpdateFrame loads a full frame into the controller. buffer must hold
// Width/8*Height bytes in the panel's native layout (framebuffer.Image's
// Bytes). The image is shown on the next DisplayFrame.
func (d *Dev) UpdateFrame(buffer []byte) error {
	if d.asleep {
		return ErrAsleep
	}
	if len(buffer) != Width/8*Height {
		return fmt.Errorf("%w: buffer length %d, want %d", ErrGeometry, len(buffer), Width/8*Height)
	}

	eh := errorHandler{io: d.io}
	updateFrame(&eh, framebuffer.FillByte(d.color), buffer)
	return eh.err
}

// UpdatePartialFrame loads a window of w x h pixels at (x, y) into the
// controller's new-frame register. buffer must hold w/8*h bytes; w must be
// a multiple of 8. The hardware aligns x down and the right edge up to the
// 8 pixel horizontal granularity.
func (d *Dev) UpdatePartialFrame(buffer []byte, x, y, w, h int) error {
	if d.asleep {
		return ErrAsleep
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || w%8 != 0 ||
		x+w > Width || y+h > Height {
		return fmt.Errorf("%w: window (%d, %d) %dx%d", ErrGeometry, x, y, w, h)
	}
	if len(buffer) != w/8*h {
		return fmt.Errorf("%w: buffer length %d, want %d", ErrGeometry, len(buffer), w/8*h)
	}

	eh := errorHandler{io: d.io}
	updatePartialFrame(&eh, buffer, x, y, w, h)
	return eh.err
}

// DisplayFrame refreshes the panel from the loaded frame registers. It must
// follow an update to take effect and blocks until the refresh finished.
func (d *Dev) DisplayFrame() error {
	if d.asleep {
		return ErrAsleep
	}

	eh := errorHandler{io: d.io}
	displayFrame(&eh)
	return eh.err
}

// ClearFrame fills both frame registers with the background color. Like
// UpdateFrame it needs a DisplayFrame to become visible.
func (d *Dev) ClearFrame() error {
	if d.asleep {
		return ErrAsleep
	}

	eh := errorHandler{io: d.io}
	clearFrame(&eh, framebuffer.FillByte(d.color))
	return eh.err
}

// SetBackgroundColor changes the fill used by ClearFrame and as the old
// frame reference during UpdateFrame.
func (d *Dev) SetBackgroundColor(c image1bit.Bit) {
	d.color = c
}

// BackgroundColor returns the current background fill.
func (d *Dev) BackgroundColor() image1bit.Bit {
	return d.color
}

// Width returns the panel width in pixels.
func (d *Dev) Width() int {
	return Width
}

// Height returns the panel height in pixels.
func (d *Dev) Height() int {
	return Height
}

// SetLUT selects the waveform set and reprograms all five tables.
func (d *Dev) SetLUT(r uc8176.Refresh) error {
	if d.asleep {
		return ErrAsleep
	}

	d.refresh = r

	eh := errorHandler{io: d.io}
	setLUT(&eh, d.lut())
	return eh.err
}

// Busy samples the busy pin once without blocking.
func (d *Dev) Busy() bool {
	return d.io.IsBusy(isBusyLow)
}

func (d *Dev) lut() *uc8176.LUTSet {
	if d.refresh == uc8176.Quick {
		return &lutQuick
	}
	return &lutFull
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Draw composes src over the internal framebuffer, uploads it and refreshes
// the panel.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	if d.asleep {
		return ErrAsleep
	}

	draw.Src.Draw(d.buffer, dstRect, src, srcPts)

	if err := d.UpdateFrame(d.buffer.Bytes()); err != nil {
		return err
	}
	return d.DisplayFrame()
}

// Halt clears the display to the background color.
func (d *Dev) Halt() error {
	if err := d.ClearFrame(); err != nil {
		return err
	}
	return d.DisplayFrame()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd2in9d.Dev{%s, Width: %d, Height: %d}", d.io, Width, Height)
}

var _ display.Drawer = &Dev{}
