// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdio implements the 4-wire SPI host interface shared by the
// Waveshare e-paper controllers: one SPI write channel plus chip-select,
// data/command, reset and busy pins.
//
// The controller latches the data/command pin on the first clock of a
// transaction and some panels gate the busy line on chip-select, so CS is
// asserted across exactly one transaction and released before the busy pin
// is sampled.
package epdio

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// ErrTimeout is returned by WaitUntilIdleTimeout when the busy pin does not
// reach the idle level within the caller's budget. The controller state is
// undefined afterwards; callers should issue a hardware Reset.
var ErrTimeout = errors.New("epdio: timeout waiting for idle")

const busyPollInterval = 10 * time.Millisecond

// IO drives the control interface of a single panel. It owns the four GPIO
// lines for its lifetime; the SPI connection may be shared with other
// devices on the same bus between transactions.
type IO struct {
	c    conn.Conn
	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn
}

// New wraps an SPI connection and the four control pins. The connection must
// be configured for SPI mode 0, 8 bits per word, MSB first.
func New(c conn.Conn, dc, cs, rst gpio.PinOut, busy gpio.PinIn) *IO {
	return &IO{c: c, dc: dc, cs: cs, rst: rst, busy: busy}
}

// String returns the name of the underlying SPI connection.
func (o *IO) String() string {
	return fmt.Sprintf("%s", o.c)
}

// Reset pulses the reset line and leaves the controller in hardware idle.
// The datasheet asks for at least 10ms on each level.
func (o *IO) Reset() error {
	if err := o.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("epdio: reset: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := o.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("epdio: reset: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	return nil
}

// Cmd writes a single opcode byte with the data/command pin low.
func (o *IO) Cmd(op byte) error {
	if err := o.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("epdio: command %#02x: %w", op, err)
	}
	if err := o.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("epdio: command %#02x: %w", op, err)
	}
	if err := o.c.Tx([]byte{op}, nil); err != nil {
		return fmt.Errorf("epdio: command %#02x: %w", op, err)
	}
	if err := o.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("epdio: command %#02x: %w", op, err)
	}
	return nil
}

// Data writes a data payload with the data/command pin high. CS stays low
// across the whole payload and is released at the end.
func (o *IO) Data(p []byte) error {
	if err := o.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("epdio: data: %w", err)
	}
	if err := o.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("epdio: data: %w", err)
	}
	if err := o.c.Tx(p, nil); err != nil {
		return fmt.Errorf("epdio: data: %w", err)
	}
	if err := o.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("epdio: data: %w", err)
	}
	return nil
}

// DataXTimes writes the same byte n times. Frame fills go through here so
// that clearing a 15kB panel does not need a 15kB buffer.
func (o *IO) DataXTimes(b byte, n int) error {
	var chunk [64]byte
	for i := range chunk {
		chunk[i] = b
	}
	if err := o.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("epdio: data fill: %w", err)
	}
	if err := o.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("epdio: data fill: %w", err)
	}
	for n > 0 {
		c := n
		if c > len(chunk) {
			c = len(chunk)
		}
		if err := o.c.Tx(chunk[:c], nil); err != nil {
			return fmt.Errorf("epdio: data fill: %w", err)
		}
		n -= c
	}
	if err := o.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("epdio: data fill: %w", err)
	}
	return nil
}

// CmdWithData writes an opcode followed by its parameter bytes.
func (o *IO) CmdWithData(op byte, p []byte) error {
	if err := o.Cmd(op); err != nil {
		return err
	}
	return o.Data(p)
}

// IsBusy samples the busy pin once. busyLow selects the busy polarity of the
// panel; the 4.2" family reports busy with the pin low.
func (o *IO) IsBusy(busyLow bool) bool {
	if busyLow {
		return o.busy.Read() == gpio.Low
	}
	return o.busy.Read() == gpio.High
}

// WaitUntilIdle polls the busy pin until the controller reports idle.
func (o *IO) WaitUntilIdle(busyLow bool) {
	for o.IsBusy(busyLow) {
		time.Sleep(busyPollInterval)
	}
}

// WaitUntilIdleTimeout polls like WaitUntilIdle but gives up after timeout
// and returns ErrTimeout.
func (o *IO) WaitUntilIdleTimeout(busyLow bool, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for o.IsBusy(busyLow) {
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(busyPollInterval)
	}
	return nil
}
