// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9d

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func newTestDev(t *testing.T) *Dev {
	t.Helper()

	dev, err := New(&spitest.Record{},
		&gpiotest.Pin{N: "DC"},
		&gpiotest.Pin{N: "CS"},
		&gpiotest.Pin{N: "RST"},
		&gpiotest.Pin{N: "BUSY", L: gpio.High})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return dev
}

func TestNew(t *testing.T) {
	dev := newTestDev(t)

	if dev.Width() != 128 || dev.Height() != 296 {
		t.Errorf("dimensions = %dx%d, want 128x296", dev.Width(), dev.Height())
	}
	if got := len(NewBuffer().Bytes()); got != 4736 {
		t.Errorf("len(NewBuffer().Bytes()) = %d, want 4736", got)
	}
}

func TestLifecycle(t *testing.T) {
	dev := newTestDev(t)

	if err := dev.UpdateFrame(NewBuffer().Bytes()); err != nil {
		t.Fatalf("UpdateFrame() failed: %v", err)
	}
	if err := dev.DisplayFrame(); err != nil {
		t.Fatalf("DisplayFrame() failed: %v", err)
	}
	if err := dev.Sleep(); err != nil {
		t.Fatalf("Sleep() failed: %v", err)
	}
	if err := dev.ClearFrame(); !errors.Is(err, ErrAsleep) {
		t.Errorf("ClearFrame() on sleeping display = %v, want ErrAsleep", err)
	}
	if err := dev.WakeUp(); err != nil {
		t.Fatalf("WakeUp() failed: %v", err)
	}
	if err := dev.ClearFrame(); err != nil {
		t.Errorf("ClearFrame() after WakeUp failed: %v", err)
	}
}
