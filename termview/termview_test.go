// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/epaperlabs/epd/framebuffer"
)

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d := NewWriter(&out, &Opts{Width: 16, Height: 4})

	fb := framebuffer.New(16, 4, image1bit.On)
	fb.SetPixel(0, 0, image1bit.Off)

	if err := d.Draw(d.Bounds(), fb, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	got := out.String()
	if lines := strings.Count(got, "\n"); lines != 4 {
		t.Errorf("Draw() wrote %d lines, want 4", lines)
	}
	if !strings.Contains(got, "\033[0m") {
		t.Error("Draw() output misses the color reset sequence")
	}
}

func TestHalt(t *testing.T) {
	var out bytes.Buffer
	d := NewWriter(&out, &Opts{Width: 2, Height: 2})

	if err := d.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}
	if got := out.String(); got != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", got)
	}
}

func TestString(t *testing.T) {
	d := NewWriter(&bytes.Buffer{}, &Opts{Width: 16, Height: 4})
	if got := d.String(); got != "TermView{16x4}" {
		t.Errorf("String() = %q", got)
	}
}
