// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd4in2 controls the Waveshare 4.2" 400x300 monochrome e-paper
// display (UC8176 controller).
//
// Datasheet:
//
// https://www.waveshare.com/w/upload/6/6a/4.2inch-e-paper-specification.pdf
//
// Product page:
//
// https://www.waveshare.com/wiki/4.2inch_e-Paper_Module
package epd4in2
