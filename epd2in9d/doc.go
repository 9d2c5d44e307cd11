// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd2in9d controls the Waveshare 2.9" D 128x296 monochrome e-paper
// display (UC8151D controller, same command set as the 4.2" family).
//
// Product page:
//
// https://www.waveshare.com/wiki/2.9inch_e-Paper_Module_(D)
package epd2in9d
