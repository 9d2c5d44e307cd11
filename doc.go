// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd is a container for Waveshare e-paper display drivers.
//
// Panel drivers live in their own packages (epd4in2, epd2in9d) and share the
// 4-wire SPI host interface in epdio and the UC8176 command catalog in
// uc8176. The framebuffer package holds the bit-packed image type the panels
// consume.
package epd
