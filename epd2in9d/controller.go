// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9d

import (
	"time"

	"github.com/epaperlabs/epd/uc8176"
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	sendDataRepeated(byte, int)
	waitUntilIdle()
}

// initDisplay powers the controller up and programs the selected waveform.
// The order is mandatory; diverging from it causes ghosting or a controller
// that fails to wake.
func initDisplay(ctrl controller, lut *uc8176.LUTSet) {
	ctrl.sendCommand(uc8176.PowerSetting)
	ctrl.sendData([]byte{0x03, 0x00, 0x2B, 0x2B, 0x03})

	ctrl.sendCommand(uc8176.BoosterSoftStart)
	ctrl.sendData([]byte{0x17, 0x17, 0x17})

	ctrl.sendCommand(uc8176.PowerOn)
	time.Sleep(5 * time.Millisecond)
	ctrl.waitUntilIdle()

	// LUT from register, B/W mode, scan up, shift right.
	ctrl.sendCommand(uc8176.PanelSetting)
	ctrl.sendData([]byte{0xBF, 0x0D})

	// 100Hz frame rate.
	ctrl.sendCommand(uc8176.PLLControl)
	ctrl.sendData([]byte{0x3A})

	setLUT(ctrl, lut)

	ctrl.waitUntilIdle()
}

// sendResolution programs the panel resolution, width and height both as
// big-endian 16 bit values.
func sendResolution(ctrl controller) {
	ctrl.sendCommand(uc8176.ResolutionSetting)
	ctrl.sendData([]byte{
		byte(Width >> 8), byte(Width & 0xFF),
		byte(Height >> 8), byte(Height & 0xFF),
	})
}

// updateFrame loads a full frame into the controller. DTM1 carries the
// background color as the "old" frame for the delta engine, DTM2 the new
// image. Nothing is shown until displayFrame issues the refresh.
func updateFrame(ctrl controller, bg byte, buffer []byte) {
	sendResolution(ctrl)

	ctrl.sendCommand(uc8176.VCMDCSetting)
	ctrl.sendData([]byte{0x12})

	ctrl.sendCommand(uc8176.VCOMAndDataIntervalSetting)
	ctrl.sendData([]byte{0x97})

	ctrl.sendCommand(uc8176.DataStartTransmission1)
	ctrl.sendDataRepeated(bg, Width/8*Height)

	ctrl.sendCommand(uc8176.DataStartTransmission2)
	ctrl.sendData(buffer)

	ctrl.waitUntilIdle()
}

// updatePartialFrame loads a window into DTM2. x is aligned down and the
// right edge up to the controller's 8 pixel horizontal granularity; the
// caller has already validated the geometry.
func updatePartialFrame(ctrl controller, buffer []byte, x, y, w, h int) {
	left := x &^ 7
	right := (x + w - 1) | 0x07
	bottom := y + h - 1

	ctrl.sendCommand(uc8176.PartialIn)

	ctrl.sendCommand(uc8176.PartialWindow)
	ctrl.sendData([]byte{
		byte(left >> 8), byte(left),
		byte(right >> 8), byte(right),
		byte(y >> 8), byte(y),
		byte(bottom >> 8), byte(bottom),
		// Gates scan both inside and outside of the partial window
		// (default), preserving imagery around it.
		0x01,
	})

	ctrl.sendCommand(uc8176.DataStartTransmission2)
	ctrl.sendData(buffer)

	ctrl.sendCommand(uc8176.PartialOut)
	ctrl.waitUntilIdle()
}

// displayFrame triggers the refresh from the loaded frame registers.
func displayFrame(ctrl controller) {
	ctrl.sendCommand(uc8176.DisplayRefresh)
	ctrl.waitUntilIdle()
}

// clearFrame fills both frame registers with the background color.
func clearFrame(ctrl controller, bg byte) {
	sendResolution(ctrl)

	ctrl.sendCommand(uc8176.DataStartTransmission1)
	ctrl.sendDataRepeated(bg, Width/8*Height)

	ctrl.sendCommand(uc8176.DataStartTransmission2)
	ctrl.sendDataRepeated(bg, Width/8*Height)

	ctrl.waitUntilIdle()
}

// sleep tears the panel down into deep sleep: border floating, VCOM to 0V,
// source/gate rails to 0V, power off, then the deep sleep command with its
// check byte. Only a wake up (re-init) may follow.
func sleep(ctrl controller) {
	ctrl.sendCommand(uc8176.VCOMAndDataIntervalSetting)
	ctrl.sendData([]byte{0x17}) // border floating

	ctrl.sendCommand(uc8176.VCMDCSetting) // VCOM to 0V
	ctrl.sendCommand(uc8176.PanelSetting)

	ctrl.sendCommand(uc8176.PowerSetting) // VG&VS to 0V fast
	ctrl.sendData([]byte{0x00, 0x00, 0x00, 0x00})

	ctrl.sendCommand(uc8176.PowerOff)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(uc8176.DeepSleep)
	ctrl.sendData([]byte{uc8176.DeepSleepCheck})
}

// setLUT programs the five waveform tables of the given set.
func setLUT(ctrl controller, lut *uc8176.LUTSet) {
	ctrl.sendCommand(uc8176.LUTForVCOM)
	ctrl.sendData(lut.VCOM)

	ctrl.sendCommand(uc8176.LUTWhiteToWhite)
	ctrl.sendData(lut.WhiteToWhite)

	ctrl.sendCommand(uc8176.LUTBlackToWhite)
	ctrl.sendData(lut.BlackToWhite)

	ctrl.sendCommand(uc8176.LUTWhiteToBlack)
	ctrl.sendData(lut.WhiteToBlack)

	ctrl.sendCommand(uc8176.LUTBlackToBlack)
	ctrl.sendData(lut.BlackToBlack)

	ctrl.waitUntilIdle()
}
