// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package uc8176 lists the command set of the UltraChip UC8176 (also sold as
// IL0398) e-paper controller used by the Waveshare 4.2" family of monochrome
// panels. Panel drivers reference these opcodes; panels that lack a feature
// simply never send the corresponding command.
package uc8176

// Commands
const (
	PanelSetting               byte = 0x00
	PowerSetting               byte = 0x01
	PowerOff                   byte = 0x02
	PowerOffSequenceSetting    byte = 0x03
	PowerOn                    byte = 0x04
	PowerOnMeasure             byte = 0x05
	BoosterSoftStart           byte = 0x06
	DeepSleep                  byte = 0x07
	DataStartTransmission1     byte = 0x10
	DataStop                   byte = 0x11
	DisplayRefresh             byte = 0x12
	DataStartTransmission2     byte = 0x13
	LUTForVCOM                 byte = 0x20
	LUTWhiteToWhite            byte = 0x21
	LUTBlackToWhite            byte = 0x22
	LUTWhiteToBlack            byte = 0x23
	LUTBlackToBlack            byte = 0x24
	PLLControl                 byte = 0x30
	TemperatureSensorCommand   byte = 0x40
	TemperatureSensorSelection byte = 0x41
	TemperatureSensorWrite     byte = 0x42
	TemperatureSensorRead      byte = 0x43
	VCOMAndDataIntervalSetting byte = 0x50
	LowPowerDetection          byte = 0x51
	TCONSetting                byte = 0x60
	ResolutionSetting          byte = 0x61
	GetStatus                  byte = 0x71
	AutoMeasureVCOM            byte = 0x80
	ReadVCOMValue              byte = 0x81
	VCMDCSetting               byte = 0x82
	PartialWindow              byte = 0x90
	PartialIn                  byte = 0x91
	PartialOut                 byte = 0x92
	ProgramMode                byte = 0xA0
	ActiveProgramming          byte = 0xA1
	ReadOTP                    byte = 0xA2
	PowerSaving                byte = 0xE3
)

// DeepSleepCheck is the check byte that must follow the DeepSleep command.
// The controller ignores the command without it.
const DeepSleepCheck byte = 0xA5

// LUT contains one waveform table that is programmed into the controller.
type LUT []byte

// LUTSet bundles the five waveform tables the controller consumes: the VCOM
// waveform plus one table per pixel transition.
type LUTSet struct {
	VCOM         LUT
	WhiteToWhite LUT
	BlackToWhite LUT
	WhiteToBlack LUT
	BlackToBlack LUT
}

// Refresh selects which LUTSet a panel driver programs.
type Refresh uint8

const (
	// Full drives every pixel through a reset waveform. Artifact-free,
	// roughly two seconds per refresh.
	Full Refresh = iota
	// Quick trades quality for sub-second refreshes. Repeated quick
	// refreshes can leave ghosting; run a full refresh now and then.
	Quick
)
