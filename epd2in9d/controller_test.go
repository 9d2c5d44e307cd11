// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9d

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/epaperlabs/epd/uc8176"
)

type record struct {
	cmd  byte
	data []byte
}

type fakeController []record

func (r *fakeController) sendCommand(cmd byte) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (r *fakeController) sendDataRepeated(b byte, n int) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, bytes.Repeat([]byte{b}, n)...)
}

func (*fakeController) waitUntilIdle() {
}

func diffRecords(t *testing.T, name string, got fakeController, want []record) {
	t.Helper()
	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("%s difference (-got +want):\n%s", name, diff)
	}
}

func TestInitDisplay(t *testing.T) {
	var got fakeController

	initDisplay(&got, &lutFull)

	want := []record{
		{cmd: uc8176.PowerSetting, data: []byte{0x03, 0x00, 0x2B, 0x2B, 0x03}},
		{cmd: uc8176.BoosterSoftStart, data: []byte{0x17, 0x17, 0x17}},
		{cmd: uc8176.PowerOn},
		{cmd: uc8176.PanelSetting, data: []byte{0xBF, 0x0D}},
		{cmd: uc8176.PLLControl, data: []byte{0x3A}},
		{cmd: uc8176.LUTForVCOM, data: lutFull.VCOM},
		{cmd: uc8176.LUTWhiteToWhite, data: lutFull.WhiteToWhite},
		{cmd: uc8176.LUTBlackToWhite, data: lutFull.BlackToWhite},
		{cmd: uc8176.LUTWhiteToBlack, data: lutFull.WhiteToBlack},
		{cmd: uc8176.LUTBlackToBlack, data: lutFull.BlackToBlack},
	}

	diffRecords(t, "initDisplay()", got, want)
}

func TestUpdateFrame(t *testing.T) {
	buffer := bytes.Repeat([]byte{0xA5}, Width/8*Height)

	var got fakeController

	updateFrame(&got, 0xFF, buffer)

	want := []record{
		{cmd: uc8176.ResolutionSetting, data: []byte{0x00, 0x80, 0x01, 0x28}},
		{cmd: uc8176.VCMDCSetting, data: []byte{0x12}},
		{cmd: uc8176.VCOMAndDataIntervalSetting, data: []byte{0x97}},
		{cmd: uc8176.DataStartTransmission1, data: bytes.Repeat([]byte{0xFF}, 4736)},
		{cmd: uc8176.DataStartTransmission2, data: buffer},
	}

	diffRecords(t, "updateFrame()", got, want)
}

func TestUpdatePartialFrame(t *testing.T) {
	buffer := bytes.Repeat([]byte{0x0F}, 2*8)

	var got fakeController

	updatePartialFrame(&got, buffer, 16, 100, 16, 8)

	want := []record{
		{cmd: uc8176.PartialIn},
		{cmd: uc8176.PartialWindow, data: []byte{
			0x00, 0x10,
			0x00, 0x1F,
			0x00, 0x64,
			0x00, 0x6B,
			0x01,
		}},
		{cmd: uc8176.DataStartTransmission2, data: buffer},
		{cmd: uc8176.PartialOut},
	}

	diffRecords(t, "updatePartialFrame()", got, want)
}

func TestSleep(t *testing.T) {
	var got fakeController

	sleep(&got)

	want := []record{
		{cmd: uc8176.VCOMAndDataIntervalSetting, data: []byte{0x17}},
		{cmd: uc8176.VCMDCSetting},
		{cmd: uc8176.PanelSetting},
		{cmd: uc8176.PowerSetting, data: []byte{0x00, 0x00, 0x00, 0x00}},
		{cmd: uc8176.PowerOff},
		{cmd: uc8176.DeepSleep, data: []byte{0xA5}},
	}

	diffRecords(t, "sleep()", got, want)
}
