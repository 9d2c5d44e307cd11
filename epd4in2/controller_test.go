// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd4in2

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

func lutRecords(lut *uc8176.LUTSet) []record {
	return []record{
		{cmd: uc8176.LUTForVCOM, data: lut.VCOM},
		{cmd: uc8176.LUTWhiteToWhite, data: lut.WhiteToWhite},
		{cmd: uc8176.LUTBlackToWhite, data: lut.BlackToWhite},
		{cmd: uc8176.LUTWhiteToBlack, data: lut.WhiteToBlack},
		{cmd: uc8176.LUTBlackToBlack, data: lut.BlackToBlack},
	}
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
		{cmd: uc8176.PowerSetting, data: []byte{0x03, 0x00, 0x2B, 0x2B, 0xFF}},
		{cmd: uc8176.BoosterSoftStart, data: []byte{0x17, 0x17, 0x17}},
		{cmd: uc8176.PowerOn},
		{cmd: uc8176.PanelSetting, data: []byte{0x3F}},
		{cmd: uc8176.PLLControl, data: []byte{0x3A}},
	}
	want = append(want, lutRecords(&lutFull)...)

	diffRecords(t, "initDisplay()", got, want)
}

func TestUpdateFrame(t *testing.T) {
	buffer := bytes.Repeat([]byte{0xFF}, Width/8*Height)

	var got fakeController

	updateFrame(&got, 0xFF, buffer)

	want := []record{
		{cmd: uc8176.ResolutionSetting, data: []byte{0x01, 0x90, 0x01, 0x2C}},
		{cmd: uc8176.VCMDCSetting, data: []byte{0x12}},
		{cmd: uc8176.VCOMAndDataIntervalSetting, data: []byte{0x97}},
		{cmd: uc8176.DataStartTransmission1, data: bytes.Repeat([]byte{0xFF}, 15000)},
		{cmd: uc8176.DataStartTransmission2, data: buffer},
	}

	diffRecords(t, "updateFrame()", got, want)
}

func TestClearFrame(t *testing.T) {
	var got fakeController

	clearFrame(&got, 0xFF)

	want := []record{
		{cmd: uc8176.ResolutionSetting, data: []byte{0x01, 0x90, 0x01, 0x2C}},
		{cmd: uc8176.DataStartTransmission1, data: bytes.Repeat([]byte{0xFF}, 15000)},
		{cmd: uc8176.DataStartTransmission2, data: bytes.Repeat([]byte{0xFF}, 15000)},
	}

	diffRecords(t, "clearFrame()", got, want)
}

func TestUpdatePartialFrame(t *testing.T) {
	buffer := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	var got fakeController

	updatePartialFrame(&got, buffer, 3, 10, 16, 4)

	want := []record{
		{cmd: uc8176.PartialIn},
		{cmd: uc8176.PartialWindow, data: []byte{
			0x00, 0x00, // left edge aligned down to 0
			0x00, 0x17, // right edge 3+16-1 aligned up to 23
			0x00, 0x0A,
			0x00, 0x0D,
			0x01,
		}},
		{cmd: uc8176.DataStartTransmission2, data: buffer},
		{cmd: uc8176.PartialOut},
	}

	diffRecords(t, "updatePartialFrame()", got, want)
}

// TestPartialWindowAlignment checks the hardware alignment rule: the left
// edge always has its low 3 bits clear and the right edge has them set.
func TestPartialWindowAlignment(t *testing.T) {
	for _, tc := range []struct {
		x, w                int
		wantLeft, wantRight byte
	}{
		{x: 0, w: 8, wantLeft: 0x00, wantRight: 0x07},
		{x: 3, w: 16, wantLeft: 0x00, wantRight: 0x17},
		{x: 8, w: 8, wantLeft: 0x08, wantRight: 0x0F},
		{x: 15, w: 8, wantLeft: 0x08, wantRight: 0x17},
	} {
		var got fakeController

		updatePartialFrame(&got, bytes.Repeat([]byte{0}, tc.w/8), tc.x, 0, tc.w, 1)

		window := got[1]
		if window.cmd != uc8176.PartialWindow {
			t.Fatalf("x=%d w=%d: second command = %#02x, want PartialWindow", tc.x, tc.w, window.cmd)
		}
		left, right := window.data[1], window.data[3]
		if left != tc.wantLeft || left&0x07 != 0 {
			t.Errorf("x=%d w=%d: left edge = %#02x, want %#02x with low 3 bits clear", tc.x, tc.w, left, tc.wantLeft)
		}
		if right != tc.wantRight || right&0x07 != 0x07 {
			t.Errorf("x=%d w=%d: right edge = %#02x, want %#02x with low 3 bits set", tc.x, tc.w, right, tc.wantRight)
		}
	}
}

func TestDisplayFrame(t *testing.T) {
	var got fakeController

	displayFrame(&got)

	diffRecords(t, "displayFrame()", got, []record{
		{cmd: uc8176.DisplayRefresh},
	})
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

// TestSetLUT checks that switching to the quick waveform and back
// reprograms all five tables each time.
func TestSetLUT(t *testing.T) {
	var got fakeController

	setLUT(&got, &lutQuick)
	setLUT(&got, &lutFull)

	want := append(lutRecords(&lutQuick), lutRecords(&lutFull)...)

	diffRecords(t, "setLUT()", got, want)
}

func TestLUTTableSizes(t *testing.T) {
	for _, tc := range []struct {
		name string
		lut  *uc8176.LUTSet
	}{
		{name: "full", lut: &lutFull},
		{name: "quick", lut: &lutQuick},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(tc.lut.VCOM); got != 44 {
				t.Errorf("len(VCOM) = %d, want 44", got)
			}
			for name, l := range map[string]uc8176.LUT{
				"WhiteToWhite": tc.lut.WhiteToWhite,
				"BlackToWhite": tc.lut.BlackToWhite,
				"WhiteToBlack": tc.lut.WhiteToBlack,
				"BlackToBlack": tc.lut.BlackToBlack,
			} {
				if got := len(l); got != 42 {
					t.Errorf("len(%s) = %d, want 42", name, got)
				}
			}
		})
	}
}
