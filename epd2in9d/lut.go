// Copyright 2024 The EPD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9d

import "github.com/epaperlabs/epd/uc8176"

// Waveform tables from the vendor reference code.

var lutFull = uc8176.LUTSet{
	VCOM: uc8176.LUT{
		0x00, 0x08, 0x00, 0x00, 0x00, 0x02,
		0x60, 0x28, 0x28, 0x00, 0x00, 0x01,
		0x00, 0x14, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x12, 0x12, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	},
	WhiteToWhite: uc8176.LUT{
		0x40, 0x08, 0x00, 0x00, 0x00, 0x02,
		0x90, 0x28, 0x28, 0x00, 0x00, 0x01,
		0x40, 0x14, 0x00, 0x00, 0x00, 0x01,
		0xA0, 0x12, 0x12, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BlackToWhite: uc8176.LUT{
		0x40, 0x08, 0x00, 0x00, 0x00, 0x02,
		0x90, 0x28, 0x28, 0x00, 0x00, 0x01,
		0x40, 0x14, 0x00, 0x00, 0x00, 0x01,
		0xA0, 0x12, 0x12, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	WhiteToBlack: uc8176.LUT{
		0x80, 0x08, 0x00, 0x00, 0x00, 0x02,
		0x90, 0x28, 0x28, 0x00, 0x00, 0x01,
		0x80, 0x14, 0x00, 0x00, 0x00, 0x01,
		0x50, 0x12, 0x12, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BlackToBlack: uc8176.LUT{
		0x80, 0x08, 0x00, 0x00, 0x00, 0x02,
		0x90, 0x28, 0x28, 0x00, 0x00, 0x01,
		0x80, 0x14, 0x00, 0x00, 0x00, 0x01,
		0x50, 0x12, 0x12, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}

var lutQuick = uc8176.LUTSet{
	VCOM: uc8176.LUT{
		0x00, 0x19, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	},
	WhiteToWhite: uc8176.LUT{
		0x00, 0x19, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BlackToWhite: uc8176.LUT{
		0x80, 0x19, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	WhiteToBlack: uc8176.LUT{
		0x40, 0x19, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	BlackToBlack: uc8176.LUT{
		0x00, 0x19, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
}
