package rp2040

import "github.com/Alloy-Embedded/alloy-sub003/pinmux"

// Signal order inside each four-pin repeat of the function grid.
var (
	spiSigOrder = [4]pinmux.Signal{
		pinmux.SigSPISDI, pinmux.SigSPICS, pinmux.SigSPISCK, pinmux.SigSPISDO,
	}
	uartSigOrder = [4]pinmux.Signal{
		pinmux.SigUARTTX, pinmux.SigUARTRX, pinmux.SigUARTCTS, pinmux.SigUARTRTS,
	}
)

// buildRoutes expands the RP2040 pin-function grid. Unlike chips with
// irregular alternate-function tables, every user pin here carries the
// same four peripheral functions on a repeating pattern, so the table
// is generated rather than written out:
//
//	F1 SPI:  SDI, CS, SCK, SDO every four pins, instance flips every 8
//	F2 UART: TX, RX, CTS, RTS every four pins, instance flips every 8
//	         offset so GP0 lands on UART0 TX and GP8 on UART1 TX
//	F3 I2C:  SDA on even, SCL on odd, instance flips every 2
//	F4 PWM:  slice pin/2 mod 8, channel A on even pins and B on odd
func buildRoutes() []pinmux.Route {
	rs := make([]pinmux.Route, 0, 30*4)
	for i := uint8(0); i < 30; i++ {
		pin := pinmux.PinAt(0, i)

		spiPer := SPI0
		if i/8%2 == 1 {
			spiPer = SPI1
		}
		rs = append(rs, pinmux.Route{
			Pin: pin, Per: spiPer, Sig: spiSigOrder[i%4], Alt: funcSPI,
		})

		uartPer := UART0
		if (i+4)/8%2 == 1 {
			uartPer = UART1
		}
		rs = append(rs, pinmux.Route{
			Pin: pin, Per: uartPer, Sig: uartSigOrder[i%4], Alt: funcUART,
		})

		i2cPer := I2C0
		if i/2%2 == 1 {
			i2cPer = I2C1
		}
		i2cSig := pinmux.SigI2CSDA
		if i%2 == 1 {
			i2cSig = pinmux.SigI2CSCL
		}
		rs = append(rs, pinmux.Route{
			Pin: pin, Per: i2cPer, Sig: i2cSig, Alt: funcI2C,
		})

		rs = append(rs, pinmux.Route{
			Pin: pin, Per: pwmSlices[i/2%8], Sig: pinmux.SigPWMOut,
			Alt: funcPWM, Unit: i % 2,
		})
	}
	return rs
}

// Routes is the pin-function table for the 30-pin user bank.
var Routes = pinmux.MustTable(Chip, buildRoutes())
