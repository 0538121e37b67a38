// Package lis3dh drives the ST LIS3DH accelerometer over I2C, exposing
// the hardware single-tap detector used for step sensing.
package lis3dh

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the I2C address with SDO pulled high, the wiring on
// Adafruit wearable boards.
const DefaultAddr uint16 = 0x19

// Registers.
const (
	regWhoAmI    = 0x0F
	regCtrl1     = 0x20
	regCtrl3     = 0x22
	regCtrl4     = 0x23
	regCtrl5     = 0x24
	regClickCfg  = 0x38
	regClickSrc  = 0x39
	regClickThs  = 0x3A
	regTimeLimit = 0x3B
)

// Register values.
const (
	devID = 0x33

	ctrl1AxesXYZ      = 0x07 // X/Y/Z enable
	ctrl3ClickOnInt1  = 0x80 // route click interrupt to INT1
	ctrl4BDUHighRes   = 0x88 // block data update + high resolution
	ctrl5LatchInt1    = 0x08 // latch interrupt until source is read
	clickCfgSingleXYZ = 0x15 // single tap on all three axes

	clickThsLatch  = 0x80
	clickSrcSingle = 0x10
)

var (
	ErrWrongDevice      = errors.New("lis3dh: unexpected device id")
	ErrUnsupportedRange = errors.New("lis3dh: unsupported sensitivity range")
	ErrUnsupportedRate  = errors.New("lis3dh: unsupported data rate")
)

// ODR field per supported rate in Hz.
var dataRates = map[int]byte{
	1:   0x1,
	10:  0x2,
	25:  0x3,
	50:  0x4,
	100: 0x5,
	200: 0x6,
	400: 0x7,
}

// FS field per supported full-scale range in g.
var fullScales = map[int]byte{
	2:  0x0,
	4:  0x1,
	8:  0x2,
	16: 0x3,
}

// Dev is an open LIS3DH.
type Dev struct {
	c i2c.Dev
}

// New opens the sensor on bus at addr and verifies its identity.
func New(bus i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{c: i2c.Dev{Bus: bus, Addr: addr}}
	id, err := d.readReg(regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("lis3dh: reading WHO_AM_I: %w", err)
	}
	if id != devID {
		return nil, fmt.Errorf("lis3dh: WHO_AM_I returned 0x%02x: %w", id, ErrWrongDevice)
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("lis3dh{%s}", &d.c)
}

// Configure sets the full-scale sensitivity range (in g) and output
// data rate (in Hz), enabling all three axes.
func (d *Dev) Configure(rangeG, rateHz int) error {
	odr, ok := dataRates[rateHz]
	if !ok {
		return fmt.Errorf("lis3dh: %dHz: %w", rateHz, ErrUnsupportedRate)
	}
	fs, ok := fullScales[rangeG]
	if !ok {
		return fmt.Errorf("lis3dh: %dg: %w", rangeG, ErrUnsupportedRange)
	}
	if err := d.writeReg(regCtrl1, odr<<4|ctrl1AxesXYZ); err != nil {
		return fmt.Errorf("lis3dh: setting data rate: %w", err)
	}
	if err := d.writeReg(regCtrl4, ctrl4BDUHighRes|fs<<4); err != nil {
		return fmt.Errorf("lis3dh: setting range: %w", err)
	}
	return nil
}

// EnableSingleTap arms single-tap detection on all axes with the given
// 7-bit threshold and time-limit codes.
func (d *Dev) EnableSingleTap(threshold, timeLimit byte) error {
	seq := []struct{ reg, val byte }{
		{regCtrl3, ctrl3ClickOnInt1},
		{regCtrl5, ctrl5LatchInt1},
		{regClickCfg, clickCfgSingleXYZ},
		{regClickThs, clickThsLatch | threshold&0x7F},
		{regTimeLimit, timeLimit & 0x7F},
	}
	for _, w := range seq {
		if err := d.writeReg(w.reg, w.val); err != nil {
			return fmt.Errorf("lis3dh: arming tap detection: %w", err)
		}
	}
	return nil
}

// PollSingleTap reads the click source latch. It reports true at most
// once per physical tap; the register clears itself on read.
func (d *Dev) PollSingleTap() (bool, error) {
	src, err := d.readReg(regClickSrc)
	if err != nil {
		return false, fmt.Errorf("lis3dh: reading click source: %w", err)
	}
	return src&clickSrcSingle != 0, nil
}

// Halt powers the sensor down.
func (d *Dev) Halt() error {
	if err := d.writeReg(regCtrl1, 0x00); err != nil {
		return fmt.Errorf("lis3dh: powering down: %w", err)
	}
	return nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := d.c.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Dev) writeReg(reg, val byte) error {
	return d.c.Tx([]byte{reg, val}, nil)
}
