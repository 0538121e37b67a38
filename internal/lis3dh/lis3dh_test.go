package lis3dh_test

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/lis3dh"
)

const addr = lis3dh.DefaultAddr

func whoAmI(id byte) i2ctest.IO {
	return i2ctest.IO{Addr: addr, W: []byte{0x0F}, R: []byte{id}}
}

func TestNewChecksIdentity(t *testing.T) {
	b := &i2ctest.Playback{Ops: []i2ctest.IO{whoAmI(0x33)}, DontPanic: true}
	d, err := lis3dh.New(b, addr)
	if err != nil {
		t.Fatal(err)
	}
	if got, expected := d.String(), "lis3dh{playback(25)}"; got != expected {
		t.Fatalf("\nGot:  %s\nWant: %s\n", got, expected)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewRejectsWrongDevice(t *testing.T) {
	// 0x44 is what an LIS2DW answers, a likely mis-wiring.
	b := &i2ctest.Playback{Ops: []i2ctest.IO{whoAmI(0x44)}, DontPanic: true}
	if _, err := lis3dh.New(b, addr); !errors.Is(err, lis3dh.ErrWrongDevice) {
		t.Fatalf("want ErrWrongDevice, got %v", err)
	}
}

func TestConfigureWritesRateAndRange(t *testing.T) {
	b := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			whoAmI(0x33),
			// ODR 50Hz, all axes on.
			{Addr: addr, W: []byte{0x20, 0x47}},
			// BDU + high resolution, 4g full scale.
			{Addr: addr, W: []byte{0x23, 0x98}},
		},
		DontPanic: true,
	}
	d, err := lis3dh.New(b, addr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Configure(4, 50); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigureRejectsUnsupported(t *testing.T) {
	b := &i2ctest.Playback{Ops: []i2ctest.IO{whoAmI(0x33)}, DontPanic: true}
	d, err := lis3dh.New(b, addr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Configure(3, 50); !errors.Is(err, lis3dh.ErrUnsupportedRange) {
		t.Fatalf("want ErrUnsupportedRange, got %v", err)
	}
	if err := d.Configure(4, 60); !errors.Is(err, lis3dh.ErrUnsupportedRate) {
		t.Fatalf("want ErrUnsupportedRate, got %v", err)
	}
}

func TestEnableSingleTapSequence(t *testing.T) {
	b := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			whoAmI(0x33),
			{Addr: addr, W: []byte{0x22, 0x80}}, // click IRQ on INT1
			{Addr: addr, W: []byte{0x24, 0x08}}, // latch INT1
			{Addr: addr, W: []byte{0x38, 0x15}}, // single tap, XYZ
			{Addr: addr, W: []byte{0x3A, 0xB0}}, // 0x80 | threshold 48
			{Addr: addr, W: []byte{0x3B, 0x0D}}, // time limit 13
		},
		DontPanic: true,
	}
	d, err := lis3dh.New(b, addr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.EnableSingleTap(48, 13); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPollSingleTapEdge(t *testing.T) {
	src := func(v byte) i2ctest.IO {
		return i2ctest.IO{Addr: addr, W: []byte{0x39}, R: []byte{v}}
	}
	b := &i2ctest.Playback{
		Ops:       []i2ctest.IO{whoAmI(0x33), src(0x00), src(0x50), src(0x00)},
		DontPanic: true,
	}
	d, err := lis3dh.New(b, addr)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []bool{false, true, false} {
		got, err := d.PollSingleTap()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("poll %d: got %v want %v", i, got, want)
		}
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestHaltPowersDown(t *testing.T) {
	b := &i2ctest.Playback{
		Ops:       []i2ctest.IO{whoAmI(0x33), {Addr: addr, W: []byte{0x20, 0x00}}},
		DontPanic: true,
	}
	d, err := lis3dh.New(b, addr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}
