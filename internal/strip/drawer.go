package strip

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
)

// ws2812 wire rate; each NRZ bit costs 3 SPI bits, plus headroom.
const wireRateKHz = 800

// Drawer adapts a display.Drawer (an nrzled strip on SPI, or the ANSI
// console preview) to the Strip interface through a 1xN staging image.
type Drawer struct {
	d      display.Drawer
	img    *image.NRGBA
	n      int
	closer io.Closer
}

// NewDrawer wraps d as an n-pixel strip.
func NewDrawer(d display.Drawer, n int) *Drawer {
	return &Drawer{
		d:   d,
		img: image.NewNRGBA(image.Rect(0, 0, n, 1)),
		n:   n,
	}
}

// OpenSPI opens the named SPI port ("" for the first one) and drives n
// ws2812-class pixels over it.
func OpenSPI(port string, n int) (*Drawer, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("strip: opening SPI port %q: %w", port, err)
	}
	opts := nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      ((wireRateKHz * 3) + 100) * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("strip: configuring nrzled: %w", err)
	}
	s := NewDrawer(d, n)
	s.closer = p
	return s, nil
}

// OpenConsole returns an n-pixel strip rendered as ANSI color cells on
// stdout, for development without hardware.
func OpenConsole(n int) *Drawer {
	return NewDrawer(screen.New(n), n)
}

func (s *Drawer) String() string { return s.d.String() }

func (s *Drawer) Count() int { return s.n }

func (s *Drawer) Set(i int, r, g, b byte) {
	s.img.SetNRGBA(i, 0, color.NRGBA{R: r, G: g, B: b, A: 0xFF})
}

func (s *Drawer) Fill(r, g, b byte) {
	for i := 0; i < s.n; i++ {
		s.Set(i, r, g, b)
	}
}

func (s *Drawer) Flush() error {
	return s.d.Draw(s.d.Bounds(), s.img, image.Point{})
}

// Close blanks the pixels, halts the device and releases the port.
func (s *Drawer) Close() error {
	s.Fill(0, 0, 0)
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.d.Halt(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
